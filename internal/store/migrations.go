package store

import (
	"context"
	"errors"
	"fmt"
)

// migrations is an ordered list of statement groups. Version N is the N-th
// group; each group runs in its own transaction and bumps schema_version.
var migrations = [][]string{
	// 1: people, weeks, weekly KPI facts, targets, narratives, import log
	{
		`CREATE TABLE IF NOT EXISTS people (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			role TEXT NOT NULL,
			department TEXT NOT NULL CHECK(department IN ('recruitment', 'sales')),
			active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(name, role)
		)`,
		`CREATE TABLE IF NOT EXISTS weeks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			year INTEGER NOT NULL,
			week INTEGER NOT NULL,
			UNIQUE(year, week)
		)`,
		`CREATE TABLE IF NOT EXISTS kpi_recruitment (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			person_id INTEGER NOT NULL REFERENCES people(id),
			week_id INTEGER NOT NULL REFERENCES weeks(id),
			working_days REAL NOT NULL DEFAULT 5,
			verifications INTEGER NOT NULL DEFAULT 0,
			recommendations INTEGER NOT NULL DEFAULT 0,
			cvs_added INTEGER NOT NULL DEFAULT 0,
			placements INTEGER NOT NULL DEFAULT 0,
			UNIQUE(person_id, week_id)
		)`,
		`CREATE TABLE IF NOT EXISTS kpi_sales (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			person_id INTEGER NOT NULL REFERENCES people(id),
			week_id INTEGER NOT NULL REFERENCES weeks(id),
			working_days REAL NOT NULL DEFAULT 5,
			leads INTEGER NOT NULL DEFAULT 0,
			offers INTEGER NOT NULL DEFAULT 0,
			mrr REAL NOT NULL DEFAULT 0,
			UNIQUE(person_id, week_id)
		)`,
		`CREATE TABLE IF NOT EXISTS targets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			role TEXT NOT NULL,
			kpi TEXT NOT NULL,
			value REAL NOT NULL,
			period_unit TEXT NOT NULL DEFAULT 'week' CHECK(period_unit IN ('week', 'month'))
		)`,
		`CREATE TABLE IF NOT EXISTS narratives (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			department TEXT NOT NULL,
			year INTEGER NOT NULL,
			period_unit TEXT NOT NULL,
			period_value INTEGER NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_narratives_period ON narratives(year, period_unit, period_value, department)`,
		`CREATE TABLE IF NOT EXISTS import_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filenames TEXT NOT NULL DEFAULT '',
			records_imported INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	// 2: monthly facts - hit ratio and board KPIs
	{
		`CREATE TABLE IF NOT EXISTS hit_ratio (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			person_id INTEGER NOT NULL REFERENCES people(id),
			year INTEGER NOT NULL,
			month INTEGER NOT NULL,
			closed_requests INTEGER NOT NULL DEFAULT 0,
			placements INTEGER NOT NULL DEFAULT 0,
			hit_ratio INTEGER NOT NULL DEFAULT 0,
			UNIQUE(person_id, year, month)
		)`,
		`CREATE TABLE IF NOT EXISTS board_measurements (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			year INTEGER NOT NULL,
			month INTEGER NOT NULL,
			week INTEGER NOT NULL DEFAULT 0,
			kpi_code TEXT NOT NULL,
			value REAL NOT NULL DEFAULT 0,
			target REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(year, month, week, kpi_code)
		)`,
		`CREATE TABLE IF NOT EXISTS board_notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			year INTEGER NOT NULL,
			month INTEGER NOT NULL,
			kpi_code TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'yellow' CHECK(status IN ('green', 'yellow', 'red')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(year, month, kpi_code)
		)`,
	},
	// 3: import log detail, sales placements
	{
		`ALTER TABLE import_log ADD COLUMN periods TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE import_log ADD COLUMN panel TEXT NOT NULL DEFAULT 'all'`,
		`ALTER TABLE import_log ADD COLUMN summary TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE import_log ADD COLUMN batch_id TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE kpi_sales ADD COLUMN placements INTEGER NOT NULL DEFAULT 0`,
	},
	// 4: prep calls
	{
		`CREATE TABLE IF NOT EXISTS prep_calls (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			person_id INTEGER NOT NULL REFERENCES people(id),
			call_date TEXT NOT NULL,
			candidate TEXT NOT NULL DEFAULT '',
			checklist_json TEXT NOT NULL DEFAULT '{}',
			notes TEXT NOT NULL DEFAULT '',
			UNIQUE(person_id, call_date)
		)`,
	},
}

// SchemaVersion returns the number of applied migrations.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	v, err := s.GetSettingInt(ctx, settingSchemaVersion)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	return v, err
}

// LatestSchemaVersion is the version the code expects.
func LatestSchemaVersion() int {
	return len(migrations)
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, settingsTable); err != nil {
		return fmt.Errorf("failed to create settings table: %w", err)
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for i := current; i < len(migrations); i++ {
		version := i + 1
		tx, err := s.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", version, err)
		}
		for _, stmt := range migrations[i] {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d failed: %w", version, err)
			}
		}
		if err := setSetting(ctx, tx, settingSchemaVersion, fmt.Sprint(version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", version, err)
		}
	}
	return nil
}
