package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/artur-t-96/MINDY/internal/period"
)

// ResolveWeek returns the id of (year, week), creating the row on first use.
// Week numbers are stored as given.
func (s *Store) ResolveWeek(ctx context.Context, year, week int) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO weeks (year, week) VALUES (?, ?)
		ON CONFLICT(year, week) DO UPDATE SET year = excluded.year
		RETURNING id
	`, year, week)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve week %d/%d: %w", week, year, err)
	}
	return id, nil
}

// FindWeek looks up an existing week without creating it.
func (s *Store) FindWeek(ctx context.Context, year, week int) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, "SELECT id FROM weeks WHERE year = ? AND week = ?", year, week)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to find week %d/%d: %w", week, year, err)
	}
	return id, nil
}

// ListWeeks lists known weeks, most recent first.
func (s *Store) ListWeeks(ctx context.Context, limit int) ([]period.Week, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []period.Week{}
	err := s.db.SelectContext(ctx, &out,
		"SELECT year, week FROM weeks ORDER BY year DESC, week DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query weeks failed: %w", err)
	}
	return out, nil
}

// DeleteWeek removes every recruitment and sales fact of (year, week), the
// weekly narratives stored for it and the week row itself. It returns the
// number of fact rows removed, or ErrNotFound for an unknown week.
func (s *Store) DeleteWeek(ctx context.Context, year, week int) (int64, error) {
	weekID, err := s.FindWeek(ctx, year, week)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var removed int64
	for _, table := range []string{"kpi_recruitment", "kpi_sales"} {
		res, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE week_id = ?", weekID)
		if err != nil {
			return 0, fmt.Errorf("failed to delete from %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		removed += n
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM narratives WHERE year = ? AND period_unit = ? AND period_value = ?",
		year, period.UnitWeek, week); err != nil {
		return 0, fmt.Errorf("failed to delete narratives: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM weeks WHERE id = ?", weekID); err != nil {
		return 0, fmt.Errorf("failed to delete week: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit delete: %w", err)
	}
	return removed, nil
}
