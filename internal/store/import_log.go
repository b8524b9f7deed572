package store

import (
	"context"
	"fmt"

	"github.com/artur-t-96/MINDY/internal/model"
)

// CreateImportLog appends an audit row and returns its id.
func (s *Store) CreateImportLog(ctx context.Context, e model.ImportLogEntry) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO import_log (batch_id, filenames, records_imported, periods, panel, summary)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.BatchID, e.Filenames, e.RecordsImported, e.Periods, e.Panel, e.Summary)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// ListImportLogs returns the most recent audit rows.
func (s *Store) ListImportLogs(ctx context.Context, limit int) ([]model.ImportLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	out := []model.ImportLogEntry{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, batch_id, filenames, records_imported, periods, panel, summary, created_at
		FROM import_log
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query import log failed: %w", err)
	}
	return out, nil
}

// DeleteImportLog removes one audit row.
func (s *Store) DeleteImportLog(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM import_log WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete import log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
