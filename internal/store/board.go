package store

import (
	"context"
	"fmt"

	"github.com/artur-t-96/MINDY/internal/model"
)

// UpsertBoardMeasurement writes a measured board KPI. A nil week is stored
// as 0 so monthly KPIs deduplicate under the unique key.
func (s *Store) UpsertBoardMeasurement(ctx context.Context, r model.BoardMathRecord) error {
	week := 0
	if r.Week != nil {
		week = *r.Week
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO board_measurements (year, month, week, kpi_code, value, target)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(year, month, week, kpi_code) DO UPDATE SET
			value = excluded.value,
			target = excluded.target
	`, r.Year, r.Month, week, r.Code, r.Value, r.Target)
	if err != nil {
		return fmt.Errorf("failed to upsert board kpi %s: %w", r.Code, err)
	}
	return nil
}

// UpsertBoardNote writes a descriptive board KPI.
func (s *Store) UpsertBoardNote(ctx context.Context, r model.BoardNoteRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO board_notes (year, month, kpi_code, description, status)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(year, month, kpi_code) DO UPDATE SET
			description = excluded.description,
			status = excluded.status
	`, r.Year, r.Month, r.Code, r.Description, r.Status)
	if err != nil {
		return fmt.Errorf("failed to upsert board note %s: %w", r.Code, err)
	}
	return nil
}

// ListBoardMeasurements returns the measured board KPIs of one month.
func (s *Store) ListBoardMeasurements(ctx context.Context, year, month int) ([]model.BoardMeasurement, error) {
	out := []model.BoardMeasurement{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT year, month, week, kpi_code, value, target
		FROM board_measurements
		WHERE year = ? AND month = ?
		ORDER BY kpi_code, week
	`, year, month)
	if err != nil {
		return nil, fmt.Errorf("query board measurements failed: %w", err)
	}
	return out, nil
}

// ListBoardNotes returns the descriptive board KPIs of one month.
func (s *Store) ListBoardNotes(ctx context.Context, year, month int) ([]model.BoardNote, error) {
	out := []model.BoardNote{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT year, month, kpi_code, description, status
		FROM board_notes
		WHERE year = ? AND month = ?
		ORDER BY kpi_code
	`, year, month)
	if err != nil {
		return nil, fmt.Errorf("query board notes failed: %w", err)
	}
	return out, nil
}
