package store

import (
	"context"
	"fmt"

	"github.com/artur-t-96/MINDY/internal/model"
)

// ListTargets returns every target, most recently inserted first.
func (s *Store) ListTargets(ctx context.Context) ([]model.Target, error) {
	out := []model.Target{}
	err := s.db.SelectContext(ctx, &out,
		"SELECT id, role, kpi, value, period_unit FROM targets ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("query targets failed: %w", err)
	}
	return out, nil
}

// AddTarget appends a target row. Existing rows are never updated; the newest
// row for a KPI wins on lookup.
func (s *Store) AddTarget(ctx context.Context, t model.Target) (int64, error) {
	if t.PeriodUnit == "" {
		t.PeriodUnit = "week"
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO targets (role, kpi, value, period_unit) VALUES (?, ?, ?, ?)",
		t.Role, t.KPI, t.Value, t.PeriodUnit)
	if err != nil {
		return 0, fmt.Errorf("failed to add target %s/%s: %w", t.Role, t.KPI, err)
	}
	return res.LastInsertId()
}

func (s *Store) seedTargets(ctx context.Context) error {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(1) FROM targets"); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, t := range model.DefaultTargets {
		if _, err := s.AddTarget(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
