package store

import (
	"context"
	"fmt"

	"github.com/artur-t-96/MINDY/internal/model"
)

// UpsertSales writes one person-week of sales activity, replacing every
// measure of an existing row.
func (s *Store) UpsertSales(ctx context.Context, personID, weekID int64, r model.SalesRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kpi_sales (
			person_id, week_id, working_days, leads, offers, mrr, placements
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(person_id, week_id) DO UPDATE SET
			working_days = excluded.working_days,
			leads = excluded.leads,
			offers = excluded.offers,
			mrr = excluded.mrr,
			placements = excluded.placements
	`, personID, weekID, r.WorkingDays, r.Leads, r.Offers, r.MRR, r.Placements)
	if err != nil {
		return fmt.Errorf("failed to upsert sales for %s: %w", r.Name, err)
	}
	return nil
}

// ListSales returns the sales rows of one week.
func (s *Store) ListSales(ctx context.Context, year, week int) ([]model.SalesRow, error) {
	out := []model.SalesRow{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT p.name, p.role, k.working_days, k.leads, k.offers, k.mrr, k.placements
		FROM kpi_sales k
		JOIN people p ON p.id = k.person_id
		JOIN weeks w ON w.id = k.week_id
		WHERE w.year = ? AND w.week = ?
		ORDER BY p.name, p.role
	`, year, week)
	if err != nil {
		return nil, fmt.Errorf("query sales failed: %w", err)
	}
	return out, nil
}

// SalesTotals sums sales activity per person over every week.
func (s *Store) SalesTotals(ctx context.Context) ([]model.SalesTotal, error) {
	out := []model.SalesTotal{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT p.name, p.role,
			COUNT(DISTINCT k.week_id) AS weeks,
			SUM(k.working_days) AS working_days,
			SUM(k.leads) AS leads,
			SUM(k.offers) AS offers,
			SUM(k.mrr) AS mrr,
			SUM(k.placements) AS placements
		FROM kpi_sales k
		JOIN people p ON p.id = k.person_id
		GROUP BY p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("query sales totals failed: %w", err)
	}
	return out, nil
}
