package store

import (
	"context"
	"fmt"

	"github.com/artur-t-96/MINDY/internal/model"
)

// UpsertRecruitment writes one person-week of recruitment activity. An
// existing row for (person, week) has every measure replaced.
func (s *Store) UpsertRecruitment(ctx context.Context, personID, weekID int64, r model.RecruitmentRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kpi_recruitment (
			person_id, week_id, working_days, verifications, recommendations, cvs_added, placements
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(person_id, week_id) DO UPDATE SET
			working_days = excluded.working_days,
			verifications = excluded.verifications,
			recommendations = excluded.recommendations,
			cvs_added = excluded.cvs_added,
			placements = excluded.placements
	`, personID, weekID, r.WorkingDays, r.Verifications, r.Recommendations, r.CVsAdded, r.Placements)
	if err != nil {
		return fmt.Errorf("failed to upsert recruitment for %s: %w", r.Name, err)
	}
	return nil
}

// ListRecruitment returns the recruitment rows of one week.
func (s *Store) ListRecruitment(ctx context.Context, year, week int) ([]model.RecruitmentRow, error) {
	out := []model.RecruitmentRow{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT p.name, p.role, k.working_days, k.verifications, k.recommendations, k.cvs_added, k.placements
		FROM kpi_recruitment k
		JOIN people p ON p.id = k.person_id
		JOIN weeks w ON w.id = k.week_id
		WHERE w.year = ? AND w.week = ?
		ORDER BY p.name, p.role
	`, year, week)
	if err != nil {
		return nil, fmt.Errorf("query recruitment failed: %w", err)
	}
	return out, nil
}

// RecruitmentTotals sums recruitment activity per person over every week.
func (s *Store) RecruitmentTotals(ctx context.Context) ([]model.RecruitmentTotal, error) {
	out := []model.RecruitmentTotal{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT p.name, p.role,
			COUNT(DISTINCT k.week_id) AS weeks,
			SUM(k.working_days) AS working_days,
			SUM(k.verifications) AS verifications,
			SUM(k.recommendations) AS recommendations,
			SUM(k.cvs_added) AS cvs_added,
			SUM(k.placements) AS placements
		FROM kpi_recruitment k
		JOIN people p ON p.id = k.person_id
		GROUP BY p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("query recruitment totals failed: %w", err)
	}
	return out, nil
}
