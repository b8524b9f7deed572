package store

import (
	"context"
	"fmt"

	"github.com/artur-t-96/MINDY/internal/model"
)

// UpsertHitRatio writes one Delivery Lead month. ratio is computed by the
// caller.
func (s *Store) UpsertHitRatio(ctx context.Context, personID int64, r model.HitRatioRecord, ratio int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hit_ratio (person_id, year, month, closed_requests, placements, hit_ratio)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(person_id, year, month) DO UPDATE SET
			closed_requests = excluded.closed_requests,
			placements = excluded.placements,
			hit_ratio = excluded.hit_ratio
	`, personID, r.Year, r.Month, r.ClosedRequests, r.Placements, ratio)
	if err != nil {
		return fmt.Errorf("failed to upsert hit ratio for %s: %w", r.Name, err)
	}
	return nil
}

// ListHitRatios returns the hit ratios of one month.
func (s *Store) ListHitRatios(ctx context.Context, year, month int) ([]model.HitRatioRow, error) {
	out := []model.HitRatioRow{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT p.name, h.year, h.month, h.closed_requests, h.placements, h.hit_ratio
		FROM hit_ratio h
		JOIN people p ON p.id = h.person_id
		WHERE h.year = ? AND h.month = ?
		ORDER BY h.hit_ratio DESC, p.name
	`, year, month)
	if err != nil {
		return nil, fmt.Errorf("query hit ratio failed: %w", err)
	}
	return out, nil
}
