package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/artur-t-96/MINDY/internal/model"
)

// UpsertPrepCall writes one Delivery Lead prep call keyed by (person, date).
func (s *Store) UpsertPrepCall(ctx context.Context, personID int64, r model.PrepCallRecord) error {
	checklist := r.Checklist
	if checklist == nil {
		checklist = map[string]bool{}
	}
	raw, err := json.Marshal(checklist)
	if err != nil {
		return fmt.Errorf("failed to encode checklist: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO prep_calls (person_id, call_date, candidate, checklist_json, notes)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(person_id, call_date) DO UPDATE SET
			candidate = excluded.candidate,
			checklist_json = excluded.checklist_json,
			notes = excluded.notes
	`, personID, r.Date, r.Candidate, string(raw), r.Notes)
	if err != nil {
		return fmt.Errorf("failed to upsert prep call for %s: %w", r.Name, err)
	}
	return nil
}

// ListPrepCalls returns the prep calls dated within year-month.
func (s *Store) ListPrepCalls(ctx context.Context, year, month int) ([]model.PrepCall, error) {
	out := []model.PrepCall{}
	prefix := fmt.Sprintf("%04d-%02d-%%", year, month)
	err := s.db.SelectContext(ctx, &out, `
		SELECT p.name, c.call_date, c.candidate, c.checklist_json, c.notes
		FROM prep_calls c
		JOIN people p ON p.id = c.person_id
		WHERE c.call_date LIKE ?
		ORDER BY c.call_date, p.name
	`, prefix)
	if err != nil {
		return nil, fmt.Errorf("query prep calls failed: %w", err)
	}
	for i := range out {
		out[i].Checklist = map[string]bool{}
		if out[i].RawList != "" {
			if err := json.Unmarshal([]byte(out[i].RawList), &out[i].Checklist); err != nil {
				return nil, fmt.Errorf("failed to decode checklist of %s: %w", out[i].Name, err)
			}
		}
	}
	return out, nil
}
