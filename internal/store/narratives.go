package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/artur-t-96/MINDY/internal/model"
	"github.com/artur-t-96/MINDY/internal/period"
)

// SaveNarrative stores generated commentary for a department and period.
func (s *Store) SaveNarrative(ctx context.Context, dept string, key period.Key, content string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO narratives (department, year, period_unit, period_value, content)
		VALUES (?, ?, ?, ?, ?)
	`, dept, key.Year, string(key.Unit), key.Value, content)
	if err != nil {
		return 0, fmt.Errorf("failed to save narrative: %w", err)
	}
	return res.LastInsertId()
}

// LatestNarrative returns the newest narrative stored for a department and
// period.
func (s *Store) LatestNarrative(ctx context.Context, dept string, key period.Key) (model.Narrative, error) {
	var n model.Narrative
	err := s.db.GetContext(ctx, &n, `
		SELECT id, department, year, period_unit, period_value, content, created_at
		FROM narratives
		WHERE department = ? AND year = ? AND period_unit = ? AND period_value = ?
		ORDER BY id DESC
		LIMIT 1
	`, dept, key.Year, string(key.Unit), key.Value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Narrative{}, ErrNotFound
		}
		return model.Narrative{}, fmt.Errorf("failed to read narrative: %w", err)
	}
	return n, nil
}
