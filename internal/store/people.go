package store

import (
	"context"
	"fmt"

	"github.com/artur-t-96/MINDY/internal/identity"
	"github.com/artur-t-96/MINDY/internal/model"
)

// ResolvePerson canonicalizes rawRole and returns the id of (name, role),
// creating the person on first use. The upsert is a single statement, so two
// concurrent callers always receive the same id.
func (s *Store) ResolvePerson(ctx context.Context, name, rawRole string) (int64, error) {
	role := identity.NormalizeRole(rawRole)
	dept := identity.DepartmentForRole(role)

	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO people (name, role, department) VALUES (?, ?, ?)
		ON CONFLICT(name, role) DO UPDATE SET name = excluded.name
		RETURNING id
	`, name, string(role), string(dept))
	if err != nil {
		return 0, fmt.Errorf("failed to resolve person %q (%s): %w", name, role, err)
	}
	return id, nil
}

// ListPeople lists people, optionally filtered by department.
func (s *Store) ListPeople(ctx context.Context, dept identity.Department) ([]model.Person, error) {
	query := "SELECT id, name, role, department, active, created_at FROM people"
	var args []interface{}
	if dept != "" {
		query += " WHERE department = ?"
		args = append(args, string(dept))
	}
	query += " ORDER BY name, role"

	out := []model.Person{}
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("query people failed: %w", err)
	}
	return out, nil
}
