package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a lookup by natural key or id finds nothing.
var ErrNotFound = errors.New("not found")

// Store SQLite storage layer
type Store struct {
	db *sqlx.DB
}

// New opens (or creates) the database at dbPath, applies pending migrations
// and seeds default targets.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", dbPath)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// one connection: sqlite has a single writer anyway
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.Init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Init runs migrations and seeding. It is idempotent.
func (s *Store) Init(ctx context.Context) error {
	if err := s.migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	if err := s.seedTargets(ctx); err != nil {
		return fmt.Errorf("failed to seed targets: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
