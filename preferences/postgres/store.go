package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/commercekit/stripe-gateway/preferences"
)

// Store is a preferences.Store backed by a preferences table.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *DB) *Store {
	return &Store{db: db.Pool}
}

func (s *Store) Get(ctx context.Context, name string) (string, error) {
	query := `SELECT value FROM preferences WHERE name = $1`

	var value string
	err := s.db.QueryRow(ctx, query, name).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", preferences.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read preference %s: %w", name, err)
	}

	return value, nil
}

// Set writes a preference value, replacing any previous one.
func (s *Store) Set(ctx context.Context, name, value string) error {
	query := `
		INSERT INTO preferences (name, value)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`

	if _, err := s.db.Exec(ctx, query, name, value); err != nil {
		return fmt.Errorf("failed to write preference %s: %w", name, err)
	}

	return nil
}

// Delete removes a preference. Deleting a missing preference is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM preferences WHERE name = $1`, name); err != nil {
		return fmt.Errorf("failed to delete preference %s: %w", name, err)
	}
	return nil
}
