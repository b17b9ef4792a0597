package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kailas-cloud/taggate/internal/db"
	"github.com/kailas-cloud/taggate/internal/domain"
)

// UserStore implements gateway.UserFinder on the users table.
type UserStore struct {
	conn *sql.DB
}

// FindByAPIKey returns domain.ErrUserNotFound for unknown keys.
func (s *UserStore) FindByAPIKey(ctx context.Context, apiKey string) (domain.User, error) {
	var (
		id     string
		active bool
	)
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, active FROM users WHERE api_key = $1`, apiKey,
	).Scan(&id, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", mapError(db.OpSelect, err))
	}
	return domain.ReconstructUser(id, apiKey, active), nil
}

// Exists reports whether apiKey is already assigned.
func (s *UserStore) Exists(ctx context.Context, apiKey string) (bool, error) {
	var ok bool
	err := s.conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE api_key = $1)`, apiKey,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check user: %w", mapError(db.OpExists, err))
	}
	return ok, nil
}

// Save creates or replaces a user by ID.
func (s *UserStore) Save(ctx context.Context, u domain.User) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO users (id, api_key, active) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET api_key = EXCLUDED.api_key, active = EXCLUDED.active`,
		u.ID(), u.APIKey(), u.Active(),
	)
	if err != nil {
		return fmt.Errorf("save user: %w", mapError(db.OpInsert, err))
	}
	return nil
}

// Delete removes the user owning apiKey. Unknown keys are not an error.
func (s *UserStore) Delete(ctx context.Context, apiKey string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM users WHERE api_key = $1`, apiKey); err != nil {
		return fmt.Errorf("delete user: %w", mapError(db.OpDel, err))
	}
	return nil
}
