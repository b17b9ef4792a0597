// Package user stores API users in a hash per key:
// <prefix>user:<api_key> -> {id, active}.
package user

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/taggate/internal/domain"
)

// store is the consumer interface for users (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Repo implements gateway.UserFinder on a hash store.
type Repo struct {
	store  store
	prefix string
}

// New creates a user repository. prefix namespaces keys, e.g. "taggate:".
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// FindByAPIKey returns domain.ErrUserNotFound for unknown keys.
func (r *Repo) FindByAPIKey(ctx context.Context, apiKey string) (domain.User, error) {
	m, err := r.store.HGetAll(ctx, r.key(apiKey))
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	if len(m) == 0 {
		return domain.User{}, domain.ErrUserNotFound
	}
	u, err := userFromHash(apiKey, m)
	if err != nil {
		return domain.User{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}

// Save creates or replaces a user.
func (r *Repo) Save(ctx context.Context, u domain.User) error {
	if err := r.store.HSet(ctx, r.key(u.APIKey()), userToHash(u)); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// Exists reports whether apiKey is already assigned.
func (r *Repo) Exists(ctx context.Context, apiKey string) (bool, error) {
	ok, err := r.store.Exists(ctx, r.key(apiKey))
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return ok, nil
}

// Delete removes a user. Unknown keys are not an error.
func (r *Repo) Delete(ctx context.Context, apiKey string) error {
	if err := r.store.Del(ctx, r.key(apiKey)); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *Repo) key(apiKey string) string {
	return r.prefix + "user:" + apiKey
}
