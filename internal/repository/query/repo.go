// Package query appends audit records to a per-user list:
// <prefix>queries:<user_id>.
package query

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/taggate/internal/domain"
)

// store is the consumer interface for query records (ISP).
type store interface {
	RPush(ctx context.Context, key string, values ...[]byte) error
	LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)
}

// Repo implements gateway.QueryRecorder on a list store.
type Repo struct {
	store  store
	prefix string
}

// New creates a query repository.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Record appends q to its user's list.
func (r *Repo) Record(ctx context.Context, q domain.Query) error {
	data, err := queryToJSON(q)
	if err != nil {
		return err
	}
	if err := r.store.RPush(ctx, r.key(q.UserID()), data); err != nil {
		return fmt.Errorf("record query: %w", err)
	}
	return nil
}

// Recent returns up to limit of the user's latest records, oldest first.
// A non-positive limit returns all records.
func (r *Repo) Recent(ctx context.Context, userID string, limit int) ([]domain.Query, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}
	items, err := r.store.LRange(ctx, r.key(userID), start, -1)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	out := make([]domain.Query, 0, len(items))
	for _, item := range items {
		q, err := queryFromJSON(item)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func (r *Repo) key(userID string) string {
	return r.prefix + "queries:" + userID
}
