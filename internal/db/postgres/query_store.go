package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/taggate/internal/db"
	"github.com/kailas-cloud/taggate/internal/domain"
)

// QueryStore implements gateway.QueryRecorder on the queries table.
type QueryStore struct {
	conn *sql.DB
}

// Record inserts q.
func (s *QueryStore) Record(ctx context.Context, q domain.Query) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO queries (id, user_id, request, response, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		q.ID(), q.UserID(), jsonb(q.Request()), jsonb(q.Response()), q.Status(), q.CreatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record query: %w", mapError(db.OpInsert, err))
	}
	return nil
}

// Recent returns up to limit of the user's latest records, oldest first.
// A non-positive limit returns all records.
func (s *QueryStore) Recent(ctx context.Context, userID string, limit int) ([]domain.Query, error) {
	query := `
		SELECT id, user_id, request, response, status, created_at FROM (
			SELECT * FROM queries WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2
		) recent ORDER BY created_at, id`
	var lim any
	if limit > 0 {
		lim = limit
	}
	rows, err := s.conn.QueryContext(ctx, query, userID, lim)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", mapError(db.OpSelect, err))
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Query
	for rows.Next() {
		var (
			id, uid           string
			request, response []byte
			status            int
			createdAt         time.Time
		)
		if err := rows.Scan(&id, &uid, &request, &response, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan query: %w", mapError(db.OpSelect, err))
		}
		out = append(out, domain.NewQuery(id, uid, request, response, status, createdAt))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queries: %w", mapError(db.OpSelect, err))
	}
	return out, nil
}

// jsonb passes valid JSON through as text and stores NULL otherwise.
func jsonb(raw json.RawMessage) any {
	if len(raw) == 0 || !json.Valid(raw) {
		return nil
	}
	return string(raw)
}
