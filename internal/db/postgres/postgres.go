// Package postgres stores users and query records in PostgreSQL through the
// pgx database/sql driver. The schema is managed with goose migrations
// embedded in the binary.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/pressly/goose/v3"

	"github.com/kailas-cloud/taggate/internal/db"
)

//go:embed migrations/*.sql
var migrations embed.FS

const uniqueViolationCode = "23505"

// ErrDuplicate signals a unique constraint violation.
var ErrDuplicate = errors.New("postgres: duplicate key")

// DB wraps a connection pool.
type DB struct {
	conn *sql.DB
}

// Open creates a pool for url. It does not contact the server; use
// WaitForReady for that.
func Open(url string) (*DB, error) {
	if url == "" {
		return nil, fmt.Errorf("url is required")
	}
	conn, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	conn.SetMaxOpenConns(20)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(30 * time.Minute)
	return &DB{conn: conn}, nil
}

// Ping checks connectivity.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.conn.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// WaitForReady polls Ping until the server responds or timeout expires.
func (d *DB) WaitForReady(ctx context.Context, timeout time.Duration) error {
	if err := db.WaitForReady(ctx, d, timeout); err != nil {
		return fmt.Errorf("timeout waiting for postgres: %w", err)
	}
	return nil
}

// Close closes the pool.
func (d *DB) Close() {
	_ = d.conn.Close()
}

// Migrate applies all pending migrations.
func (d *DB) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}
	if err := goose.UpContext(ctx, d.conn, "migrations"); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}
	return nil
}

// MigrationVersion returns the current schema version.
func (d *DB) MigrationVersion(ctx context.Context) (int64, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return 0, &db.Error{Op: db.OpMigrate, Err: err}
	}
	v, err := goose.GetDBVersionContext(ctx, d.conn)
	if err != nil {
		return 0, &db.Error{Op: db.OpMigrate, Err: err}
	}
	return v, nil
}

// Users returns a user store on this pool.
func (d *DB) Users() *UserStore { return &UserStore{conn: d.conn} }

// Queries returns a query store on this pool.
func (d *DB) Queries() *QueryStore { return &QueryStore{conn: d.conn} }

func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return &db.Error{Op: op, Err: fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)}
	}
	return &db.Error{Op: op, Err: err}
}
