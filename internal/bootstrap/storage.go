// Package bootstrap opens the configured storage driver and exposes it as
// the repositories the gateway and tagctl consume.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/taggate/internal/config"
	"github.com/kailas-cloud/taggate/internal/db"
	"github.com/kailas-cloud/taggate/internal/db/bolt"
	"github.com/kailas-cloud/taggate/internal/db/postgres"
	"github.com/kailas-cloud/taggate/internal/db/redis"
	"github.com/kailas-cloud/taggate/internal/domain"
	queryrepo "github.com/kailas-cloud/taggate/internal/repository/query"
	userrepo "github.com/kailas-cloud/taggate/internal/repository/user"
)

// UserRepository reads and writes API users.
type UserRepository interface {
	FindByAPIKey(ctx context.Context, apiKey string) (domain.User, error)
	Exists(ctx context.Context, apiKey string) (bool, error)
	Save(ctx context.Context, u domain.User) error
	Delete(ctx context.Context, apiKey string) error
}

// QueryRepository reads and writes audit records.
type QueryRepository interface {
	Record(ctx context.Context, q domain.Query) error
	Recent(ctx context.Context, userID string, limit int) ([]domain.Query, error)
}

// Storage is an opened driver with its repositories.
type Storage struct {
	Users   UserRepository
	Queries QueryRepository
	Pinger  db.Pinger
	Driver  string
	close   func()
}

// Close releases the driver.
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage opens the driver named in cfg, waits until it answers and, for
// postgres with migrate enabled, applies pending migrations.
func OpenStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Storage, error) {
	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	prefix := cfg.Storage.KeyPrefix

	switch cfg.Database.Driver {
	case config.DriverRedis:
		store, err := redis.NewStore(redis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		return kvStorage(ctx, config.DriverRedis, store, prefix, readiness)

	case config.DriverBolt:
		store, err := bolt.NewStore(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("create bolt store: %w", err)
		}
		return kvStorage(ctx, config.DriverBolt, store, prefix, readiness)

	case config.DriverPostgres:
		pg, err := postgres.Open(cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("create postgres store: %w", err)
		}
		if err := pg.WaitForReady(ctx, readiness); err != nil {
			pg.Close()
			return nil, err
		}
		if cfg.Database.Migrate {
			if err := pg.Migrate(ctx); err != nil {
				pg.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Info("postgres migrations applied")
		}
		return &Storage{
			Users:   pg.Users(),
			Queries: pg.Queries(),
			Pinger:  pg,
			Driver:  config.DriverPostgres,
			close:   pg.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// kvStorage wraps a key-value store with the hash/list repositories.
func kvStorage(ctx context.Context, driver string, store db.Store, prefix string, readiness time.Duration) (*Storage, error) {
	if err := store.WaitForReady(ctx, readiness); err != nil {
		store.Close()
		return nil, err
	}
	return &Storage{
		Users:   userrepo.New(store, prefix),
		Queries: queryrepo.New(store, prefix),
		Pinger:  store,
		Driver:  driver,
		close:   store.Close,
	}, nil
}
