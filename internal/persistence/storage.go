package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/fooddash/internal/config"
)

// Backend is a durable key-value store for the session token.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// Open builds the backend selected by cfg.Session.Storage. The returned
// close function is always safe to call.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (Backend, func(), error) {
	noop := func() {}

	switch cfg.Session.Storage {
	case config.StorageMemory:
		logger.Warn("session storage is in-memory; sign-in will not survive a restart")
		return NewMemoryStorage(), noop, nil
	case config.StorageFile, "":
		logger.Info("using file session storage", zap.String("path", cfg.Session.FilePath))
		return NewFileStorage(cfg.Session.FilePath), noop, nil
	case config.StorageRedis:
		r := NewRedis(cfg.Redis, logger)
		return r, r.Close, nil
	case config.StoragePostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("connect postgres: %w", err)
		}
		if pg.PoolHandle() == nil {
			return nil, noop, fmt.Errorf("postgres session storage requires POSTGRES_DSN")
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, noop, err
			}
		}
		return pg, pg.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown session storage %q", cfg.Session.Storage)
	}
}
