package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/fooddash/internal/config"
	"github.com/spec-kit/fooddash/internal/repository"
)

// Postgres wraps a pgx pool and stores tokens through the session token repository.
type Postgres struct {
	Pool   *pgxpool.Pool
	tokens repository.SessionTokenRepository
}

var errPostgresNotConfigured = errors.New("postgres pool not configured")

// NewPostgres establishes a connection pool when DSN is provided.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	if cfg.DSN == "" {
		logger.Warn("POSTGRES_DSN not provided; skipping database connection")
		return &Postgres{Pool: nil}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres")
	return &Postgres{Pool: pool, tokens: repository.NewSessionTokenRepository(pool)}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	if p.PoolHandle() == nil {
		return "", false, errPostgresNotConfigured
	}
	token, err := p.tokens.Get(ctx, key)
	if err != nil {
		if repository.IsNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return token.Value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	if p.PoolHandle() == nil {
		return errPostgresNotConfigured
	}
	return p.tokens.Upsert(ctx, key, value)
}

func (p *Postgres) Remove(ctx context.Context, key string) error {
	if p.PoolHandle() == nil {
		return errPostgresNotConfigured
	}
	return p.tokens.Delete(ctx, key)
}

// Ping verifies database connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	if p.PoolHandle() == nil {
		return errPostgresNotConfigured
	}
	return p.Pool.Ping(ctx)
}

// Close releases pool resources.
func (p *Postgres) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}

// PoolHandle returns the underlying pgx pool.
func (p *Postgres) PoolHandle() *pgxpool.Pool {
	if p == nil {
		return nil
	}
	return p.Pool
}
