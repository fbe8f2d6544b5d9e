package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionToken is one row of session_tokens.
type SessionToken struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// SessionTokenRepository defines persistence access for stored session tokens.
type SessionTokenRepository interface {
	Get(ctx context.Context, key string) (*SessionToken, error)
	Upsert(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type sessionTokenRepository struct {
	pool *pgxpool.Pool
}

// NewSessionTokenRepository returns a Postgres-backed implementation.
func NewSessionTokenRepository(pool *pgxpool.Pool) SessionTokenRepository {
	return &sessionTokenRepository{pool: pool}
}

// Get returns pgx.ErrNoRows when key is not stored.
func (r *sessionTokenRepository) Get(ctx context.Context, key string) (*SessionToken, error) {
	const query = `SELECT key, value, updated_at FROM session_tokens WHERE key=$1`

	var token SessionToken
	if err := r.pool.QueryRow(ctx, query, key).Scan(&token.Key, &token.Value, &token.UpdatedAt); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *sessionTokenRepository) Upsert(ctx context.Context, key, value string) error {
	const query = `
        INSERT INTO session_tokens (key, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`

	_, err := r.pool.Exec(ctx, query, key, value)
	return err
}

// Delete removes key. Deleting a missing key is not an error.
func (r *sessionTokenRepository) Delete(ctx context.Context, key string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM session_tokens WHERE key=$1`, key)
	return err
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
