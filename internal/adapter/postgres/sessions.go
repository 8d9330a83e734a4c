package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func (r *SessionRepo) Current(ctx context.Context, key string) (string, bool, error) {
	var username string
	err := r.pool.QueryRow(ctx, `SELECT username FROM sessions WHERE session_key = $1`, key).Scan(&username)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get session: %w", err)
	}
	return username, true, nil
}

func (r *SessionRepo) SetCurrent(ctx context.Context, key, username string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (session_key, username) VALUES ($1, $2)
		ON CONFLICT (session_key) DO UPDATE SET username = EXCLUDED.username, updated_at = now()`,
		key, username)
	if err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}
