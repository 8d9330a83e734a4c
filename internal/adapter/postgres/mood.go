package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MoodRepo struct {
	pool *pgxpool.Pool
}

func NewMoodRepo(pool *pgxpool.Pool) *MoodRepo {
	return &MoodRepo{pool: pool}
}

func (r *MoodRepo) Latest(ctx context.Context) (*int, error) {
	var mood int
	err := r.pool.QueryRow(ctx, `SELECT mood FROM latest_mood`).Scan(&mood)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest mood: %w", err)
	}
	return &mood, nil
}

func (r *MoodRepo) SetLatest(ctx context.Context, mood int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO latest_mood (mood) VALUES ($1)
		ON CONFLICT (id) DO UPDATE SET mood = EXCLUDED.mood, updated_at = now()`,
		mood)
	if err != nil {
		return fmt.Errorf("failed to set latest mood: %w", err)
	}
	return nil
}
