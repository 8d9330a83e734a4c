package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/streak"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const selectUser = `SELECT username, password, last_post_date, streak FROM users`

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		last *time.Time
	)
	if err := row.Scan(&u.Username, &u.Password, &last, &u.Streak); err != nil {
		return nil, err
	}
	if last != nil {
		d := domain.DateOf(*last)
		u.LastPostDate = &d
	}
	return &u, nil
}

func (r *UserRepo) Get(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE username = $1`, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) CredentialsValid(ctx context.Context, username, password string) (bool, error) {
	var stored string
	err := r.pool.QueryRow(ctx, `SELECT password FROM users WHERE username = $1`, username).Scan(&stored)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check credentials: %w", err)
	}
	return stored == password, nil
}

// RecordActivity locks the user row, applies the streak rule and writes the result
// in one transaction.
func (r *UserRepo) RecordActivity(ctx context.Context, username string, today domain.Date) (*domain.User, domain.StreakOutcome, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, domain.StreakKept, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanUser(tx.QueryRow(ctx, selectUser+` WHERE username = $1 FOR UPDATE`, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.StreakKept, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, domain.StreakKept, fmt.Errorf("failed to lock user: %w", err)
	}

	updated, outcome := streak.Apply(*current, today)
	if _, err := tx.Exec(ctx,
		`UPDATE users SET last_post_date = $2, streak = $3 WHERE username = $1`,
		username, updated.LastPostDate.Time(), updated.Streak,
	); err != nil {
		return nil, domain.StreakKept, fmt.Errorf("failed to update streak: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.StreakKept, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &updated, outcome, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, selectUser+` ORDER BY username COLLATE "C"`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Seed inserts missing users in one batch. Existing rows are left untouched.
func (r *UserRepo) Seed(ctx context.Context, seeds []domain.SeedUser) error {
	batch := &pgx.Batch{}
	for _, seed := range seeds {
		batch.Queue(`INSERT INTO users (username, password) VALUES ($1, $2) ON CONFLICT (username) DO NOTHING`,
			seed.Username, seed.Password)
	}

	results := r.pool.SendBatch(ctx, batch)
	for range seeds {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("failed to seed users: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	return nil
}
