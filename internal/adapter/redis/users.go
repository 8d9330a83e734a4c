package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/streak"
	goredis "github.com/redis/go-redis/v9"
)

const (
	usersKey = "moodpulse:users"

	fieldPassword = "password"
	fieldLastPost = "last_post_date"
	fieldStreak   = "streak"

	// maxTxRetries bounds optimistic-lock retries in RecordActivity.
	maxTxRetries = 3
)

func userKey(username string) string {
	return "moodpulse:user:" + username
}

type UserStore struct {
	rdb *goredis.Client
}

func NewUserStore(rdb *goredis.Client) *UserStore {
	return &UserStore{rdb: rdb}
}

func userFromHash(username string, fields map[string]string) (*domain.User, error) {
	u := &domain.User{Username: username, Password: fields[fieldPassword]}

	if raw := fields[fieldStreak]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt streak for %s: %w", username, err)
		}
		u.Streak = n
	}

	if raw := fields[fieldLastPost]; raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt last post date for %s: %w", username, err)
		}
		u.LastPostDate = &d
	}
	return u, nil
}

func (s *UserStore) Get(ctx context.Context, username string) (*domain.User, error) {
	fields, err := s.rdb.HGetAll(ctx, userKey(username)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return userFromHash(username, fields)
}

func (s *UserStore) CredentialsValid(ctx context.Context, username, password string) (bool, error) {
	stored, err := s.rdb.HGet(ctx, userKey(username), fieldPassword).Result()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check credentials: %w", err)
	}
	return stored == password, nil
}

// RecordActivity applies the streak rule under WATCH so a concurrent writer
// to the same user forces a retry instead of a lost update.
func (s *UserStore) RecordActivity(ctx context.Context, username string, today domain.Date) (*domain.User, domain.StreakOutcome, error) {
	key := userKey(username)

	var (
		updated domain.User
		outcome domain.StreakOutcome
	)
	txf := func(tx *goredis.Tx) error {
		fields, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if len(fields) == 0 {
			return domain.ErrUserNotFound
		}
		current, err := userFromHash(username, fields)
		if err != nil {
			return err
		}

		updated, outcome = streak.Apply(*current, today)
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.HSet(ctx, key, fieldLastPost, updated.LastPostDate.String(), fieldStreak, updated.Streak)
			return nil
		})
		return err
	}

	for range maxTxRetries {
		err := s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, domain.StreakKept, err
		}
		return &updated, outcome, nil
	}
	return nil, domain.StreakKept, fmt.Errorf("failed to update streak for %s: %w", username, goredis.TxFailedErr)
}

func (s *UserStore) List(ctx context.Context) ([]domain.User, error) {
	names, err := s.rdb.SMembers(ctx, usersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	sort.Strings(names)

	pipe := s.rdb.Pipeline()
	cmds := make([]*goredis.MapStringStringCmd, len(names))
	for i, name := range names {
		cmds[i] = pipe.HGetAll(ctx, userKey(name))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	users := make([]domain.User, 0, len(names))
	for i, name := range names {
		u, err := userFromHash(name, cmds[i].Val())
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

// Seed creates missing users. HSETNX leaves existing hashes untouched.
func (s *UserStore) Seed(ctx context.Context, seeds []domain.SeedUser) error {
	pipe := s.rdb.TxPipeline()
	for _, seed := range seeds {
		pipe.SAdd(ctx, usersKey, seed.Username)
		pipe.HSetNX(ctx, userKey(seed.Username), fieldPassword, seed.Password)
		pipe.HSetNX(ctx, userKey(seed.Username), fieldStreak, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	return nil
}
