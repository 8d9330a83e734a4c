package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

func sessionKey(key string) string {
	return "moodpulse:session:" + key
}

// SessionStore keeps one string key per session. A zero ttl never expires,
// which is what the global slot uses.
type SessionStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *goredis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func (s *SessionStore) Current(ctx context.Context, key string) (string, bool, error) {
	username, err := s.rdb.Get(ctx, sessionKey(key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get session: %w", err)
	}
	return username, true, nil
}

func (s *SessionStore) SetCurrent(ctx context.Context, key, username string) error {
	if err := s.rdb.Set(ctx, sessionKey(key), username, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}
