package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

const latestMoodKey = "moodpulse:mood:latest"

type MoodStore struct {
	rdb *goredis.Client
}

func NewMoodStore(rdb *goredis.Client) *MoodStore {
	return &MoodStore{rdb: rdb}
}

func (s *MoodStore) Latest(ctx context.Context) (*int, error) {
	mood, err := s.rdb.Get(ctx, latestMoodKey).Int()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest mood: %w", err)
	}
	return &mood, nil
}

func (s *MoodStore) SetLatest(ctx context.Context, mood int) error {
	if err := s.rdb.Set(ctx, latestMoodKey, mood, 0).Err(); err != nil {
		return fmt.Errorf("failed to set latest mood: %w", err)
	}
	return nil
}
