package memory

import (
	"context"
	"sync"
)

type MoodStore struct {
	mu     sync.RWMutex
	latest *int
}

func NewMoodStore() *MoodStore {
	return &MoodStore{}
}

func (s *MoodStore) Latest(_ context.Context) (*int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return nil, nil
	}
	v := *s.latest
	return &v, nil
}

func (s *MoodStore) SetLatest(_ context.Context, mood int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = &mood
	return nil
}
