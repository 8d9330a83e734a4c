package memory

import (
	"context"
	"sync"
)

// SessionStore maps session keys to the current username. In global mode it
// only ever holds domain.GlobalSessionKey.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]string)}
}

func (s *SessionStore) Current(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	username, ok := s.sessions[key]
	return username, ok, nil
}

func (s *SessionStore) SetCurrent(_ context.Context, key, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[key] = username
	return nil
}
