// Package memory provides the default in-process stores. State is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/streak"
)

type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.User)}
}

func (s *UserStore) Get(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (s *UserStore) CredentialsValid(_ context.Context, username, password string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	return ok && u.Password == password, nil
}

func (s *UserStore) RecordActivity(_ context.Context, username string, today domain.Date) (*domain.User, domain.StreakOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return nil, domain.StreakKept, domain.ErrUserNotFound
	}

	updated, outcome := streak.Apply(u, today)
	s.users[username] = updated
	return copyUser(updated), outcome, nil
}

func (s *UserStore) List(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (s *UserStore) Seed(_ context.Context, seeds []domain.SeedUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, seed := range seeds {
		if _, exists := s.users[seed.Username]; exists {
			continue
		}
		s.users[seed.Username] = domain.User{Username: seed.Username, Password: seed.Password}
	}
	return nil
}

func copyUser(u domain.User) *domain.User {
	if u.LastPostDate != nil {
		d := *u.LastPostDate
		u.LastPostDate = &d
	}
	return &u
}
