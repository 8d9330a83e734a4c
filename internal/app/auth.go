package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/pscheid92/moodpulse/internal/domain"
)

// Authentication outcomes reported to the Recorder.
const (
	AuthAcceptAnonymous = "accept_anonymous"
	AuthAcceptUser      = "accept_user"
	AuthKeep            = "keep"
	AuthRejectWrong     = "reject_wrong_credentials"
	AuthRejectUnknown   = "reject_unknown_user"
)

// Credentials are the HTTP Basic username and password; either may be empty.
type Credentials struct {
	Username string
	Password string
}

// authenticate is the gate in front of POST /mood. It returns who the request
// is accepted as, domain.ErrWrongCredentials, or domain.ErrUserNotFound.
// Every accepted request writes the session slot for key. Callers hold mu.
func (s *Service) authenticate(ctx context.Context, key string, creds Credentials) (domain.Principal, error) {
	current, established, err := s.sessions.Current(ctx, key)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("failed to read session: %w", err)
	}

	if !established {
		return s.login(ctx, key, creds)
	}

	if creds.Username == "" {
		return s.accept(ctx, key, current, AuthKeep)
	}

	if _, err := s.users.Get(ctx, creds.Username); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recorder.AuthOutcome(AuthRejectUnknown)
			return domain.Principal{}, domain.ErrUserNotFound
		}
		return domain.Principal{}, fmt.Errorf("failed to load user: %w", err)
	}

	if creds.Username != current {
		return s.login(ctx, key, creds)
	}

	// Same user as the active session: the password is not checked again.
	return s.accept(ctx, key, current, AuthKeep)
}

func (s *Service) login(ctx context.Context, key string, creds Credentials) (domain.Principal, error) {
	if creds.Username == "" && creds.Password == "" {
		return s.accept(ctx, key, domain.Anonymous, AuthAcceptAnonymous)
	}

	ok, err := s.users.CredentialsValid(ctx, creds.Username, creds.Password)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("failed to check credentials: %w", err)
	}
	if !ok {
		s.recorder.AuthOutcome(AuthRejectWrong)
		return domain.Principal{}, domain.ErrWrongCredentials
	}

	return s.accept(ctx, key, creds.Username, AuthAcceptUser)
}

func (s *Service) accept(ctx context.Context, key, username, outcome string) (domain.Principal, error) {
	if err := s.sessions.SetCurrent(ctx, key, username); err != nil {
		return domain.Principal{}, fmt.Errorf("failed to write session: %w", err)
	}
	s.recorder.AuthOutcome(outcome)
	return domain.Principal{Username: username}, nil
}
