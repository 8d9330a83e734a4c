package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/platform/correlation"
)

// MoodView is what GET /mood returns to a logged-in user.
type MoodView struct {
	Username string
	Latest   *int
	Streak   int
}

// MoodInput is the parsed mood of a POST. Valid is false when the request
// carried no integer mood.
type MoodInput struct {
	Value int
	Valid bool
}

// PostMood runs the whole POST /mood use case under mu: authenticate, then
// validate, then store the mood and record activity.
//
// The returned principal is set whenever authentication accepted the request,
// including when the mood is invalid (domain.ErrInvalidMood): the session
// write has happened by then.
func (s *Service) PostMood(ctx context.Context, key string, creds Credentials, input MoodInput) (domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	principal, err := s.authenticate(ctx, key, creds)
	if err != nil {
		return domain.Principal{}, err
	}
	ctx = correlation.WithPrincipal(ctx, principal.Username)

	if !input.Valid {
		return principal, domain.ErrInvalidMood
	}
	return principal, s.storeMood(ctx, principal, input.Value)
}

func (s *Service) storeMood(ctx context.Context, principal domain.Principal, mood int) error {
	if err := s.moods.SetLatest(ctx, mood); err != nil {
		return fmt.Errorf("failed to store mood: %w", err)
	}
	s.recorder.MoodPosted(principal.IsAnonymous(), mood)

	if !principal.IsAnonymous() {
		if _, err := s.recordActivity(ctx, principal.Username); err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}
	}

	s.logUserTable(ctx)
	return nil
}

// GetMood returns the latest mood and the streak of the session's user.
// The streak is re-evaluated against today and the result is stored, so a
// skipped day shows up before the next post.
func (s *Service) GetMood(ctx context.Context, key string) (MoodView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, established, err := s.sessions.Current(ctx, key)
	if err != nil {
		return MoodView{}, fmt.Errorf("failed to read session: %w", err)
	}
	if !established {
		return MoodView{}, domain.ErrNoMoodYet
	}
	if current == domain.Anonymous {
		return MoodView{}, domain.ErrNotLoggedIn
	}

	user, err := s.recordActivity(ctx, current)
	if err != nil {
		return MoodView{}, fmt.Errorf("failed to record activity: %w", err)
	}

	latest, err := s.moods.Latest(ctx)
	if err != nil {
		return MoodView{}, fmt.Errorf("failed to load mood: %w", err)
	}

	return MoodView{Username: current, Latest: latest, Streak: user.Streak}, nil
}

// logUserTable dumps every user's streak state at debug level. Passwords are never logged.
func (s *Service) logUserTable(ctx context.Context) {
	if !slog.Default().Enabled(ctx, slog.LevelDebug) {
		return
	}

	users, err := s.users.List(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to list users for diagnostics", "error", err)
		return
	}

	attrs := make([]any, 0, len(users))
	for _, u := range users {
		last := "never"
		if u.LastPostDate != nil {
			last = u.LastPostDate.String()
		}
		attrs = append(attrs, slog.Group(u.Username, "streak", u.Streak, "last_post", last))
	}
	slog.DebugContext(ctx, "User table", attrs...)
}
