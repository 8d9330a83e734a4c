package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/moodpulse/internal/domain"
)

// Recorder receives use-case events for metrics. Implemented by metrics.MoodMetrics.
type Recorder interface {
	AuthOutcome(outcome string)
	MoodPosted(anonymous bool, mood int)
	StreakUpdated(outcome domain.StreakOutcome)
}

type noopRecorder struct{}

func (noopRecorder) AuthOutcome(string)                 {}
func (noopRecorder) MoodPosted(bool, int)               {}
func (noopRecorder) StreakUpdated(domain.StreakOutcome) {}

// Service is the only component that references multiple repositories.
//
// Every use case runs under mu: the session slot and the latest mood are shared
// by all callers, and requests must observe them one at a time.
type Service struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	moods    domain.MoodRepository
	clock    clockwork.Clock
	location *time.Location
	recorder Recorder

	mu sync.Mutex
}

type Option func(*Service)

// WithLocation sets the time zone that defines calendar days (default UTC).
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

func NewService(users domain.UserRepository, sessions domain.SessionRepository, moods domain.MoodRepository, clock clockwork.Clock, opts ...Option) *Service {
	s := &Service{
		users:    users,
		sessions: sessions,
		moods:    moods,
		clock:    clock,
		location: time.UTC,
		recorder: noopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed creates the fixed user set.
func (s *Service) Seed(ctx context.Context, users []domain.SeedUser) error {
	if err := s.users.Seed(ctx, users); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Users seeded", "count", len(users))
	return nil
}

func (s *Service) today() domain.Date {
	return domain.DateOf(s.clock.Now().In(s.location))
}

// recordActivity runs the streak rule for username. Callers hold mu.
func (s *Service) recordActivity(ctx context.Context, username string) (*domain.User, error) {
	today := s.today()
	user, outcome, err := s.users.RecordActivity(ctx, username, today)
	if err != nil {
		return nil, err
	}
	s.recorder.StreakUpdated(outcome)
	slog.DebugContext(ctx, "Streak updated", "user", username, "day", today.String(), "outcome", outcome.String(), "streak", user.Streak)
	return user, nil
}
