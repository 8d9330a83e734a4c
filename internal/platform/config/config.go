package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pscheid92/moodpulse/internal/domain"
	"go-simpler.org/env"
)

const (
	SessionModeGlobal = "global"
	SessionModeCookie = "cookie"

	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"

	minSessionSecretLength = 32
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	SessionMode   string        `env:"SESSION_MODE" default:"global"`
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" default:"168h"` // 7 days

	StoreBackend string `env:"STORE_BACKEND" default:"memory"`
	RedisURL     string `env:"REDIS_URL"`
	DatabaseURL  string `env:"DATABASE_URL"`

	SeedUsers     string  `env:"SEED_USERS" default:"admin:SecretPassword,Emma:SecretPassword2"`
	Timezone      string  `env:"TIMEZONE" default:"UTC"`
	MoodRateLimit float64 `env:"MOOD_RATE_LIMIT" default:"10"`

	location *time.Location
	seeds    []domain.SeedUser
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Location is the time zone that defines calendar-day boundaries.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// Seeds returns the parsed SEED_USERS entries in declaration order.
func (c *Config) Seeds() []domain.SeedUser {
	return c.seeds
}

func validate(cfg *Config) error {
	switch cfg.SessionMode {
	case SessionModeGlobal:
	case SessionModeCookie:
		if len(cfg.SessionSecret) < minSessionSecretLength {
			return fmt.Errorf("SESSION_SECRET must be at least %d characters in cookie session mode", minSessionSecretLength)
		}
	default:
		return fmt.Errorf("SESSION_MODE must be %q or %q, got %q", SessionModeGlobal, SessionModeCookie, cfg.SessionMode)
	}

	switch cfg.StoreBackend {
	case BackendMemory:
	case BackendRedis:
		if cfg.RedisURL == "" {
			return errors.New("REDIS_URL is required when STORE_BACKEND is redis")
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE_BACKEND is postgres")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be one of memory, redis, postgres, got %q", cfg.StoreBackend)
	}

	if cfg.MoodRateLimit < 0 {
		return errors.New("MOOD_RATE_LIMIT must not be negative")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}
	cfg.location = loc

	seeds, err := parseSeedUsers(cfg.SeedUsers)
	if err != nil {
		return err
	}
	cfg.seeds = seeds

	return nil
}

func parseSeedUsers(raw string) ([]domain.SeedUser, error) {
	var seeds []domain.SeedUser
	seen := make(map[string]bool)

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		username, password, ok := strings.Cut(entry, ":")
		if !ok || username == "" || password == "" {
			return nil, fmt.Errorf("SEED_USERS entry %q must have the form username:password", entry)
		}
		if username == "anonymous" {
			return nil, errors.New("SEED_USERS must not contain the reserved username anonymous")
		}
		if seen[username] {
			return nil, fmt.Errorf("SEED_USERS contains duplicate username %q", username)
		}
		seen[username] = true

		seeds = append(seeds, domain.SeedUser{Username: username, Password: password})
	}

	if len(seeds) == 0 {
		return nil, errors.New("SEED_USERS must contain at least one user")
	}
	return seeds, nil
}
