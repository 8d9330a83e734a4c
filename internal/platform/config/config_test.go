package config

import (
	"os"
	"testing"
	"time"

	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "PORT", "LOG_LEVEL", "LOG_FORMAT",
		"SESSION_MODE", "SESSION_SECRET", "SESSION_MAX_AGE",
		"STORE_BACKEND", "REDIS_URL", "DATABASE_URL",
		"SEED_USERS", "TIMEZONE", "MOOD_RATE_LIMIT",
	} {
		// Setenv registers the restore; the variable itself must be unset so defaults apply.
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, SessionModeGlobal, cfg.SessionMode)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, 168*time.Hour, cfg.SessionMaxAge)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.InDelta(t, 10.0, cfg.MoodRateLimit, 0.0001)
	assert.Equal(t, []domain.SeedUser{
		{Username: "admin", Password: "SecretPassword"},
		{Username: "Emma", Password: "SecretPassword2"},
	}, cfg.Seeds())
}

func TestLoad_CustomPortAndEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "9090", cfg.Port)
}

func TestLoad_CookieModeRequiresSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"missing secret", "", true},
		{"short secret", "too-short", true},
		{"long enough secret", "0123456789abcdef0123456789abcdef", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("SESSION_MODE", "cookie")
			t.Setenv("SESSION_SECRET", tt.secret)

			_, err := Load()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "SESSION_SECRET must be at least 32 characters")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLoad_InvalidSessionMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_MODE", "per-request")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_MODE must be")
}

func TestLoad_BackendRequirements(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		wantErr string
	}{
		{"redis without url", "redis", "REDIS_URL is required when STORE_BACKEND is redis"},
		{"postgres without url", "postgres", "DATABASE_URL is required when STORE_BACKEND is postgres"},
		{"unknown backend", "mongo", `STORE_BACKEND must be one of memory, redis, postgres, got "mongo"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("STORE_BACKEND", tt.backend)

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestLoad_RedisBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
}

func TestLoad_Timezone(t *testing.T) {
	clearEnv(t)
	t.Setenv("TIMEZONE", "Europe/Berlin")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", cfg.Location().String())

	t.Setenv("TIMEZONE", "Mars/Olympus_Mons")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TIMEZONE is invalid")
}

func TestLoad_NegativeRateLimit(t *testing.T) {
	clearEnv(t)
	t.Setenv("MOOD_RATE_LIMIT", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MOOD_RATE_LIMIT must not be negative")
}

func TestParseSeedUsers(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []SeedUser
		wantErr string
	}{
		{
			name: "single user",
			raw:  "alice:pw",
			want: []domain.SeedUser{{Username: "alice", Password: "pw"}},
		},
		{
			name: "whitespace and empty entries",
			raw:  " alice:pw , ,bob:pw2",
			want: []domain.SeedUser{{Username: "alice", Password: "pw"}, {Username: "bob", Password: "pw2"}},
		},
		{
			name: "password may contain colons",
			raw:  "alice:a:b",
			want: []domain.SeedUser{{Username: "alice", Password: "a:b"}},
		},
		{name: "missing separator", raw: "alice", wantErr: "must have the form username:password"},
		{name: "empty password", raw: "alice:", wantErr: "must have the form username:password"},
		{name: "reserved name", raw: "anonymous:pw", wantErr: "reserved username anonymous"},
		{name: "duplicate", raw: "alice:a,alice:b", wantErr: `duplicate username "alice"`},
		{name: "empty", raw: " , ", wantErr: "at least one user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSeedUsers(tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
