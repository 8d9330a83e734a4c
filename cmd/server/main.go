package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/moodpulse/internal/adapter/httpserver"
	"github.com/pscheid92/moodpulse/internal/adapter/memory"
	"github.com/pscheid92/moodpulse/internal/adapter/metrics"
	"github.com/pscheid92/moodpulse/internal/adapter/postgres"
	"github.com/pscheid92/moodpulse/internal/adapter/redis"
	"github.com/pscheid92/moodpulse/internal/app"
	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/platform/config"
	"github.com/pscheid92/moodpulse/internal/platform/logging"
	"github.com/pscheid92/moodpulse/internal/platform/retry"
	"github.com/pscheid92/moodpulse/internal/platform/version"
	goredis "github.com/redis/go-redis/v9"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// stores bundles the repositories of the selected backend.
type stores struct {
	users        domain.UserRepository
	sessions     domain.SessionRepository
	moods        domain.MoodRepository
	healthChecks []httpserver.HealthCheck
	close        func()
}

func runGracefulShutdown(srv *httpserver.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func logRetry(backend string) func(int, error, time.Duration) {
	return func(attempt int, err error, backoff time.Duration) {
		slog.Warn("Backing store not reachable yet, retrying", "backend", backend, "attempt", attempt, "backoff", backoff, "error", err)
	}
}

func setupRedis(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) stores {
	breaker := redis.NewCircuitBreakerHook(metrics.NewBreakerMetrics(reg))
	hook := redis.NewMetricsHook(metrics.NewRedisMetrics(reg))

	policy := retry.StartupPolicy
	policy.OnRetry = logRetry(config.BackendRedis)
	client, err := retry.Do(ctx, policy, nil, func(ctx context.Context) (*goredis.Client, error) {
		return redis.NewClient(ctx, cfg.RedisURL, hook, breaker)
	})
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	sessionTTL := time.Duration(0)
	if cfg.SessionMode == config.SessionModeCookie {
		sessionTTL = cfg.SessionMaxAge
	}

	return stores{
		users:    redis.NewUserStore(client),
		sessions: redis.NewSessionStore(client, sessionTTL),
		moods:    redis.NewMoodStore(client),
		healthChecks: []httpserver.HealthCheck{
			{Name: "redis", Check: func(ctx context.Context) error { return client.Ping(ctx).Err() }},
		},
		close: func() { _ = client.Close() },
	}
}

func setupPostgres(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) stores {
	dbMetrics := metrics.NewDBMetrics(reg)

	policy := retry.StartupPolicy
	policy.OnRetry = logRetry(config.BackendPostgres)
	pool, err := retry.Do(ctx, policy, nil, func(ctx context.Context) (*pgxpool.Pool, error) {
		return postgres.Connect(ctx, cfg.DatabaseURL, postgres.WithQueryMetrics(dbMetrics))
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return stores{
		users:    postgres.NewUserRepo(pool),
		sessions: postgres.NewSessionRepo(pool),
		moods:    postgres.NewMoodRepo(pool),
		healthChecks: []httpserver.HealthCheck{
			{Name: "postgres", Check: pool.Ping},
		},
		close: pool.Close,
	}
}

func setupStores(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) stores {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		return setupRedis(ctx, cfg, reg)
	case config.BackendPostgres:
		return setupPostgres(ctx, cfg, reg)
	default:
		slog.Warn("Using in-memory stores; all state is lost on restart")
		return stores{
			users:    memory.NewUserStore(),
			sessions: memory.NewSessionStore(),
			moods:    memory.NewMoodStore(),
			close:    func() {},
		}
	}
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting",
		"version", version.Get().String(),
		"env", cfg.AppEnv,
		"port", cfg.Port,
		"backend", cfg.StoreBackend,
		"session_mode", cfg.SessionMode,
		"timezone", cfg.Location().String(),
	)

	reg := metrics.NewRegistry()

	startupCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	st := setupStores(startupCtx, cfg, reg)
	defer st.close()

	appSvc := app.NewService(st.users, st.sessions, st.moods, clock,
		app.WithLocation(cfg.Location()),
		app.WithRecorder(metrics.NewMoodMetrics(reg)),
	)
	if err := appSvc.Seed(startupCtx, cfg.Seeds()); err != nil {
		cancel()
		slog.Error("Failed to seed users", "error", err)
		os.Exit(1)
	}
	cancel()

	srv := httpserver.NewServer(cfg, appSvc, reg, st.healthChecks)
	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
