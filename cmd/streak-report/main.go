package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/moodpulse/internal/adapter/postgres"
	"github.com/pscheid92/moodpulse/internal/adapter/redis"
	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/platform/logging"
)

const connectTimeout = 10 * time.Second

func main() {
	var (
		redisURL    = flag.String("redis", "", "Redis URL to read users from")
		databaseURL = flag.String("database", "", "PostgreSQL URL to read users from")
		timezone    = flag.String("timezone", envOr("TIMEZONE", "UTC"), "IANA zone that defines calendar days (or set TIMEZONE env)")
		verbose     = flag.Bool("verbose", false, "Verbose logging")
	)
	flag.Parse()

	if (*redisURL == "") == (*databaseURL == "") {
		log.Fatal("exactly one of --redis or --database is required")
	}

	loc, err := time.LoadLocation(*timezone)
	if err != nil {
		log.Fatalf("Invalid timezone %q: %v", *timezone, err)
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	logging.InitLogger(level, "text")

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	var users []domain.User
	if *redisURL != "" {
		users, err = listRedis(ctx, *redisURL)
	} else {
		users, err = listPostgres(ctx, *databaseURL)
	}
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}

	today := domain.DateOf(clockwork.NewRealClock().Now().In(loc))
	rows := buildReport(users, today)
	if err := writeReport(os.Stdout, rows); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	slog.Debug("Report complete", "users", len(rows), "today", today.String())
}

func listRedis(ctx context.Context, redisURL string) ([]domain.User, error) {
	rdb, err := redis.NewClient(ctx, redisURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rdb.Close() }()
	slog.Debug("Connected to Redis", "url", sanitizeURL(redisURL))

	return redis.NewUserStore(rdb).List(ctx)
}

func listPostgres(ctx context.Context, databaseURL string) ([]domain.User, error) {
	pool, err := postgres.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	defer pool.Close()
	slog.Debug("Connected to PostgreSQL", "url", sanitizeURL(databaseURL))

	return postgres.NewUserRepo(pool).List(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// sanitizeURL hides the password of a connection URL for logging.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Sprintf("<unparseable %d-byte url>", len(raw))
	}
	return u.Redacted()
}
