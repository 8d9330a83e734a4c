package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/moodpulse/internal/platform/version"
	"golang.org/x/sync/singleflight"
)

const (
	startupCheckTimeout   = 2 * time.Second
	readinessCheckTimeout = 5 * time.Second
)

// HealthCheck is a named health check function, e.g. a Redis or PostgreSQL ping.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

func (s *Server) registerHealthRoutes() {
	s.echo.GET("/health/startup", s.handleStartup)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
}

func (s *Server) handleStartup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), startupCheckTimeout)
	defer cancel()

	return s.runHealthChecks(c, ctx, "startup")
}

func (s *Server) handleLiveness(c echo.Context) error {
	uptime := time.Since(s.startTime).Seconds()

	response := map[string]any{
		"status": "ok",
		"uptime": uptime,
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write liveness response: %w", err)
	}

	return nil
}

func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessCheckTimeout)
	defer cancel()

	return s.runHealthChecks(c, ctx, "ready")
}

// checkFailure names the first failing check of a run.
type checkFailure struct {
	check string
	err   error
}

// checkGroup lets concurrent health requests of the same kind share one run of the checks.
type checkGroup struct {
	group singleflight.Group
}

func (g *checkGroup) run(ctx context.Context, kind string, checks []HealthCheck) *checkFailure {
	v, _, _ := g.group.Do(kind, func() (any, error) {
		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				slog.WarnContext(ctx, "Health check failed", "endpoint", kind, "check", hc.Name, "error", err)
				return &checkFailure{check: hc.Name, err: err}, nil
			}
		}
		return (*checkFailure)(nil), nil
	})
	return v.(*checkFailure)
}

func (s *Server) runHealthChecks(c echo.Context, ctx context.Context, kind string) error {
	if failure := s.checkRuns.run(ctx, kind, s.healthChecks); failure != nil {
		response := map[string]any{
			"status":       "unhealthy",
			"failed_check": failure.check,
			"error":        failure.err.Error(),
		}
		if err := c.JSON(http.StatusServiceUnavailable, response); err != nil {
			return fmt.Errorf("failed to send JSON response: %w", err)
		}
		return nil
	}

	if err := c.JSON(http.StatusOK, map[string]string{"status": "ready"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleVersion(c echo.Context) error {
	if err := c.JSON(http.StatusOK, version.Get()); err != nil {
		return fmt.Errorf("failed to write version response: %w", err)
	}
	return nil
}
