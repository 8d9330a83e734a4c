package httpserver

import (
	"log/slog"
	"math"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) registerRoutes() {
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(correlationMiddleware)
	s.echo.Use(ErrorHandlingMiddleware(s.errorMetrics))
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            63072000, // 2 years; only sent over HTTPS
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "no-referrer",
	}))

	s.registerHealthRoutes()
	s.registerMoodRoutes(s.moodMiddleware()...)

	if s.metricsHandler != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metricsHandler))
	}
}

// moodMiddleware returns the per-route middleware for /mood, outermost first.
// Errors are rendered inside the metrics middleware so it sees the final
// status; GET and POST share one rate limiter store.
func (s *Server) moodMiddleware() []echo.MiddlewareFunc {
	var mw []echo.MiddlewareFunc
	if s.httpMetrics != nil {
		mw = append(mw, s.httpMetrics.Middleware(), ErrorHandlingMiddleware(s.errorMetrics))
	}
	if s.config.MoodRateLimit > 0 {
		burst := int(math.Ceil(s.config.MoodRateLimit))
		mw = append(mw, newRateLimiter(s.config.MoodRateLimit, burst))
	}
	return mw
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.InfoContext(c.Request().Context(), "Request", attrs...)
			return nil
		},
	})
}
