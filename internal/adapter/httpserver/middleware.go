package httpserver

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/platform/correlation"
	apperrors "github.com/pscheid92/moodpulse/internal/platform/errors"
)

// Client-facing messages. Clients match on these strings.
const (
	msgWrongCredentials = "Wrong credentials!"
	msgUserNotFound     = "User does not exist"
	msgNotLoggedIn      = "User not logged in"
	msgNoMoodYet        = "There is no POSTed value to return"
	msgInvalidMood      = "Rate your mood on scale 1-10"
	msgStoreUnavailable = "backing store unavailable"
)

// errorObserver counts rendered errors by type. Implemented by metrics.ErrorMetrics.
type errorObserver interface {
	Observe(errType string)
}

// correlationMiddleware adopts a sane client-supplied X-Correlation-ID or mints
// one, stores it in the request context and echoes it in the response.
func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := correlation.FromHeader(c.Request().Header.Get(correlation.HeaderName))
		ctx := correlation.WithID(c.Request().Context(), id)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Response().Header().Set(correlation.HeaderName, id)
		return next(c)
	}
}

func ErrorHandlingMiddleware(observer errorObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				return err
			}

			structuredErr := toAPIError(err)
			logError(c, structuredErr)
			if observer != nil {
				observer.Observe(string(structuredErr.Type))
			}

			if err := c.JSON(structuredErr.HTTPStatus(), structuredErr.ToResponse()); err != nil {
				return fmt.Errorf("failed to write error response: %w", err)
			}
			return nil
		}
	}
}

// toAPIError maps domain sentinels to their client-facing structured errors.
// Structured errors pass through unchanged.
func toAPIError(err error) *apperrors.Error {
	var structuredErr *apperrors.Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	switch {
	case errors.Is(err, domain.ErrWrongCredentials):
		return apperrors.UnauthorizedError(msgWrongCredentials)
	case errors.Is(err, domain.ErrUserNotFound):
		return apperrors.NotFoundError(msgUserNotFound)
	case errors.Is(err, domain.ErrNotLoggedIn):
		return apperrors.ForbiddenError(msgNotLoggedIn)
	case errors.Is(err, domain.ErrNoMoodYet):
		return apperrors.NotFoundError(msgNoMoodYet)
	case errors.Is(err, domain.ErrInvalidMood):
		return apperrors.ValidationError(msgInvalidMood)
	case errors.Is(err, domain.ErrStoreUnavailable):
		return apperrors.ExternalError(msgStoreUnavailable, err)
	default:
		return apperrors.AsStructuredError(err)
	}
}

func logError(c echo.Context, err *apperrors.Error) {
	ctx := c.Request().Context()
	attrs := []any{
		"error_type", err.Type,
		"message", err.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"status", err.HTTPStatus(),
	}

	for k, v := range err.Context {
		attrs = append(attrs, k, v)
	}

	switch err.Type {
	case apperrors.TypeValidation:
		slog.InfoContext(ctx, "Validation error", attrs...)
	case apperrors.TypeUnauthorized, apperrors.TypeForbidden:
		slog.InfoContext(ctx, "Access denied", attrs...)
	case apperrors.TypeNotFound:
		slog.InfoContext(ctx, "Not found", attrs...)
	case apperrors.TypeInternal:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		slog.ErrorContext(ctx, "Internal error", attrs...)
	case apperrors.TypeExternal:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		slog.ErrorContext(ctx, "External service error", attrs...)
	default:
		slog.ErrorContext(ctx, "Unknown error type", attrs...)
	}
}
