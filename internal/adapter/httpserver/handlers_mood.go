package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/moodpulse/internal/app"
	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/platform/correlation"
	apperrors "github.com/pscheid92/moodpulse/internal/platform/errors"
)

const maxMoodBodyBytes = 4 << 10

type getMoodResponse struct {
	Latest *int `json:"GET value"`
	Streak int  `json:"streak"`
}

type postMoodResponse struct {
	Posted int `json:"POSTed value"`
}

func (s *Server) registerMoodRoutes(mw ...echo.MiddlewareFunc) {
	s.echo.GET("/mood", s.handleGetMood, mw...)
	s.echo.POST("/mood", s.handlePostMood, mw...)
}

// handleGetMood reads the session slot only; it never authenticates.
func (s *Server) handleGetMood(c echo.Context) error {
	ref := s.resolveSession(c)
	if ref.fresh {
		return domain.ErrNoMoodYet
	}

	view, err := s.app.GetMood(c.Request().Context(), ref.key)
	if err != nil {
		return err
	}
	s.tagPrincipal(c, view.Username)

	if err := c.JSON(http.StatusOK, getMoodResponse{Latest: view.Latest, Streak: view.Streak}); err != nil {
		return fmt.Errorf("failed to write mood response: %w", err)
	}
	return nil
}

// handlePostMood hands credentials and the parsed body to one service call;
// a rejected caller never sees a validation error.
func (s *Server) handlePostMood(c echo.Context) error {
	ref := s.resolveSession(c)

	username, password, _ := c.Request().BasicAuth()
	mood, ok := parseMood(c)

	principal, err := s.app.PostMood(c.Request().Context(), ref.key,
		app.Credentials{Username: username, Password: password},
		app.MoodInput{Value: mood, Valid: ok})
	if principal.Username != "" {
		s.tagPrincipal(c, principal.Username)
		if err := s.persist(c, ref); err != nil {
			return apperrors.InternalError("failed to issue session", err)
		}
	}
	if errors.Is(err, domain.ErrInvalidMood) {
		return apperrors.ValidationError(msgInvalidMood).
			WithField("content_type", c.Request().Header.Get(echo.HeaderContentType))
	}
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusCreated, postMoodResponse{Posted: mood}); err != nil {
		return fmt.Errorf("failed to write mood response: %w", err)
	}
	return nil
}

// tagPrincipal records who the request ran as for logs and request metrics.
func (s *Server) tagPrincipal(c echo.Context, username string) {
	ctx := correlation.WithPrincipal(c.Request().Context(), username)
	c.SetRequest(c.Request().WithContext(ctx))
}

// parseMood reads "mood" from a JSON body, then from form or query values.
// Integers and strings holding an integer are accepted.
func parseMood(c echo.Context) (int, bool) {
	req := c.Request()
	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if mood, found, ok := moodFromJSON(req.Body); found {
			return mood, ok
		}
		return parseMoodString(c.QueryParam("mood"))
	}
	return parseMoodString(c.FormValue("mood"))
}

// moodFromJSON reports found=false when the body has no "mood" key.
func moodFromJSON(body io.Reader) (mood int, found, ok bool) {
	raw, err := io.ReadAll(io.LimitReader(body, maxMoodBodyBytes))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return 0, false, false
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0, false, false
	}
	value, exists := payload["mood"]
	if !exists {
		return 0, false, false
	}

	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		mood, ok = parseMoodString(s)
		return mood, true, ok
	}

	var f float64
	if err := json.Unmarshal(value, &f); err == nil && f == math.Trunc(f) && inMoodRange(f) {
		return int(f), true, true
	}
	return 0, true, false
}

// Moods are stored as 32-bit integers by every backend.
func inMoodRange(f float64) bool {
	return f >= math.MinInt32 && f <= math.MaxInt32
}

func parseMoodString(s string) (int, bool) {
	mood, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, false
	}
	return int(mood), true
}
