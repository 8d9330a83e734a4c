package httpserver

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/moodpulse/internal/domain"
)

const (
	sessionName  = "moodpulse-session"
	sessionKeyID = "sid"
)

// sessionRef identifies the server-side session slot of a request.
type sessionRef struct {
	key string
	// fresh is set when the request carried no usable session cookie.
	fresh   bool
	session *sessions.Session
}

// resolveSession returns the slot key for the request. In global mode every
// request shares domain.GlobalSessionKey. In cookie mode the key is the random
// ID in the signed session cookie, or a newly generated one.
func (s *Server) resolveSession(c echo.Context) sessionRef {
	if s.sessionStore == nil {
		return sessionRef{key: domain.GlobalSessionKey}
	}

	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		// Tampered or stale cookie: gorilla still hands back a new session.
		slog.DebugContext(c.Request().Context(), "Discarding unreadable session cookie", "error", err)
	}

	if id, ok := session.Values[sessionKeyID].(string); ok {
		if _, err := uuid.Parse(id); err == nil {
			return sessionRef{key: id, session: session}
		}
	}
	return sessionRef{key: uuid.NewString(), fresh: true, session: session}
}

// persist issues the session cookie for a fresh cookie-mode session.
func (s *Server) persist(c echo.Context, ref sessionRef) error {
	if !ref.fresh || ref.session == nil {
		return nil
	}
	ref.session.Values[sessionKeyID] = ref.key
	if err := ref.session.Save(c.Request(), c.Response().Writer); err != nil {
		return fmt.Errorf("failed to save session cookie: %w", err)
	}
	return nil
}
