package domain

import "context"

// GlobalSessionKey addresses the single process-wide session slot.
const GlobalSessionKey = "global"

// Principal is who a request was accepted as.
type Principal struct {
	Username string
}

func (p Principal) IsAnonymous() bool {
	return p.Username == Anonymous
}

// SessionRepository stores the current user per session key. In global mode
// every request uses GlobalSessionKey.
type SessionRepository interface {
	Current(ctx context.Context, key string) (string, bool, error)
	SetCurrent(ctx context.Context, key, username string) error
}
