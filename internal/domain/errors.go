package domain

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrWrongCredentials = errors.New("wrong credentials")
	ErrNotLoggedIn      = errors.New("user not logged in")
	ErrNoMoodYet        = errors.New("no posted value")
	ErrInvalidMood      = errors.New("mood is not an integer")

	// ErrStoreUnavailable marks a backing store refusing work without trying,
	// e.g. behind an open circuit breaker.
	ErrStoreUnavailable = errors.New("store unavailable")
)
