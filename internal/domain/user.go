package domain

import "context"

// Anonymous is the session value of a caller that sent no credentials.
const Anonymous = "anonymous"

// User is one entry of the fixed user set. Password is stored and compared in plaintext.
type User struct {
	Username     string
	Password     string
	LastPostDate *Date
	Streak       int
}

// SeedUser is a username/password pair created at startup.
type SeedUser struct {
	Username string
	Password string
}

type UserRepository interface {
	Get(ctx context.Context, username string) (*User, error)
	CredentialsValid(ctx context.Context, username, password string) (bool, error)
	// RecordActivity applies the streak rule for today and stores the result.
	RecordActivity(ctx context.Context, username string, today Date) (*User, StreakOutcome, error)
	List(ctx context.Context) ([]User, error)
	// Seed creates missing users; existing users keep their streak state.
	Seed(ctx context.Context, users []SeedUser) error
}
