package domain

import "context"

// MoodRepository holds the single latest mood value shared by every caller.
type MoodRepository interface {
	// Latest returns nil when nothing has been posted yet.
	Latest(ctx context.Context) (*int, error)
	SetLatest(ctx context.Context, mood int) error
}
