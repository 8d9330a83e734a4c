// Package streak decides how a user's consecutive-day counter changes when they are active on a given day.
package streak

import "github.com/pscheid92/moodpulse/internal/domain"

// Decide compares today with the last activity day. A last day after today
// (clock moved backwards) counts as a gap.
func Decide(today domain.Date, last *domain.Date) domain.StreakOutcome {
	switch {
	case last == nil:
		return domain.StreakExtended
	case today == *last:
		return domain.StreakKept
	case today == last.AddDays(1):
		return domain.StreakExtended
	default:
		return domain.StreakReset
	}
}

// Apply returns u updated for activity on today. LastPostDate is set to today
// in every branch.
func Apply(u domain.User, today domain.Date) (domain.User, domain.StreakOutcome) {
	outcome := Decide(today, u.LastPostDate)
	switch outcome {
	case domain.StreakExtended:
		u.Streak++
	case domain.StreakReset:
		u.Streak = 0
	}
	day := today
	u.LastPostDate = &day
	return u, outcome
}
