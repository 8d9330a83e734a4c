package domain

// StreakOutcome is how one day of activity changed a user's streak.
type StreakOutcome int

const (
	// StreakKept leaves the counter unchanged (already active that day).
	StreakKept StreakOutcome = iota
	// StreakExtended increments the counter (first activity ever, or active the day before).
	StreakExtended
	// StreakReset sets the counter to zero (one or more days skipped).
	StreakReset
)

func (o StreakOutcome) String() string {
	switch o {
	case StreakKept:
		return "kept"
	case StreakExtended:
		return "extended"
	case StreakReset:
		return "reset"
	default:
		return "unknown"
	}
}
