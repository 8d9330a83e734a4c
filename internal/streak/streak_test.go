package streak

import (
	"testing"
	"time"

	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = domain.Date{Year: 2021, Month: time.March, Day: 17}

func datePtr(d domain.Date) *domain.Date { return &d }

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		last *domain.Date
		want domain.StreakOutcome
	}{
		{"first activity", nil, domain.StreakExtended},
		{"same day", datePtr(day), domain.StreakKept},
		{"yesterday", datePtr(day.AddDays(-1)), domain.StreakExtended},
		{"two days ago", datePtr(day.AddDays(-2)), domain.StreakReset},
		{"a month ago", datePtr(day.AddDays(-31)), domain.StreakReset},
		{"tomorrow (clock went backwards)", datePtr(day.AddDays(1)), domain.StreakReset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(day, tt.last))
		})
	}
}

func TestDecide_AcrossMonthBoundary(t *testing.T) {
	last := domain.Date{Year: 2021, Month: time.February, Day: 28}
	assert.Equal(t, domain.StreakExtended, Decide(domain.Date{Year: 2021, Month: time.March, Day: 1}, &last))
}

func TestApply_FirstActivityStartsAtOne(t *testing.T) {
	u, outcome := Apply(domain.User{Username: "admin"}, day)

	assert.Equal(t, domain.StreakExtended, outcome)
	assert.Equal(t, 1, u.Streak)
	require.NotNil(t, u.LastPostDate)
	assert.Equal(t, day, *u.LastPostDate)
}

func TestApply_ConsecutiveDaysIncrementByOne(t *testing.T) {
	u := domain.User{Username: "admin"}
	for i := range 5 {
		u, _ = Apply(u, day.AddDays(i))
		assert.Equal(t, i+1, u.Streak)
	}
}

func TestApply_SameDayKeepsStreak(t *testing.T) {
	u := domain.User{Username: "admin", Streak: 4, LastPostDate: datePtr(day)}

	u, outcome := Apply(u, day)

	assert.Equal(t, domain.StreakKept, outcome)
	assert.Equal(t, 4, u.Streak)
	assert.Equal(t, day, *u.LastPostDate)
}

func TestApply_GapResetsToZero(t *testing.T) {
	u := domain.User{Username: "admin", Streak: 9, LastPostDate: datePtr(day.AddDays(-3))}

	u, outcome := Apply(u, day)

	assert.Equal(t, domain.StreakReset, outcome)
	assert.Equal(t, 0, u.Streak)
	assert.Equal(t, day, *u.LastPostDate)
}

func TestApply_DoesNotAliasInput(t *testing.T) {
	last := day.AddDays(-1)
	in := domain.User{Username: "admin", Streak: 1, LastPostDate: &last}

	out, _ := Apply(in, day)

	assert.Equal(t, day.AddDays(-1), *in.LastPostDate)
	assert.Equal(t, 1, in.Streak)
	assert.Equal(t, 2, out.Streak)
}

func TestStreakOutcome_String(t *testing.T) {
	assert.Equal(t, "kept", domain.StreakKept.String())
	assert.Equal(t, "extended", domain.StreakExtended.String())
	assert.Equal(t, "reset", domain.StreakReset.String())
	assert.Equal(t, "unknown", domain.StreakOutcome(42).String())
}
