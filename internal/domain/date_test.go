package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf_UsesLocation(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	instant := time.Date(2026, 3, 16, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, Date{2026, time.March, 16}, DateOf(instant))
	assert.Equal(t, Date{2026, time.March, 17}, DateOf(instant.In(berlin)))
}

func TestDate_AddDaysRollsOver(t *testing.T) {
	assert.Equal(t, Date{2026, time.March, 1}, Date{2026, time.February, 28}.AddDays(1))
	assert.Equal(t, Date{2024, time.February, 29}, Date{2024, time.February, 28}.AddDays(1))
	assert.Equal(t, Date{2027, time.January, 1}, Date{2026, time.December, 31}.AddDays(1))
	assert.Equal(t, Date{2026, time.December, 31}, Date{2027, time.January, 1}.AddDays(-1))
}

func TestDate_StringAndParse(t *testing.T) {
	d := Date{2021, time.March, 17}
	assert.Equal(t, "2021-03-17", d.String())

	parsed, err := ParseDate("2021-03-17")
	require.NoError(t, err)
	assert.Equal(t, d, parsed)

	_, err = ParseDate("17/03/2021")
	assert.Error(t, err)
}

func TestDate_Before(t *testing.T) {
	d := Date{2026, time.October, 18}
	assert.True(t, d.Before(d.AddDays(1)))
	assert.False(t, d.Before(d))
	assert.False(t, d.AddDays(1).Before(d))
}

func TestPrincipal_IsAnonymous(t *testing.T) {
	assert.True(t, Principal{Username: Anonymous}.IsAnonymous())
	assert.False(t, Principal{Username: "admin"}.IsAnonymous())
}
