package calendar

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_Inclusive(t *testing.T) {
	start := MustParse("2025-01-01")
	assert.Equal(t, 1, Duration(start, start))
	assert.Equal(t, 5, Duration(start, MustParse("2025-01-05")))
	assert.Equal(t, 366, Duration(MustParse("2024-01-01"), MustParse("2024-12-31")), "leap year")
}

func TestEndFromStart(t *testing.T) {
	start := MustParse("2025-01-01")
	assert.Equal(t, "2025-01-05", Format(EndFromStart(start, 5)))
	assert.Equal(t, "2025-01-01", Format(EndFromStart(start, 1)))
	assert.Equal(t, "2025-01-01", Format(EndFromStart(start, 0)), "non-positive length is one day")
	assert.Equal(t, "2025-03-01", Format(EndFromStart(MustParse("2025-02-27"), 3)))
}

func TestAddDays_Signed(t *testing.T) {
	d := MustParse("2025-03-01")
	assert.Equal(t, "2025-03-04", Format(AddDays(d, 3)))
	assert.Equal(t, "2025-02-26", Format(AddDays(d, -3)))
	assert.Equal(t, "2025-03-01", Format(AddDays(d, 0)))
}

// TestDuration_EndFromStart_RoundTrip property-tests
// Duration(d, EndFromStart(d, n)) == n for n >= 1.
func TestDuration_EndFromStart_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := MustParse("2000-01-01")

	for trial := 0; trial < 500; trial++ {
		d := AddDays(base, rng.Intn(20000))
		n := rng.Intn(1000) + 1
		assert.Equal(t, n, Duration(d, EndFromStart(d, n)), "trial %d: start=%s n=%d", trial, Format(d), n)
	}
}

func TestDay_DropsClockAndZone(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	late := time.Date(2025, 6, 30, 23, 59, 0, 0, loc)
	assert.Equal(t, "2025-06-30", Format(late))
	assert.Equal(t, time.UTC, Day(late).Location())
	assert.Equal(t, 0, DaysBetween(late, MustParse("2025-06-30")))
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse("2025-13-40")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDate))

	var dateErr *DateError
	require.True(t, errors.As(err, &dateErr))
	assert.Equal(t, "2025-13-40", dateErr.Input)
}

func TestMinMax(t *testing.T) {
	a := MustParse("2025-01-02")
	b := MustParse("2025-01-09")
	assert.Equal(t, a, Min(a, b))
	assert.Equal(t, a, Min(b, a))
	assert.Equal(t, b, Max(a, b))
	assert.True(t, Before(a, b))
	assert.False(t, Before(a, a))
	assert.True(t, Equal(a, a))
}
