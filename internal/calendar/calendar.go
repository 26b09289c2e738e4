// Package calendar holds the day-granularity date arithmetic used by the
// scheduling engine. Dates are calendar days: every value returned here is
// normalized to UTC midnight, and no working-day exclusions are applied.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the canonical textual form of a calendar day.
const Layout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// ErrMalformedDate is matched by every *DateError.
var ErrMalformedDate = errors.New("malformed date")

// DateError reports input that could not be parsed as a calendar day.
type DateError struct {
	Input string
	Err   error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("malformed date %q (expected YYYY-MM-DD): %v", e.Input, e.Err)
}

func (e *DateError) Unwrap() []error {
	return []error{ErrMalformedDate, e.Err}
}

// Parse reads a YYYY-MM-DD string into a calendar day.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, &DateError{Input: s, Err: err}
	}
	return t, nil
}

// MustParse is Parse for literals known to be valid. It panics otherwise.
func MustParse(s string) time.Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Format renders a calendar day as YYYY-MM-DD.
func Format(t time.Time) string {
	return Day(t).Format(Layout)
}

// Day drops the time-of-day and location of t, keeping its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day in the local time zone.
func Today() time.Time {
	return Day(time.Now())
}

// dayNumber is the count of days since the Unix epoch.
func dayNumber(t time.Time) int64 {
	return Day(t).Unix() / secondsPerDay
}

// DaysBetween returns the signed number of days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(dayNumber(b) - dayNumber(a))
}

// Duration returns the inclusive day count of [start, end]. It is at least 1
// whenever end is not before start.
func Duration(start, end time.Time) int {
	return DaysBetween(start, end) + 1
}

// EndFromStart returns the last day of a range of the given length starting
// at start. Lengths below one are treated as a single day.
func EndFromStart(start time.Time, days int) time.Time {
	if days < 1 {
		days = 1
	}
	return AddDays(start, days-1)
}

// AddDays shifts t by n calendar days; n may be negative.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// Before reports whether day a falls strictly before day b.
func Before(a, b time.Time) bool {
	return dayNumber(a) < dayNumber(b)
}

// Equal reports whether a and b fall on the same calendar day.
func Equal(a, b time.Time) bool {
	return dayNumber(a) == dayNumber(b)
}

// Min returns the earlier of two days.
func Min(a, b time.Time) time.Time {
	if Before(b, a) {
		return Day(b)
	}
	return Day(a)
}

// Max returns the later of two days.
func Max(a, b time.Time) time.Time {
	if Before(a, b) {
		return Day(b)
	}
	return Day(a)
}
