// Package timeslot provides parsing and comparison of wall-clock booking
// slots expressed as zero-padded 24-hour "HH:mm" strings on a single day.
package timeslot

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/goalline/pitch-booking-backend/internal/pkg/apperror"
)

var ErrMalformedTime = apperror.New(http.StatusBadRequest, "malformed time, expected HH:mm")

var clockPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):([0-5][0-9])$`)

// Clock is a time of day expressed as minutes from midnight.
// Two Clocks parsed from the same comparison set are directly comparable,
// and their difference is elapsed wall-clock time.
type Clock int

// ParseClock parses a "HH:mm" string into a Clock.
func ParseClock(s string) (Clock, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, apperror.WithDetail(ErrMalformedTime, "malformed time %q, expected HH:mm", s)
	}

	// The pattern guarantees both captures are numeric and in range.
	var hours, minutes int
	fmt.Sscanf(m[1], "%d", &hours)
	fmt.Sscanf(m[2], "%d", &minutes)

	return Clock(hours*60 + minutes), nil
}

// String renders the clock back as a zero-padded "HH:mm" string.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// At combines a calendar date with the clock into a wall time instant,
// keeping the date's location.
func (c Clock) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(c)/60, int(c)%60, 0, 0, date.Location())
}

// Interval is a half-open [Start, End) slot within a single day.
type Interval struct {
	Start Clock
	End   Clock
}

// ParseInterval parses both endpoints of an interval. It does not check
// ordering; overnight spans (end before start) are rejected by callers via
// Valid, not silently wrapped.
func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: s, End: e}, nil
}

// Valid reports whether the interval ends strictly after it starts.
func (i Interval) Valid() bool {
	return i.End > i.Start
}

// Overlaps reports whether two half-open intervals intersect.
// Back-to-back intervals (one ending exactly when the other starts)
// do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && i.End > o.Start
}

// Hours returns the interval length in fractional hours.
func (i Interval) Hours() float64 {
	return float64(i.End-i.Start) / 60
}
