package domain

import (
	"fmt"
	"time"
)

// Interval is a half-open booking time range [Start, End) expressed in
// minutes since midnight. Half-open semantics let adjacent bookings share
// a boundary minute without conflicting.
type Interval struct {
	Start int
	End   int
}

// ParseClock converts an "HH:MM" wall-clock string to minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid time %q", ErrInvalidTimeRange, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ParseDate validates a "YYYY-MM-DD" calendar day.
func ParseDate(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("%w: invalid date %q", ErrInvalidTimeRange, s)
	}
	return nil
}

// NewInterval builds an interval from wall-clock strings, rejecting
// empty and inverted ranges.
func NewInterval(startTime, endTime string) (Interval, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return Interval{}, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return Interval{}, err
	}
	if start >= end {
		return Interval{}, fmt.Errorf("%w: start %q is not before end %q", ErrInvalidTimeRange, startTime, endTime)
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals intersect:
// [a,b) and [c,d) intersect iff a < d and c < b.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

// FirstConflict returns the first existing booking whose interval
// intersects the candidate, or nil when the slot is free. The caller is
// responsible for scoping existing to a single room and date.
func FirstConflict(candidate Interval, existing []*Booking) *Booking {
	for _, b := range existing {
		iv, err := b.Interval()
		if err != nil {
			continue
		}
		if candidate.Overlaps(iv) {
			return b
		}
	}
	return nil
}
