package model

import (
	"fmt"
	"time"
)

// Interval is a booked time range. Both ends are part of the range: an
// interval ending at 21:00 shares an instant with one starting at 21:00.
type Interval struct {
	Start time.Time `json:"start" bson:"start" validate:"required"`
	End   time.Time `json:"end" bson:"end" validate:"required"`
}

func NewInterval(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// IsValidInterval reports whether start is strictly before end.
func IsValidInterval(start, end time.Time) bool {
	return start.Before(end)
}

func (i Interval) IsValid() bool {
	return IsValidInterval(i.Start, i.End)
}

// Overlaps reports whether a and b share at least one instant, touching
// endpoints included.
func Overlaps(a, b Interval) bool {
	return !a.Start.After(b.End) && !b.Start.After(a.End)
}

func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i, other)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// RFC3339 renders the interval for messages. Not a String method: Booking
// embeds Interval and would otherwise print as a bare range.
func (i Interval) RFC3339() string {
	return fmt.Sprintf("[%s, %s]", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}
