package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, time.July, 21, hour, minute, 0, 0, time.UTC)
}

func TestIsValidInterval(t *testing.T) {
	assert.True(t, IsValidInterval(at(10, 0), at(11, 0)))
	assert.False(t, IsValidInterval(at(20, 0), at(20, 0)), "equal start and end is invalid")
	assert.False(t, IsValidInterval(at(11, 0), at(10, 0)))
	assert.False(t, NewInterval(at(20, 0), at(20, 0)).IsValid())
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"touching endpoints conflict", NewInterval(at(10, 0), at(11, 0)), NewInterval(at(11, 0), at(12, 0)), true},
		{"strictly separated", NewInterval(at(9, 0), at(10, 0)), NewInterval(at(10, 1), at(11, 0)), false},
		{"identical", NewInterval(at(9, 0), at(10, 0)), NewInterval(at(9, 0), at(10, 0)), true},
		{"nested", NewInterval(at(9, 0), at(12, 0)), NewInterval(at(10, 0), at(11, 0)), true},
		{"partial", NewInterval(at(9, 0), at(10, 30)), NewInterval(at(10, 0), at(11, 0)), true},
		{"same start", NewInterval(at(9, 0), at(9, 30)), NewInterval(at(9, 0), at(11, 0)), true},
		{"far apart", NewInterval(at(1, 0), at(2, 0)), NewInterval(at(20, 0), at(21, 0)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a), "overlap must be symmetric")
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
		})
	}
}

func TestOverlaps_SymmetricOverGrid(t *testing.T) {
	var intervals []Interval
	for s := 0; s < 6; s++ {
		for e := s + 1; e <= 6; e++ {
			intervals = append(intervals, NewInterval(at(8+s, 0), at(8+e, 0)))
		}
	}
	for _, a := range intervals {
		for _, b := range intervals {
			assert.Equal(t, Overlaps(a, b), Overlaps(b, a), "%s vs %s", a.RFC3339(), b.RFC3339())
		}
	}
}

func TestInterval_Duration(t *testing.T) {
	assert.Equal(t, 61*time.Minute, NewInterval(at(20, 20), at(21, 21)).Duration())
}

func TestIsValidLocation(t *testing.T) {
	for _, ok := range []string{"A1", "z9", "Ñ0"} {
		assert.True(t, IsValidLocation(ok), ok)
	}
	for _, bad := range []string{"", "A", "1A", "AA", "A12", "11", " A1"} {
		assert.False(t, IsValidLocation(bad), bad)
	}
}

func TestRoom_CloneDoesNotShareIndex(t *testing.T) {
	r := &Room{ID: "r", BookingIDs: []string{"b1"}}
	c := r.Clone()
	c.BookingIDs = append(c.BookingIDs[:0], "other")

	assert.Equal(t, []string{"b1"}, r.BookingIDs)
	assert.True(t, r.HasBooking("b1"))
	assert.False(t, r.HasBooking("other"))
}
