package model

import (
	"regexp"
	"slices"
	"time"
)

var locationRegex = regexp.MustCompile(`^\p{L}\p{Nd}$`)

type Room struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name       string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Capacity   int       `json:"capacity" bson:"capacity" validate:"min=1"`
	Location   string    `json:"location" bson:"location" validate:"room_location"`
	BookingIDs []string  `json:"-" bson:"booking_ids"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

type RoomUpdate struct {
	Name     *string `json:"name,omitempty" validate:"omitnil,min=1,max=100"`
	Capacity *int    `json:"capacity,omitempty" validate:"omitnil,min=1"`
	Location *string `json:"location,omitempty" validate:"omitnil,room_location"`
}

// IsValidLocation reports whether location is exactly one letter followed by one digit, e.g. "A1".
func IsValidLocation(location string) bool {
	return locationRegex.MatchString(location)
}

func IsValidCapacity(capacity int) bool {
	return capacity >= 1
}

// Clone returns a deep copy so callers never share the booking index slice.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	c := *r
	c.BookingIDs = slices.Clone(r.BookingIDs)
	return &c
}

func (r *Room) HasBooking(bookingID string) bool {
	return slices.Contains(r.BookingIDs, bookingID)
}
