package model

import (
	"time"
)

type Booking struct {
	ID        string `json:"id,omitempty" bson:"_id,omitempty"`
	Organizer string `json:"organizer" bson:"organizer" validate:"required,organizer"`
	Interval  `bson:",inline"`
	RoomID    string    `json:"room_id" bson:"room_id" validate:"required"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// BookingUpdate is a partial update: nil fields keep the stored value.
type BookingUpdate struct {
	Organizer *string    `json:"organizer,omitempty" validate:"omitnil,organizer"`
	Start     *time.Time `json:"start,omitempty"`
	End       *time.Time `json:"end,omitempty"`
	RoomID    *string    `json:"room_id,omitempty" validate:"omitnil,min=1"`
}

func (u *BookingUpdate) IsEmpty() bool {
	return u.Organizer == nil && u.Start == nil && u.End == nil && u.RoomID == nil
}

func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}
