// Package conflict decides whether a candidate interval collides with the
// bookings already held by a room.
package conflict

import (
	"context"

	"salas/pkg/model"
)

type BookingLister interface {
	FindByRoom(ctx context.Context, roomID string) ([]*model.Booking, error)
}

// Resolver is read-only and safe for concurrent use. Callers that act on its
// answer must hold the room lock for the answer to stay true.
type Resolver struct {
	bookings BookingLister
}

func NewResolver(bookings BookingLister) *Resolver {
	return &Resolver{bookings: bookings}
}

// FindConflict returns the first booking of roomID, in stored order, whose
// interval overlaps candidate, skipping excludeID (the booking being updated).
// It returns nil when the room is free. Touching endpoints count as overlap.
func (r *Resolver) FindConflict(ctx context.Context, roomID string, candidate model.Interval, excludeID string) (*model.Booking, error) {
	bookings, err := r.bookings.FindByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	for _, b := range bookings {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if model.Overlaps(b.Interval, candidate) {
			return b, nil
		}
	}
	return nil, nil
}
