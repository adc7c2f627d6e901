package errors

import (
	"errors"
	"fmt"
	"time"

	"salas/pkg/model"
)

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrTimeConflict = errors.New("booking time conflicts with existing booking")

	ErrInvalidTimeRange = errors.New("start must be before end")
)

// ConflictError describes an attempted booking that overlaps an existing one
// in the same room. It matches ErrTimeConflict under errors.Is.
type ConflictError struct {
	RoomID    string
	Attempted model.Interval
	Existing  model.Interval
	BookingID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("room %s is booked from %s to %s (booking %s); requested %s to %s",
		e.RoomID,
		e.Existing.Start.Format(time.RFC3339), e.Existing.End.Format(time.RFC3339),
		e.BookingID,
		e.Attempted.Start.Format(time.RFC3339), e.Attempted.End.Format(time.RFC3339),
	)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrTimeConflict
}

func (e *ConflictError) Details() map[string]any {
	return map[string]any{
		"room_id":             e.RoomID,
		"conflicting_booking": e.BookingID,
		"attempted_start":     e.Attempted.Start,
		"attempted_end":       e.Attempted.End,
		"existing_start":      e.Existing.Start,
		"existing_end":        e.Existing.End,
	}
}
