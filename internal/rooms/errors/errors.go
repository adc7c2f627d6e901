package errors

import "errors"

var (
	ErrNotFound = errors.New("room not found")

	ErrInvalidID = errors.New("invalid room ID format")

	ErrInvalidCapacity = errors.New("capacity must be at least 1")

	ErrInvalidLocation = errors.New("location must be one letter followed by one digit")
)
