// Package events publishes reservation changes to the event stream.
// Publishing happens after a successful commit and is best effort: a failed
// publish is logged and never undoes the change.
package events

import (
	"context"
	"encoding/json"
	"time"

	"salas/pkg/logger"
)

type Type string

const (
	RoomCreated    Type = "room.created"
	RoomUpdated    Type = "room.updated"
	RoomDeleted    Type = "room.deleted"
	BookingCreated Type = "booking.created"
	BookingUpdated Type = "booking.updated"
	BookingDeleted Type = "booking.deleted"
)

const SchemaVersion = "1"

// Event is the envelope carried on the topic. Payload holds the room or
// booking as it was after the change (or just before, for deletes).
type Event struct {
	Type       Type            `json:"type"`
	RoomID     string          `json:"room_id"`
	EntityID   string          `json:"entity_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, eventType Type, roomID, entityID string, payload any) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Type, string, string, any) error { return nil }
func (NoopPublisher) Close() error                                             { return nil }

const publishTimeout = 5 * time.Second

// Emit publishes an event after a committed change. It detaches from the
// request's cancellation and only logs a failure.
func Emit(ctx context.Context, p Publisher, log *logger.Logger, eventType Type, roomID, entityID string, payload any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.Publish(ctx, eventType, roomID, entityID, payload); err != nil {
		log.Warn("Failed to publish event",
			"type", eventType,
			"room_id", roomID,
			"entity_id", entityID,
			"error", err,
		)
	}
}
