package events

import (
	"context"

	"salas/pkg/kafka"
	"salas/pkg/logger"
)

// AuditHandler logs every reservation event it receives. Messages that do
// not decode into an Event are permanent failures and go straight to the DLQ.
func AuditHandler(log *logger.Logger) kafka.Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event Event
		if err := msg.Decode(&event); err != nil {
			return kafka.Permanent("malformed reservation event", err)
		}
		if event.Type == "" {
			return kafka.Permanent("reservation event without type", kafka.ErrInvalidMessage)
		}

		log.Info("Reservation event",
			"type", event.Type,
			"room_id", event.RoomID,
			"entity_id", event.EntityID,
			"occurred_at", event.OccurredAt,
			"event_id", msg.EventID(),
			"correlation_id", msg.CorrelationID(),
			"partition", msg.Partition,
			"offset", msg.Offset,
		)
		return nil
	}
}
