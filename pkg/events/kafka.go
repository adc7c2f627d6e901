package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"salas/pkg/kafka"
	"salas/pkg/middleware"
)

type producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	producer producer
	source   string
}

func NewKafkaPublisher(p producer, source string) *KafkaPublisher {
	return &KafkaPublisher{producer: p, source: source}
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType Type, roomID, entityID string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}

	event := Event{
		Type:       eventType,
		RoomID:     roomID,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
		Payload:    data,
	}

	msg, err := kafka.NewMessage(roomID, event)
	if err != nil {
		return err
	}
	msg.Headers.Set(kafka.HeaderEventType, string(eventType))
	msg.Headers.Set(kafka.HeaderSchemaVersion, SchemaVersion)
	msg.Headers.Set(kafka.HeaderSource, p.source)
	msg.Headers.Set(kafka.HeaderCorrelationID, middleware.GetRequestID(ctx))

	return p.producer.Publish(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
