package kafka

import (
	"context"
	"time"

	"salas/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
)

// deadLetter parks messages that could not be published or handled.
type deadLetter struct {
	writer *kafka.Writer
}

func newDeadLetter(brokers []string, topic string, codec compress.Compression, log *logger.Logger) *deadLetter {
	if topic == "" {
		return nil
	}
	return &deadLetter{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  codec,
		MaxAttempts:  3,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger:  clientErrorLogger(log),
	}}
}

// send copies msg to the dead-letter topic annotated with where it came from
// and why it failed. extra holds additional header key/value pairs.
func (d *deadLetter) send(ctx context.Context, msg Message, sourceTopic string, cause error, extra ...string) error {
	parked := Message{
		Key:     msg.Key,
		Value:   msg.Value,
		Time:    time.Now().UTC(),
		Headers: make(Headers, len(msg.Headers)+3+len(extra)/2),
	}
	for k, v := range msg.Headers {
		parked.Headers[k] = v
	}
	parked.Headers.Set(HeaderOriginalTopic, sourceTopic)
	parked.Headers.Set(HeaderDeadLetterErr, cause.Error())
	parked.Headers.Set(HeaderDeadLetterAt, parked.Time.Format(time.RFC3339))
	for i := 0; i+1 < len(extra); i += 2 {
		parked.Headers.Set(extra[i], extra[i+1])
	}

	return d.writer.WriteMessages(ctx, parked.record())
}

func (d *deadLetter) close() error {
	if d == nil {
		return nil
	}
	return d.writer.Close()
}
