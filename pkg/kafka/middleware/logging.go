package kafkamiddleware

import (
	"context"
	"time"

	"salas/pkg/kafka"
	"salas/pkg/logger"
)

const (
	OpPublish = "publish"
	OpConsume = "consume"
)

// Logging logs each message passing through the chain: failures at error
// level, successes at debug. op names the side of the chain in the log line.
func Logging(log *logger.Logger, op string) kafka.Middleware {
	return func(next kafka.Handler) kafka.Handler {
		return func(ctx context.Context, msg kafka.Message) error {
			start := time.Now()
			err := next(ctx, msg)

			attrs := []any{
				"op", op,
				"topic", msg.Topic,
				"key", msg.Key,
				"event_id", msg.EventID(),
				"event_type", msg.EventType(),
				"correlation_id", msg.CorrelationID(),
				"attempt", msg.Attempt(),
				"duration", time.Since(start),
			}
			if op == OpConsume {
				attrs = append(attrs, "partition", msg.Partition, "offset", msg.Offset)
			}

			if err != nil {
				log.Error("Kafka "+op+" failed", append(attrs, "error", err)...)
			} else {
				log.Debug("Kafka "+op+" succeeded", attrs...)
			}
			return err
		}
	}
}
