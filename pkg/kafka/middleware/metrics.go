package kafkamiddleware

import (
	"context"
	"sync/atomic"
	"time"

	"salas/pkg/kafka"
)

type counter struct {
	ok     atomic.Int64
	failed atomic.Int64
	nanos  atomic.Int64
}

func (c *counter) middleware() kafka.Middleware {
	return func(next kafka.Handler) kafka.Handler {
		return func(ctx context.Context, msg kafka.Message) error {
			start := time.Now()
			err := next(ctx, msg)
			c.nanos.Add(int64(time.Since(start)))
			if err != nil {
				c.failed.Add(1)
			} else {
				c.ok.Add(1)
			}
			return err
		}
	}
}

func (c *counter) avg() time.Duration {
	n := c.ok.Load() + c.failed.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(c.nanos.Load() / n)
}

// Metrics counts published and consumed messages. The zero value is ready.
type Metrics struct {
	publish counter
	consume counter
}

func (m *Metrics) Publish() kafka.Middleware { return m.publish.middleware() }
func (m *Metrics) Consume() kafka.Middleware { return m.consume.middleware() }

type Snapshot struct {
	Published     int64
	PublishFailed int64
	AvgPublish    time.Duration
	Consumed      int64
	ConsumeFailed int64
	AvgConsume    time.Duration
}

func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Published:     m.publish.ok.Load(),
		PublishFailed: m.publish.failed.Load(),
		AvgPublish:    m.publish.avg(),
		Consumed:      m.consume.ok.Load(),
		ConsumeFailed: m.consume.failed.Load(),
		AvgConsume:    m.consume.avg(),
	}
}

// Attrs returns the snapshot as slog key/value pairs.
func (s Snapshot) Attrs() []any {
	return []any{
		"published", s.Published,
		"publish_failed", s.PublishFailed,
		"avg_publish", s.AvgPublish,
		"consumed", s.Consumed,
		"consume_failed", s.ConsumeFailed,
		"avg_consume", s.AvgConsume,
	}
}
