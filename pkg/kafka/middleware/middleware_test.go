package kafkamiddleware

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"salas/pkg/kafka"
	"salas/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context, kafka.Message) error { return nil }

func fail(err error) kafka.Handler {
	return func(context.Context, kafka.Message) error { return err }
}

func TestMetrics_PublishCountsOutcomes(t *testing.T) {
	var m Metrics
	mw := m.Publish()
	msg := kafka.NewRawMessage("room-1", []byte("{}"))

	require.NoError(t, mw(ok)(context.Background(), msg))
	require.Error(t, mw(fail(errors.New("broker down")))(context.Background(), msg))

	s := m.Snapshot()
	assert.Equal(t, int64(1), s.Published)
	assert.Equal(t, int64(1), s.PublishFailed)
	assert.Zero(t, s.Consumed)
	assert.GreaterOrEqual(t, s.AvgPublish.Nanoseconds(), int64(0))
}

func TestMetrics_ConsumeCountsOutcomes(t *testing.T) {
	var m Metrics
	mw := m.Consume()

	_ = mw(ok)(context.Background(), kafka.Message{})
	_ = mw(ok)(context.Background(), kafka.Message{})
	_ = mw(fail(errors.New("bad payload")))(context.Background(), kafka.Message{})

	s := m.Snapshot()
	assert.Equal(t, int64(2), s.Consumed)
	assert.Equal(t, int64(1), s.ConsumeFailed)
	assert.Len(t, s.Attrs(), 12)
}

func TestLogging_ConsumeFailure(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: logger.DEBUG, Output: &buf})
	msg := kafka.NewRawMessage("room-1", []byte("{}"))
	msg.Headers.Set(kafka.HeaderEventType, "booking.created")

	err := Logging(log, OpConsume)(fail(errors.New("boom")))(context.Background(), msg)

	require.Error(t, err)
	assert.Contains(t, buf.String(), "Kafka consume failed")
	assert.Contains(t, buf.String(), "booking.created")
	assert.Contains(t, buf.String(), `"offset"`)
}

func TestLogging_PublishPassesThrough(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: logger.DEBUG, Output: &buf})
	called := false

	err := Logging(log, OpPublish)(func(context.Context, kafka.Message) error {
		called = true
		return nil
	})(context.Background(), kafka.Message{Key: "room-1"})

	require.NoError(t, err)
	assert.True(t, called)
	assert.Contains(t, buf.String(), "Kafka publish succeeded")
	assert.NotContains(t, buf.String(), `"offset"`)
}
