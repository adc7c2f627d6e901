package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopHandler(context.Context, Message) error { return nil }

func TestNewConsumer_RejectsBadArguments(t *testing.T) {
	_, err := NewConsumer(testConfig(), "t", "", "", noopHandler, nil)
	assert.Error(t, err)

	_, err = NewConsumer(testConfig(), "t", "g", "", nil, nil)
	assert.Error(t, err)
}

func TestConsumer_HandleRetriesTransientThenSucceeds(t *testing.T) {
	var attempts []int
	h := func(_ context.Context, msg Message) error {
		attempts = append(attempts, msg.Attempt())
		if len(attempts) < 3 {
			return Transient("store busy", nil)
		}
		return nil
	}
	c, err := NewConsumer(testConfig(), "t", "g", "", h, nil)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.handle(context.Background(), h, NewRawMessage("room-1", []byte("{}"))))
	assert.Equal(t, []int{0, 1, 2}, attempts)
}

func TestConsumer_HandleStopsOnPermanent(t *testing.T) {
	calls := 0
	h := func(context.Context, Message) error {
		calls++
		return Permanent("decode", nil)
	}
	c, err := NewConsumer(testConfig(), "t", "g", "", h, nil)
	require.NoError(t, err)
	defer c.Close()

	assert.Error(t, c.handle(context.Background(), h, NewRawMessage("room-1", []byte("{"))))
	assert.Equal(t, 1, calls)
}

func TestConsumer_HandleGivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	h := func(context.Context, Message) error {
		calls++
		return Transient("store busy", nil)
	}
	c, err := NewConsumer(testConfig(), "t", "g", "", h, nil)
	require.NoError(t, err)
	defer c.Close()

	assert.Error(t, c.handle(context.Background(), h, NewRawMessage("room-1", []byte("{}"))))
	assert.Equal(t, 4, calls, "first delivery plus three retries")
}

func TestConsumer_RunAfterClose(t *testing.T) {
	c, err := NewConsumer(testConfig(), "t", "g", "", noopHandler, nil)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	assert.ErrorIs(t, c.Run(context.Background()), ErrClosed)
}
