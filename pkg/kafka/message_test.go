package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage_StampsHeaders(t *testing.T) {
	msg, err := NewMessage("room-1", map[string]int{"capacity": 4})
	require.NoError(t, err)

	assert.Equal(t, "room-1", msg.Key)
	assert.NotEmpty(t, msg.EventID())
	assert.JSONEq(t, `{"capacity":4}`, string(msg.Value))

	_, err = time.Parse(time.RFC3339, msg.Headers[HeaderTimestamp])
	assert.NoError(t, err)
}

func TestNewMessage_UnencodableValue(t *testing.T) {
	_, err := NewMessage("room-1", make(chan int))
	assert.Error(t, err)
}

func TestHeaders_SetSkipsEmpty(t *testing.T) {
	h := Headers{}
	h.Set(HeaderCorrelationID, "")
	h.Set(HeaderEventType, "booking.created")

	_, ok := h[HeaderCorrelationID]
	assert.False(t, ok)
	assert.Equal(t, "booking.created", h[HeaderEventType])
}

func TestMessage_WithAttemptCopiesHeaders(t *testing.T) {
	msg := NewRawMessage("room-1", []byte("{}"))
	assert.Zero(t, msg.Attempt())

	next := msg.withAttempt(2)

	assert.Equal(t, 2, next.Attempt())
	assert.Zero(t, msg.Attempt(), "original headers untouched")
	assert.Equal(t, msg.EventID(), next.EventID())
}

func TestMessage_RecordRoundTrip(t *testing.T) {
	msg := NewRawMessage("room-7", []byte(`{"room_id":"room-7"}`))
	msg.Headers.Set(HeaderEventType, "room.updated")

	back := fromRecord(msg.record())

	assert.Equal(t, msg.Key, back.Key)
	assert.Equal(t, msg.Headers, back.Headers)

	var out struct {
		RoomID string `json:"room_id"`
	}
	require.NoError(t, back.Decode(&out))
	assert.Equal(t, "room-7", out.RoomID)
}
