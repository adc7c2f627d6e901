package kafka

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	HeaderEventID       = "event-id"
	HeaderEventType     = "event-type"
	HeaderCorrelationID = "correlation-id"
	HeaderSchemaVersion = "schema-version"
	HeaderSource        = "source"
	HeaderTimestamp     = "timestamp"
	HeaderAttempt       = "attempt"
	HeaderOriginalTopic = "original-topic"
	HeaderDeadLetterErr = "dlq-error"
	HeaderDeadLetterAt  = "dlq-timestamp"
)

type Headers map[string]string

// Set stores value under key; empty values are skipped.
func (h Headers) Set(key, value string) {
	if value != "" {
		h[key] = value
	}
}

// Message is a record on a reservation topic. Key is the room id, so every
// event of one room lands on the same partition and is consumed in order.
type Message struct {
	Key       string
	Value     []byte
	Headers   Headers
	Topic     string
	Partition int
	Offset    int64
	Time      time.Time
}

// NewMessage encodes value as JSON.
func NewMessage(key string, value any) (Message, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return Message{}, fmt.Errorf("failed to encode message value: %w", err)
	}
	return NewRawMessage(key, data), nil
}

// NewRawMessage stamps a fresh event id and timestamp on value.
func NewRawMessage(key string, value []byte) Message {
	now := time.Now().UTC()
	return Message{
		Key:   key,
		Value: value,
		Time:  now,
		Headers: Headers{
			HeaderEventID:   uuid.NewString(),
			HeaderTimestamp: now.Format(time.RFC3339),
		},
	}
}

func (m Message) Decode(v any) error {
	return json.Unmarshal(m.Value, v)
}

func (m Message) EventID() string       { return m.Headers[HeaderEventID] }
func (m Message) EventType() string     { return m.Headers[HeaderEventType] }
func (m Message) CorrelationID() string { return m.Headers[HeaderCorrelationID] }

// Attempt is the number of earlier failed deliveries of this message.
func (m Message) Attempt() int {
	n, _ := strconv.Atoi(m.Headers[HeaderAttempt])
	return n
}

func (m Message) withAttempt(n int) Message {
	headers := make(Headers, len(m.Headers)+1)
	for k, v := range m.Headers {
		headers[k] = v
	}
	headers[HeaderAttempt] = strconv.Itoa(n)
	m.Headers = headers
	return m
}

func (m Message) record() kafka.Message {
	headers := make([]kafka.Header, 0, len(m.Headers))
	for k, v := range m.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return kafka.Message{
		Key:     []byte(m.Key),
		Value:   m.Value,
		Time:    m.Time,
		Headers: headers,
	}
}

func fromRecord(r kafka.Message) Message {
	headers := make(Headers, len(r.Headers))
	for _, h := range r.Headers {
		headers[h.Key] = string(h.Value)
	}
	return Message{
		Key:       string(r.Key),
		Value:     r.Value,
		Headers:   headers,
		Topic:     r.Topic,
		Partition: r.Partition,
		Offset:    r.Offset,
		Time:      r.Time,
	}
}
