package kafkaconfig

import "time"

const (
	OffsetNewest int64 = -1
	OffsetOldest int64 = -2
)

var DefaultBrokers = []string{"localhost:9092"}

const (
	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequiredAcks = -1
	DefaultProducerCompression  = "snappy"

	// The audit consumer replays the whole stream when it first joins.
	DefaultConsumerStartOffset    = OffsetOldest
	DefaultConsumerMinBytes       = 1
	DefaultConsumerMaxBytes       = 10 << 20
	DefaultConsumerMaxWait        = 500 * time.Millisecond
	DefaultConsumerCommitInterval = time.Second
	DefaultConsumerMaxRetries     = 3
	DefaultConsumerRetryBackoff   = 200 * time.Millisecond
)
