package kafka

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	kafkaconfig "salas/pkg/kafka/config"
	"salas/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
)

const fetchErrorPause = time.Second

// Consumer reads a topic as part of a consumer group. Each message is handled
// until it succeeds, fails permanently or runs out of retries; then its offset
// is committed, so one bad message never blocks its partition.
type Consumer struct {
	reader     *kafka.Reader
	dlq        *deadLetter
	topic      string
	groupID    string
	maxRetries int
	backoff    time.Duration
	handler    Handler
	log        *logger.Logger

	mu      sync.RWMutex
	mws     []Middleware
	closed  bool
	running sync.WaitGroup
}

func NewConsumer(cfg *kafkaconfig.Config, topic, groupID, dlqTopic string, handler Handler, log *logger.Logger) (*Consumer, error) {
	switch {
	case cfg == nil:
		return nil, errors.New("kafka consumer: config is required")
	case len(cfg.Brokers) == 0:
		return nil, errors.New("kafka consumer: at least one broker is required")
	case topic == "":
		return nil, errors.New("kafka consumer: topic is required")
	case groupID == "":
		return nil, errors.New("kafka consumer: group id is required")
	case handler == nil:
		return nil, errors.New("kafka consumer: handler is required")
	}
	if log == nil {
		log = logger.Discard()
	}

	cc := cfg.Consumer
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        cfg.Brokers,
			Topic:          topic,
			GroupID:        groupID,
			MinBytes:       cc.MinBytes,
			MaxBytes:       cc.MaxBytes,
			MaxWait:        cc.MaxWait,
			CommitInterval: cc.CommitInterval,
			StartOffset:    cc.StartOffset,
			Logger:         kafka.LoggerFunc(func(string, ...any) {}),
			ErrorLogger:    clientErrorLogger(log),
		}),
		dlq:        newDeadLetter(cfg.Brokers, dlqTopic, compress.Snappy, log),
		topic:      topic,
		groupID:    groupID,
		maxRetries: cc.MaxRetries,
		backoff:    cc.RetryBackoff,
		handler:    handler,
		log:        log,
	}, nil
}

// Use appends middleware; the first added runs outermost.
func (c *Consumer) Use(mws ...Middleware) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mws = append(c.mws, mws...)
}

// Run consumes until ctx is done and returns ctx's error.
func (c *Consumer) Run(ctx context.Context) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return ErrClosed
	}
	c.running.Add(1)
	h := chain(c.handler, c.mws)
	c.mu.RUnlock()
	defer c.running.Done()

	for {
		record, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Error("Failed to fetch message", "topic", c.topic, "error", err)
			if !sleep(ctx, fetchErrorPause) {
				return ctx.Err()
			}
			continue
		}

		msg := fromRecord(record)
		if err := c.handle(ctx, h, msg); err != nil {
			c.log.Warn("Gave up on message",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"event_id", msg.EventID(),
				"error", err,
			)
		}

		if err := c.reader.CommitMessages(ctx, record); err != nil && ctx.Err() == nil {
			c.log.Error("Failed to commit offset", "partition", record.Partition, "offset", record.Offset, "error", err)
		}
	}
}

// handle runs h with exponential backoff between retryable failures. A
// message that still fails is parked on the dead-letter topic.
func (c *Consumer) handle(ctx context.Context, h Handler, msg Message) error {
	var err error
	for attempt := msg.Attempt(); ; attempt++ {
		if err = h(ctx, msg); err == nil {
			return nil
		}
		if !Retryable(err) || attempt >= c.maxRetries {
			break
		}
		c.log.Debug("Retrying message", "event_id", msg.EventID(), "attempt", attempt+1, "error", err)
		if !sleep(ctx, c.backoff<<attempt) {
			return ctx.Err()
		}
		msg = msg.withAttempt(attempt + 1)
	}

	if c.dlq == nil {
		return err
	}
	if dlqErr := c.dlq.send(ctx, msg, c.topic, err,
		"dlq-consumer-group", c.groupID,
		"dlq-attempts", strconv.Itoa(msg.Attempt()+1),
	); dlqErr != nil {
		c.log.Error("Failed to park message on dead-letter topic", "event_id", msg.EventID(), "error", dlqErr)
	}
	return err
}

func (c *Consumer) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.running.Wait()
	return errors.Join(c.reader.Close(), c.dlq.close())
}

func (c *Consumer) Stats() kafka.ReaderStats {
	return c.reader.Stats()
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
