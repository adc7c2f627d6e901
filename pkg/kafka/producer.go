package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"

	kafkaconfig "salas/pkg/kafka/config"
	"salas/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
)

// Producer writes reservation events to one topic. Messages the broker
// refuses are copied to the dead-letter topic when one is configured; the
// publish still reports the failure.
type Producer struct {
	writer *kafka.Writer
	dlq    *deadLetter
	topic  string
	log    *logger.Logger

	mu     sync.RWMutex
	mws    []Middleware
	closed bool
}

func NewProducer(cfg *kafkaconfig.Config, topic, dlqTopic string, log *logger.Logger) (*Producer, error) {
	switch {
	case cfg == nil:
		return nil, errors.New("kafka producer: config is required")
	case len(cfg.Brokers) == 0:
		return nil, errors.New("kafka producer: at least one broker is required")
	case topic == "":
		return nil, errors.New("kafka producer: topic is required")
	}
	if log == nil {
		log = logger.Discard()
	}

	codec := compressionCodec(cfg.Producer.Compression)
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: requiredAcks(cfg.Producer.RequiredAcks),
			Compression:  codec,
			MaxAttempts:  cfg.Producer.MaxAttempts,
			BatchTimeout: cfg.Producer.BatchTimeout,
			Logger:       kafka.LoggerFunc(func(string, ...any) {}),
			ErrorLogger:  clientErrorLogger(log),
		},
		dlq:   newDeadLetter(cfg.Brokers, dlqTopic, codec, log),
		topic: topic,
		log:   log,
	}, nil
}

// Use appends middleware; the first added runs outermost.
func (p *Producer) Use(mws ...Middleware) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mws = append(p.mws, mws...)
}

func (p *Producer) Publish(ctx context.Context, msg Message) error {
	p.mu.RLock()
	closed, mws := p.closed, p.mws
	p.mu.RUnlock()

	switch {
	case closed:
		return ErrClosed
	case msg.Key == "":
		return ErrEmptyKey
	case len(msg.Value) == 0:
		return ErrEmptyValue
	}
	if msg.Topic == "" {
		msg.Topic = p.topic
	}

	return chain(p.write, mws)(ctx, msg)
}

func (p *Producer) write(ctx context.Context, msg Message) error {
	err := p.writer.WriteMessages(ctx, msg.record())
	if err == nil || p.dlq == nil {
		return err
	}
	if dlqErr := p.dlq.send(ctx, msg, p.topic, err); dlqErr != nil {
		return fmt.Errorf("publish failed and dead-letter write failed (%v): %w", dlqErr, err)
	}
	p.log.Warn("Unpublished event parked on dead-letter topic", "event_id", msg.EventID(), "key", msg.Key, "error", err)
	return err
}

func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return errors.Join(p.writer.Close(), p.dlq.close())
}

func (p *Producer) Stats() kafka.WriterStats {
	return p.writer.Stats()
}

func requiredAcks(n int) kafka.RequiredAcks {
	switch n {
	case 0:
		return kafka.RequireNone
	case 1:
		return kafka.RequireOne
	default:
		return kafka.RequireAll
	}
}

func compressionCodec(name string) compress.Compression {
	switch name {
	case "none":
		return compress.None
	case "gzip":
		return compress.Gzip
	case "lz4":
		return compress.Lz4
	case "zstd":
		return compress.Zstd
	default:
		return compress.Snappy
	}
}

func clientErrorLogger(log *logger.Logger) kafka.Logger {
	return kafka.LoggerFunc(func(format string, args ...any) {
		log.Error("Kafka client error", "detail", fmt.Sprintf(format, args...))
	})
}
