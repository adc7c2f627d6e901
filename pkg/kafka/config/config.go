package kafkaconfig

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

var compressions = []string{"none", "gzip", "snappy", "lz4", "zstd"}

type ProducerConfig struct {
	MaxAttempts  int
	BatchTimeout time.Duration
	// RequiredAcks is -1 for all in-sync replicas, 1 for the leader, 0 for none.
	RequiredAcks int
	Compression  string
}

type ConsumerConfig struct {
	StartOffset    int64
	MinBytes       int
	MaxBytes       int
	MaxWait        time.Duration
	CommitInterval time.Duration
	MaxRetries     int
	// RetryBackoff is the first pause between handler retries; it doubles per attempt.
	RetryBackoff time.Duration
}

type Config struct {
	Brokers  []string
	Producer ProducerConfig
	Consumer ConsumerConfig
}

// Load reads the Kafka settings from the environment. The result is not
// validated; callers run Validate alongside the rest of their configuration.
func Load() *Config {
	return &Config{
		Brokers: brokersFromEnv(),
		Producer: ProducerConfig{
			MaxAttempts:  envInt(EnvProducerMaxAttempts, DefaultProducerMaxAttempts),
			BatchTimeout: envDuration(EnvProducerBatchTimeout, DefaultProducerBatchTimeout),
			RequiredAcks: envInt(EnvProducerRequiredAcks, DefaultProducerRequiredAcks),
			Compression:  strings.ToLower(envStr(EnvProducerCompression, DefaultProducerCompression)),
		},
		Consumer: ConsumerConfig{
			StartOffset:    int64(envInt(EnvConsumerStartOffset, int(DefaultConsumerStartOffset))),
			MinBytes:       envInt(EnvConsumerMinBytes, DefaultConsumerMinBytes),
			MaxBytes:       envInt(EnvConsumerMaxBytes, DefaultConsumerMaxBytes),
			MaxWait:        envDuration(EnvConsumerMaxWait, DefaultConsumerMaxWait),
			CommitInterval: envDuration(EnvConsumerCommitInterval, DefaultConsumerCommitInterval),
			MaxRetries:     envInt(EnvConsumerMaxRetries, DefaultConsumerMaxRetries),
			RetryBackoff:   envDuration(EnvConsumerRetryBackoff, DefaultConsumerRetryBackoff),
		},
	}
}

func (cfg *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(len(cfg.Brokers) > 0, "at least one Kafka broker is required")
	for i, b := range cfg.Brokers {
		check(b != "", "Kafka broker %d is empty", i)
	}

	p := cfg.Producer
	check(p.MaxAttempts > 0, "Kafka producer MaxAttempts must be positive, got: %d", p.MaxAttempts)
	check(p.BatchTimeout > 0, "Kafka producer BatchTimeout must be positive, got: %s", p.BatchTimeout)
	check(p.RequiredAcks >= -1 && p.RequiredAcks <= 1, "Kafka producer RequiredAcks must be -1, 0 or 1, got: %d", p.RequiredAcks)
	check(slices.Contains(compressions, p.Compression), "Kafka producer Compression must be one of %v, got: %s", compressions, p.Compression)

	c := cfg.Consumer
	check(c.StartOffset == OffsetNewest || c.StartOffset == OffsetOldest, "Kafka consumer StartOffset must be -1 (newest) or -2 (oldest), got: %d", c.StartOffset)
	check(c.MinBytes > 0, "Kafka consumer MinBytes must be positive, got: %d", c.MinBytes)
	check(c.MaxBytes >= c.MinBytes, "Kafka consumer MaxBytes (%d) must be >= MinBytes (%d)", c.MaxBytes, c.MinBytes)
	check(c.MaxWait > 0, "Kafka consumer MaxWait must be positive, got: %s", c.MaxWait)
	check(c.CommitInterval > 0, "Kafka consumer CommitInterval must be positive, got: %s", c.CommitInterval)
	check(c.MaxRetries >= 0, "Kafka consumer MaxRetries cannot be negative, got: %d", c.MaxRetries)
	check(c.RetryBackoff >= 0, "Kafka consumer RetryBackoff cannot be negative, got: %s", c.RetryBackoff)

	return errors.Join(errs...)
}

// Attrs returns the settings as slog key/value pairs.
func (cfg *Config) Attrs() []any {
	return []any{
		"kafka_brokers", cfg.Brokers,
		"kafka_producer_max_attempts", cfg.Producer.MaxAttempts,
		"kafka_producer_required_acks", cfg.Producer.RequiredAcks,
		"kafka_producer_compression", cfg.Producer.Compression,
		"kafka_consumer_start_offset", cfg.Consumer.StartOffset,
		"kafka_consumer_max_retries", cfg.Consumer.MaxRetries,
		"kafka_consumer_retry_backoff", cfg.Consumer.RetryBackoff,
	}
}

func brokersFromEnv() []string {
	raw := os.Getenv(EnvBrokers)
	if raw == "" {
		return slices.Clone(DefaultBrokers)
	}
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		brokers = append(brokers, strings.TrimSpace(b))
	}
	return brokers
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}
