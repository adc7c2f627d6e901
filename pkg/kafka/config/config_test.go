package kafkaconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvBrokers, "")

	cfg := Load()

	assert.Equal(t, DefaultBrokers, cfg.Brokers)
	assert.Equal(t, OffsetOldest, cfg.Consumer.StartOffset)
	assert.Equal(t, "snappy", cfg.Producer.Compression)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv(EnvBrokers, "kafka-1:9092, kafka-2:9092")
	t.Setenv(EnvProducerCompression, "ZSTD")
	t.Setenv(EnvConsumerRetryBackoff, "1s")
	t.Setenv(EnvConsumerMaxRetries, "not-a-number")

	cfg := Load()

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
	assert.Equal(t, "zstd", cfg.Producer.Compression)
	assert.Equal(t, time.Second, cfg.Consumer.RetryBackoff)
	assert.Equal(t, DefaultConsumerMaxRetries, cfg.Consumer.MaxRetries)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Load()
	cfg.Brokers = []string{""}
	cfg.Producer.Compression = "brotli"
	cfg.Consumer.StartOffset = 42

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker 0 is empty")
	assert.Contains(t, err.Error(), "brotli")
	assert.Contains(t, err.Error(), "StartOffset")
}
