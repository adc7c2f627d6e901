package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"salas/pkg/client"
	kafkaconfig "salas/pkg/kafka/config"
	"salas/pkg/logger"
)

var (
	mongoSchemeRegex      = regexp.MustCompile(`^mongodb(\+srv)?://`)
	mongoCredentialsRegex = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
)

// Config is the process-wide configuration, read once from the environment.
// It also carries the logger and the shared external clients.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	StorageBackend string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	RoomLockTTL           time.Duration
	RoomLockRetryInterval time.Duration

	EventsEnabled  bool
	EventsTopic    string
	EventsDLQTopic string
	EventsGroupID  string
	Kafka          *kafkaconfig.Config

	Log    *logger.Logger
	Client *client.Client
}

// Load reads the configuration for serviceName and exits the process when it
// is invalid. Unparsable values fall back to their defaults.
func Load(serviceName string) *Config {
	cfg := &Config{
		Port:      envStr(EnvPort, DefaultPort),
		LogLevel:  envStr(EnvLogLevel, DefaultLogLevel),
		LogFormat: envStr(EnvLogFormat, DefaultLogFormat),

		StorageBackend: envStr(EnvStorageBackend, DefaultStorageBackend),

		MongoURI:          envStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: envStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  envDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		RateLimitRequests: envInt(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   envDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: envDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: envDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: envInt(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     envDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    envDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     envDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: envDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		RoomLockTTL:           envDuration(EnvRoomLockTTL, DefaultRoomLockTTL),
		RoomLockRetryInterval: envDuration(EnvRoomLockRetryInterval, DefaultRoomLockRetryInterval),

		EventsEnabled:  envBool(EnvEventsEnabled, DefaultEventsEnabled),
		EventsTopic:    envStr(EnvEventsTopic, DefaultEventsTopic),
		EventsDLQTopic: envStr(EnvEventsDLQTopic, DefaultEventsDLQTopic),
		EventsGroupID:  envStr(EnvEventsGroupID, DefaultEventsGroupID),

		Client: client.NewClient(),
	}
	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: true,
		Service:   serviceName,
	})
	if cfg.EventsEnabled {
		cfg.Kafka = kafkaconfig.Load()
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) UsesMongo() bool {
	return cfg.StorageBackend == StorageMongo
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// Validate reports every invalid setting at once.
func (cfg *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	port, err := strconv.Atoi(cfg.Port)
	check(err == nil && port >= 1 && port <= 65535, "Port must be between 1 and 65535, got: %s", cfg.Port)
	check(cfg.StorageBackend == StorageMemory || cfg.StorageBackend == StorageMongo,
		"StorageBackend must be one of [%s, %s], got: %s", StorageMemory, StorageMongo, cfg.StorageBackend)

	if cfg.UsesMongo() {
		check(mongoSchemeRegex.MatchString(cfg.MongoURI),
			"MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %q", redactMongoURI(cfg.MongoURI))
		check(cfg.MongoDatabaseName != "", "MongoDatabaseName cannot be empty")
		check(cfg.MongoConnTimeout > 0, "MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout)
	}

	for name, d := range map[string]time.Duration{
		"RateLimitWindow":       cfg.RateLimitWindow,
		"RequestTimeout":        cfg.RequestTimeout,
		"IdempotencyTTL":        cfg.IdempotencyTTL,
		"ReadTimeout":           cfg.ReadTimeout,
		"WriteTimeout":          cfg.WriteTimeout,
		"IdleTimeout":           cfg.IdleTimeout,
		"ShutdownTimeout":       cfg.ShutdownTimeout,
		"RoomLockTTL":           cfg.RoomLockTTL,
		"RoomLockRetryInterval": cfg.RoomLockRetryInterval,
	} {
		check(d > 0, "%s must be positive, got: %s", name, d)
	}
	check(cfg.RateLimitRequests > 0, "RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests)
	check(cfg.MaxRequestSize > 0, "MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize)

	if cfg.EventsEnabled {
		check(cfg.EventsTopic != "", "EventsTopic cannot be empty when events are enabled")
		if cfg.Kafka != nil {
			if err := cfg.Kafka.Validate(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

func (cfg *Config) LogConfiguration() {
	attrs := []any{
		"port", cfg.Port,
		"log_level", cfg.LogLevel,
		"storage_backend", cfg.StorageBackend,
		"rate_limit", fmt.Sprintf("%d/%s", cfg.RateLimitRequests, cfg.RateLimitWindow),
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"events_enabled", cfg.EventsEnabled,
	}
	if cfg.UsesMongo() {
		attrs = append(attrs,
			"mongo_uri", redactMongoURI(cfg.MongoURI),
			"mongo_database", cfg.MongoDatabaseName,
			"room_lock_ttl", cfg.RoomLockTTL,
			"room_lock_retry_interval", cfg.RoomLockRetryInterval,
		)
	}
	if cfg.EventsEnabled {
		attrs = append(attrs, "events_topic", cfg.EventsTopic, "events_dlq_topic", cfg.EventsDLQTopic)
	}
	if cfg.Kafka != nil {
		attrs = append(attrs, cfg.Kafka.Attrs()...)
	}
	cfg.Log.Info("Configuration loaded", attrs...)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func redactMongoURI(uri string) string {
	return mongoCredentialsRegex.ReplaceAllString(uri, "${1}***:***@")
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

func envBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}

// NormalizePaginationLimit clamps a requested page size: non-positive means
// the default of 10, anything above DefaultPaginationLimit is capped.
func NormalizePaginationLimit(limit int) int {
	switch {
	case limit <= 0:
		return 10
	case limit > DefaultPaginationLimit:
		return DefaultPaginationLimit
	default:
		return limit
	}
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
