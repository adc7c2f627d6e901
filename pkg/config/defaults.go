package config

import "time"

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

const (
	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultStorageBackend = StorageMemory

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "salas"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRateLimitRequests = 120
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultRoomLockTTL           = 10 * time.Second
	DefaultRoomLockRetryInterval = 25 * time.Millisecond

	DefaultEventsEnabled  = false
	DefaultEventsTopic    = "salas.reservations"
	DefaultEventsDLQTopic = "dlq-salas-reservations"
	DefaultEventsGroupID  = "salas-audit"

	DefaultPaginationLimit = 100
)
