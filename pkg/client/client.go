package client

import (
	"context"
	"time"

	"salas/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	appName            = "salas"
	disconnectTimeout  = 10 * time.Second
	maxConnectAttempts = 3
)

// Client holds the external connections a process opens once at startup.
type Client struct {
	Mongo *mongo.Client
}

func NewClient() *Client {
	return &Client{}
}

// SetMongo connects and pings the primary, retrying a few times so a service
// started alongside its database does not crash-loop. It exits the process
// when the database stays unreachable.
func (c *Client) SetMongo(log *logger.Logger, mongoURI string, connTimeout time.Duration) {
	opts := options.Client().
		ApplyURI(mongoURI).
		SetAppName(appName).
		SetServerSelectionTimeout(connTimeout)

	var lastErr error
	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		client, err := connect(opts, connTimeout)
		if err == nil {
			log.Info("Connected to MongoDB", "attempt", attempt)
			c.Mongo = client
			return
		}
		lastErr = err
		log.Warn("MongoDB not reachable yet", "attempt", attempt, "error", err)
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	log.Fatal("Failed to connect to MongoDB", "attempts", maxConnectAttempts, "error", lastErr)
}

func connect(opts *options.ClientOptions, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

func (c *Client) GracefulShutdown(log *logger.Logger) {
	if c.Mongo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()

	if err := c.Mongo.Disconnect(ctx); err != nil {
		log.Error("Failed to disconnect from MongoDB", "error", err)
		return
	}
	c.Mongo = nil
	log.Info("Disconnected from MongoDB")
}
