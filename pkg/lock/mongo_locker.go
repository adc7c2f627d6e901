package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"salas/pkg/logger"
	"salas/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "Room_locks"

// MongoLocker serializes room writers across service instances using advisory
// lock documents keyed by room id. A document left behind by a crashed holder
// is taken over once it expires; the TTL index removes it eventually as well.
type MongoLocker struct {
	collection    *mongo.Collection
	ttl           time.Duration
	retryInterval time.Duration
	log           *logger.Logger
}

func NewMongoLocker(db *mongo.Database, ttl, retryInterval time.Duration, log *logger.Logger) *MongoLocker {
	return &MongoLocker{
		collection:    db.Collection(CollectionName),
		ttl:           ttl,
		retryInterval: retryInterval,
		log:           log,
	}
}

func (l *MongoLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = normalize(keys)
	owner := uuid.NewString()
	acquired := make([]string, 0, len(keys))

	for _, key := range keys {
		if err := l.acquire(ctx, key, owner); err != nil {
			l.releaseAll(acquired, owner)
			return nil, err
		}
		acquired = append(acquired, key)
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.releaseAll(acquired, owner) })
	}, nil
}

func (l *MongoLocker) acquire(ctx context.Context, key, owner string) error {
	for {
		now := time.Now().UTC()
		_, err := l.collection.InsertOne(ctx, &model.RoomLock{
			ID:        key,
			Owner:     owner,
			ExpiresAt: now.Add(l.ttl),
			CreatedAt: now,
		})
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to acquire room lock %s: %w", key, err)
		}

		if _, err := l.collection.DeleteOne(ctx, bson.M{
			"_id":        key,
			"expires_at": bson.M{"$lt": now},
		}); err != nil {
			return fmt.Errorf("failed to clear expired room lock %s: %w", key, err)
		}

		timer := time.NewTimer(l.retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *MongoLocker) releaseAll(keys []string, owner string) {
	// Release must survive a cancelled request context.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, key := range keys {
		if _, err := l.collection.DeleteOne(ctx, bson.M{"_id": key, "owner": owner}); err != nil {
			l.log.Warn("Failed to release room lock", "lock_id", key, "error", err)
		}
	}
}
