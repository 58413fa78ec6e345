package cache

import (
	"context"
	"time"

	"KidFlex/storage/redis"
)

// MarkOnce records that an event was handled. Returns true on first call
// for the key within ttl, false when the event was already processed.
func MarkOnce(ctx context.Context, eventKind, eventID string, ttl time.Duration) (bool, error) {
	key := redis.Key("processed", eventKind, eventID)
	return redis.Client().SetNX(ctx, key, time.Now().Unix(), ttl).Result()
}
