package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"KidFlex/internal/model"
	"KidFlex/pkg/logger"
	"KidFlex/storage/redis"
)

// GetWeekLedger returns the cached ledger for a week, or (nil, nil) on a
// cache miss.
func GetWeekLedger(ctx context.Context, weekID string) (*model.WeeklyFlexTime, error) {
	key := redis.Key("flextime", "week", weekID)

	data, err := redis.Client().Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var week model.WeeklyFlexTime
	if err := json.Unmarshal(data, &week); err != nil {
		// Corrupt cache entries are dropped rather than surfaced.
		logger.Logger.Warn("Dropping undecodable ledger cache entry",
			zap.String("week_id", weekID),
			zap.Error(err),
		)
		redis.Client().Del(ctx, key)
		return nil, nil
	}

	return &week, nil
}

// SetWeekLedger caches a week's ledger until the week rolls over.
func SetWeekLedger(ctx context.Context, week *model.WeeklyFlexTime, weekEnd time.Time) error {
	ttl := time.Until(weekEnd)
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(week)
	if err != nil {
		return err
	}

	key := redis.Key("flextime", "week", week.WeekID)
	return redis.Client().Set(ctx, key, data, ttl).Err()
}

// InvalidateWeekLedger drops the cached ledger after a write.
func InvalidateWeekLedger(ctx context.Context, weekID string) {
	key := redis.Key("flextime", "week", weekID)
	if err := redis.Client().Del(ctx, key).Err(); err != nil {
		logger.Logger.Warn("Failed to invalidate ledger cache",
			zap.String("week_id", weekID),
			zap.Error(err),
		)
	}
}
