package service

import (
	"context"
	"time"

	"KidFlex/internal/cache"
	"KidFlex/internal/model"
)

// redisWeekCache adapts the Redis ledger cache to the WeekCache interface.
type redisWeekCache struct{}

func (redisWeekCache) Get(ctx context.Context, weekID string) (*model.WeeklyFlexTime, error) {
	return cache.GetWeekLedger(ctx, weekID)
}

func (redisWeekCache) Set(ctx context.Context, week *model.WeeklyFlexTime, weekEnd time.Time) error {
	return cache.SetWeekLedger(ctx, week, weekEnd)
}

func (redisWeekCache) Invalidate(ctx context.Context, weekID string) {
	cache.InvalidateWeekLedger(ctx, weekID)
}
