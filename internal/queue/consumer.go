package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"KidFlex/internal/cache"
	"KidFlex/internal/service"
	"KidFlex/pkg/logger"
	"KidFlex/storage/mq"
)

const idempotencyTTL = 48 * time.Hour

// HandleWeekReset drops stale caches for the finished week and warms the
// new one. Redeliveries are deduplicated by message ID.
func HandleWeekReset(ctx context.Context, body []byte) error {
	var msg WeekResetMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		logger.Logger.Error("Discarding malformed week reset message", zap.Error(err))
		return nil
	}

	first, err := cache.MarkOnce(ctx, "week_reset", msg.MessageID, idempotencyTTL)
	if err != nil {
		return fmt.Errorf("failed to check idempotency mark: %w", err)
	}
	if !first {
		logger.Logger.Info("Skipping already processed week reset",
			zap.String("message_id", msg.MessageID),
		)
		return nil
	}

	if msg.PrevWeekID != "" {
		cache.InvalidateWeekLedger(ctx, msg.PrevWeekID)
	}

	// Warming the current view seeds the cache and creates nothing; the new
	// week materializes on its first award.
	current := service.FlexTime().Current(ctx)

	// Push the reset state to open watchers so their boards flip to the
	// new week's defaults.
	snapshot := service.Preference().Get(ctx)
	if err := cache.NewRedisPreferenceFeed().Publish(ctx, *snapshot); err != nil {
		logger.Logger.Warn("Failed to broadcast post-reset snapshot", zap.Error(err))
	}

	logger.Logger.Info("Week reset processed",
		zap.String("week_id", msg.WeekID),
		zap.String("prev_week_id", msg.PrevWeekID),
		zap.Int("opening_balance", current.Balance),
	)

	return nil
}

// HandleViewingWindowOpen records that the reward window opened. The streak
// is evaluated here so the result is logged once per window rather than per
// request.
func HandleViewingWindowOpen(ctx context.Context, body []byte) error {
	var msg ViewingWindowMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		logger.Logger.Error("Discarding malformed viewing window message", zap.Error(err))
		return nil
	}

	first, err := cache.MarkOnce(ctx, "window_open", msg.MessageID, idempotencyTTL)
	if err != nil {
		return fmt.Errorf("failed to check idempotency mark: %w", err)
	}
	if !first {
		return nil
	}

	streak := service.Streak().CheckStreak(ctx)
	winning := service.Preference().WinningDay(ctx)

	logger.Logger.Info("Viewing window opened",
		zap.String("week_id", msg.WeekID),
		zap.String("day", msg.Day),
		zap.String("winning_day", string(winning)),
		zap.Bool("has_streak", streak.HasStreak),
		zap.Int("streak_weeks", streak.StreakWeeks),
	)

	return nil
}

// StartAllConsumers blocks until ctx is cancelled, restarting consumers
// that die.
func StartAllConsumers(ctx context.Context) {
	if err := mq.DeclareTopology(ExchangeWeekEvents, EventTopology); err != nil {
		logger.Logger.Error("Failed to declare event topology", zap.Error(err))
	}
	if err := mq.DeclareDelayedTopology(ExchangeWeekDelayed, DelayedTopology); err != nil {
		logger.Logger.Error("Failed to declare delayed topology", zap.Error(err))
	}

	consumers := []mq.ConsumeOptions{
		{
			Queue:         QueueWeekReset,
			ConsumerTag:   "kidflex-week-reset",
			PrefetchCount: 1,
			Handler:       HandleWeekReset,
		},
		{
			Queue:         QueueViewingWindow,
			ConsumerTag:   "kidflex-viewing-window",
			PrefetchCount: 1,
			Handler:       HandleViewingWindowOpen,
		},
	}

	var wg sync.WaitGroup
	for _, opts := range consumers {
		wg.Add(1)
		go func(opts mq.ConsumeOptions) {
			defer wg.Done()
			for {
				err := mq.Consume(ctx, opts)
				if err == nil || errors.Is(err, context.Canceled) || ctx.Err() != nil {
					return
				}

				logger.Logger.Error("Consumer stopped, restarting",
					zap.String("queue", opts.Queue),
					zap.Error(err),
				)

				select {
				case <-ctx.Done():
					return
				case <-time.After(5 * time.Second):
				}
			}
		}(opts)
	}

	wg.Wait()
}
