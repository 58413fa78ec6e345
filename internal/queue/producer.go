package queue

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"KidFlex/pkg/logger"
	"KidFlex/pkg/snowflake"
	"KidFlex/storage/mq"
)

// PublishWeekReset publishes the week rollover event.
func PublishWeekReset(msg WeekResetMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("wk_reset_%d", id)
	}

	if err := mq.PublishMessage(ExchangeWeekEvents, RoutingKeyWeekReset, msg); err != nil {
		logger.Logger.Error("Failed to publish week reset message",
			zap.String("week_id", msg.WeekID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published week reset message",
		zap.String("message_id", msg.MessageID),
		zap.String("week_id", msg.WeekID),
		zap.String("prev_week_id", msg.PrevWeekID),
	)

	return nil
}

// PublishViewingWindowOpen schedules the window opening announcement. The
// message sits in the delayed exchange for the given delay, so it reaches
// the worker when the window actually opens.
func PublishViewingWindowOpen(msg ViewingWindowMessage, delay time.Duration) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("wk_window_%d", id)
	}
	if delay < 0 {
		delay = 0
	}

	if err := mq.PublishDelayedMessage(ExchangeWeekDelayed, RoutingKeyWindowOpen, delay, msg); err != nil {
		logger.Logger.Error("Failed to publish viewing window message",
			zap.String("week_id", msg.WeekID),
			zap.String("day", msg.Day),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Scheduled viewing window message",
		zap.String("message_id", msg.MessageID),
		zap.String("week_id", msg.WeekID),
		zap.String("day", msg.Day),
		zap.Duration("delay", delay),
	)

	return nil
}
