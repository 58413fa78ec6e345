package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"KidFlex/pkg/logger"
	"KidFlex/storage/database"
	"KidFlex/storage/mq"
	"KidFlex/storage/redis"
)

// Close shuts down storage backends in reverse init order.
func Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := mq.Close(ctx); err != nil {
		logger.Logger.Error("Failed to close RabbitMQ connection", zap.Error(err))
	}

	if err := redis.Close(ctx); err != nil {
		logger.Logger.Error("Failed to close Redis client", zap.Error(err))
	}

	if err := database.Close(ctx); err != nil {
		logger.Logger.Error("Failed to close database", zap.Error(err))
	}
}
