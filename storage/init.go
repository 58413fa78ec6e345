package storage

import (
	"fmt"

	"KidFlex/storage/database"
	"KidFlex/storage/mq"
	"KidFlex/storage/redis"
)

// Init brings up all storage backends in dependency order.
func Init() error {
	if err := database.Init(); err != nil {
		return fmt.Errorf("failed to init database: %w", err)
	}

	if err := redis.Init(); err != nil {
		return fmt.Errorf("failed to init redis: %w", err)
	}

	if err := mq.Init(); err != nil {
		return fmt.Errorf("failed to init rabbitmq: %w", err)
	}

	return nil
}
