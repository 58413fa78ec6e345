package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"KidFlex/internal/model"
	"KidFlex/pkg/logger"
)

// Migrate runs the schema migration for all persisted collections.
func Migrate() error {
	db := DB()
	if db == nil {
		return gorm.ErrInvalidDB
	}

	logger.Logger.Info("Starting database migration...")

	err := db.AutoMigrate(
		&model.UserProfile{},
		&model.WeeklyFlexTime{},
		&model.WeeklyStats{},
		&model.DayPreferenceSet{},
	)

	if err != nil {
		logger.Logger.Error("Database migration failed", zap.Error(err))
		return err
	}

	logger.Logger.Info("Database migration completed successfully")
	return nil
}
