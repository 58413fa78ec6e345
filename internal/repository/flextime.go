package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"KidFlex/internal/model"
)

// FlexTimeRepository persists weekly ledgers and their stats rollups.
type FlexTimeRepository struct {
	db *gorm.DB
}

func NewFlexTimeRepository(db *gorm.DB) *FlexTimeRepository {
	return &FlexTimeRepository{db: db}
}

// GetWeek loads one week's ledger. Returns (nil, nil) when the week has no
// document yet.
func (r *FlexTimeRepository) GetWeek(ctx context.Context, weekID string) (*model.WeeklyFlexTime, error) {
	var week model.WeeklyFlexTime
	err := r.db.WithContext(ctx).
		Where("week_id = ?", weekID).
		First(&week).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &week, nil
}

// MutateWeek runs fn against the week's ledger inside a transaction with the
// row locked, creating a zero-balance ledger first if the week has none.
// When fn returns a stats rollup it is merge-upserted in the same
// transaction, so concurrent awards serialize instead of overwriting each
// other.
func (r *FlexTimeRepository) MutateWeek(
	ctx context.Context,
	weekID string,
	weekStart time.Time,
	fn func(week *model.WeeklyFlexTime) (*model.WeeklyStats, error),
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var week model.WeeklyFlexTime
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("week_id = ?", weekID).
			First(&week).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			week = model.WeeklyFlexTime{
				WeekID:    weekID,
				WeekStart: weekStart,
				Balance:   0,
				Entries:   model.FlexEntries{},
			}
			if err := tx.Create(&week).Error; err != nil {
				return err
			}
			err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("week_id = ?", weekID).
				First(&week).Error
		}
		if err != nil {
			return err
		}

		stats, err := fn(&week)
		if err != nil {
			return err
		}

		if err := tx.Model(&model.WeeklyFlexTime{}).
			Where("week_id = ?", weekID).
			Updates(map[string]interface{}{
				"balance": week.Balance,
				"entries": week.Entries,
			}).Error; err != nil {
			return err
		}

		if stats != nil {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "week_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"total_earned", "maxed_out", "updated_at"}),
			}).Create(stats).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// RecentStats returns up to limit weekly rollups, newest week first.
func (r *FlexTimeRepository) RecentStats(ctx context.Context, limit int) ([]model.WeeklyStats, error) {
	var stats []model.WeeklyStats
	err := r.db.WithContext(ctx).
		Order("week_start DESC").
		Limit(limit).
		Find(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
