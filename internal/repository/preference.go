package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"KidFlex/internal/model"
)

// PreferenceRepository persists per-week weekend day votes.
type PreferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Get loads the week's voting document. Returns (nil, nil) when nobody has
// voted this week.
func (r *PreferenceRepository) Get(ctx context.Context, weekID string) (*model.DayPreferenceSet, error) {
	var set model.DayPreferenceSet
	err := r.db.WithContext(ctx).
		Where("week_id = ?", weekID).
		First(&set).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &set, nil
}

// Set records one participant's vote, preserving every other participant's
// entry. The row is locked so concurrent votes merge instead of clobbering.
func (r *PreferenceRepository) Set(ctx context.Context, weekID, participant string, day model.Day) (*model.DayPreferenceSet, error) {
	var result model.DayPreferenceSet

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var set model.DayPreferenceSet
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("week_id = ?", weekID).
			First(&set).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			set = model.DayPreferenceSet{
				WeekID:      weekID,
				Preferences: model.PreferenceMap{},
			}
			if err := tx.Create(&set).Error; err != nil {
				return err
			}
			err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("week_id = ?", weekID).
				First(&set).Error
		}
		if err != nil {
			return err
		}

		if set.Preferences == nil {
			set.Preferences = model.PreferenceMap{}
		}
		set.Preferences[participant] = day

		if err := tx.Model(&model.DayPreferenceSet{}).
			Where("week_id = ?", weekID).
			Update("preferences", set.Preferences).Error; err != nil {
			return err
		}

		result = set
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}
