package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"KidFlex/internal/model"
)

// UserRepository persists profiles created on first sign-in.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByUID(ctx context.Context, uid string) (*model.UserProfile, error) {
	var user model.UserProfile
	err := r.db.WithContext(ctx).
		Where("uid = ?", uid).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Upsert creates the profile on first sign-in and refreshes email and name
// on later ones. CreatedAt is never overwritten.
func (r *UserRepository) Upsert(ctx context.Context, user *model.UserProfile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "updated_at"}),
	}).Create(user).Error
}
