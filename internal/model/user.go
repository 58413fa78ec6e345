package model

import "time"

// UserProfile is created the first time an identity is exchanged for tokens.
type UserProfile struct {
	ID        int64     `gorm:"primaryKey" json:"-"`
	UID       string    `gorm:"uniqueIndex;size:64;not null" json:"uid"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Name      string    `gorm:"size:128" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

func (UserProfile) TableName() string {
	return "users"
}
