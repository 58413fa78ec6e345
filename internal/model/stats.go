package model

import "time"

// WeeklyStats is the per-week rollup used by the streak evaluator.
type WeeklyStats struct {
	ID          int64     `gorm:"primaryKey" json:"-"`
	WeekID      string    `gorm:"uniqueIndex;size:32;not null" json:"weekId"`
	WeekStart   time.Time `gorm:"index;not null" json:"weekStart"`
	TotalEarned int       `gorm:"not null;default:0" json:"totalEarned"`
	MaxedOut    bool      `gorm:"not null;default:false" json:"maxedOut"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (WeeklyStats) TableName() string {
	return "weekly_stats"
}
