package service

import (
	"context"
	"time"

	"KidFlex/internal/model"
	"KidFlex/internal/model/dto"
)

// FlexStore is the persistence surface the flex-time and streak services
// depend on. Implementations are injected so the services can be exercised
// against in-memory stores.
type FlexStore interface {
	GetWeek(ctx context.Context, weekID string) (*model.WeeklyFlexTime, error)
	MutateWeek(ctx context.Context, weekID string, weekStart time.Time, fn func(week *model.WeeklyFlexTime) (*model.WeeklyStats, error)) error
	RecentStats(ctx context.Context, limit int) ([]model.WeeklyStats, error)
}

// PreferenceStore persists the weekly weekend-day votes.
type PreferenceStore interface {
	Get(ctx context.Context, weekID string) (*model.DayPreferenceSet, error)
	Set(ctx context.Context, weekID, participant string, day model.Day) (*model.DayPreferenceSet, error)
}

// UserStore persists sign-in profiles.
type UserStore interface {
	GetByUID(ctx context.Context, uid string) (*model.UserProfile, error)
	Upsert(ctx context.Context, user *model.UserProfile) error
}

// PreferenceFeed broadcasts voting snapshots to watchers.
type PreferenceFeed interface {
	Publish(ctx context.Context, snapshot dto.PreferenceSnapshot) error
	Subscribe(ctx context.Context) (<-chan dto.PreferenceSnapshot, func(), error)
}

// WeekCache is an optional read-through cache for the current week's ledger.
type WeekCache interface {
	Get(ctx context.Context, weekID string) (*model.WeeklyFlexTime, error)
	Set(ctx context.Context, week *model.WeeklyFlexTime, weekEnd time.Time) error
	Invalidate(ctx context.Context, weekID string)
}
