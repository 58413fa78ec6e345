package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"KidFlex/config"
	"KidFlex/internal/model/dto"
	"KidFlex/internal/repository"
	"KidFlex/internal/weekclock"
	"KidFlex/pkg/logger"
	"KidFlex/storage/database"
)

// StreakService evaluates consecutive maxed-out weeks from the stats
// rollups.
type StreakService struct {
	store          FlexStore
	now            func() time.Time
	anchor         time.Weekday
	weeksForStreak int
}

func NewStreakService(store FlexStore, now func() time.Time, anchor time.Weekday, weeksForStreak int) *StreakService {
	if now == nil {
		now = time.Now
	}
	return &StreakService{
		store:          store,
		now:            now,
		anchor:         anchor,
		weeksForStreak: weeksForStreak,
	}
}

var (
	streakOnce sync.Once
	streakSvc  *StreakService
)

func Streak() *StreakService {
	streakOnce.Do(func() {
		cfg := config.Cfg
		streakSvc = NewStreakService(
			repository.NewFlexTimeRepository(database.DB()),
			time.Now,
			cfg.AnchorWeekday(),
			cfg.WeeksForStreak,
		)
	})
	return streakSvc
}

// CheckStreak walks recent weekly rollups, newest first. The current week
// is skipped while it is still in progress and not yet maxed, then maxed
// weeks are counted until the first miss. Storage failures degrade to no
// streak.
func (s *StreakService) CheckStreak(ctx context.Context) *dto.StreakResponse {
	resp := &dto.StreakResponse{WeeksNeeded: s.weeksForStreak}

	stats, err := s.store.RecentStats(ctx, s.weeksForStreak+1)
	if err != nil {
		logger.Logger.Error("Failed to load weekly stats for streak check", zap.Error(err))
		return resp
	}

	currentWeekID := weekclock.WeekID(s.now(), s.anchor)
	count := 0
	for _, week := range stats {
		if week.WeekID == currentWeekID && !week.MaxedOut {
			continue
		}
		if !week.MaxedOut {
			break
		}
		count++
	}

	resp.StreakWeeks = count
	resp.HasStreak = count >= s.weeksForStreak
	return resp
}
