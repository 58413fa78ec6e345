package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"KidFlex/config"
	"KidFlex/internal/model"
	"KidFlex/internal/model/dto"
	"KidFlex/internal/repository"
	"KidFlex/internal/weekclock"
	pkgerrors "KidFlex/pkg/errors"
	"KidFlex/pkg/logger"
	"KidFlex/pkg/snowflake"
	"KidFlex/storage/database"
	"KidFlex/utils"
)

// IDGenerator mints ledger entry identifiers.
type IDGenerator func() (string, error)

// FlexTimeService owns the weekly flex-time ledger: award, delete, and the
// current-week view. Weeks reset implicitly because every operation resolves
// the week from the clock before touching storage.
type FlexTimeService struct {
	store      FlexStore
	cache      WeekCache
	now        func() time.Time
	newID      IDGenerator
	anchor     time.Weekday
	maxPerWeek int
	increment  int
}

func NewFlexTimeService(store FlexStore, cache WeekCache, now func() time.Time, newID IDGenerator, anchor time.Weekday, maxPerWeek, increment int) *FlexTimeService {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = snowflakeEntryID
	}
	return &FlexTimeService{
		store:      store,
		cache:      cache,
		now:        now,
		newID:      newID,
		anchor:     anchor,
		maxPerWeek: maxPerWeek,
		increment:  increment,
	}
}

var (
	flexTimeOnce sync.Once
	flexTimeSvc  *FlexTimeService
)

// FlexTime returns the shared service wired to Postgres and Redis.
func FlexTime() *FlexTimeService {
	flexTimeOnce.Do(func() {
		cfg := config.Cfg
		flexTimeSvc = NewFlexTimeService(
			repository.NewFlexTimeRepository(database.DB()),
			redisWeekCache{},
			time.Now,
			snowflakeEntryID,
			cfg.AnchorWeekday(),
			cfg.MaxFlexPerWeek,
			cfg.FlexIncrement,
		)
	})
	return flexTimeSvc
}

func snowflakeEntryID() (string, error) {
	id, err := snowflake.NextID()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("fx_%d", id), nil
}

// Current returns this week's ledger. Entries stamped outside the week are
// filtered out and the balance recomputed from what remains, so a stale
// document from a previous week reads as a fresh zero-balance week. Storage
// failures degrade to the zero-balance view instead of erroring.
func (s *FlexTimeService) Current(ctx context.Context) *dto.FlexTimeWeekResponse {
	now := s.now()
	weekStart := weekclock.WeekStart(now, s.anchor)
	weekEnd := weekclock.WeekEnd(now, s.anchor)
	weekID := weekclock.FormatWeekID(weekStart)

	week, err := s.loadWeek(ctx, weekID, weekEnd)
	if err != nil {
		logger.Logger.Error("Failed to load week ledger, serving zero balance",
			zap.String("week_id", weekID),
			zap.Error(err),
		)
		week = nil
	}

	resp := &dto.FlexTimeWeekResponse{
		WeekID:     weekID,
		WeekStart:  weekStart,
		WeekEnd:    weekEnd,
		MaxPerWeek: s.maxPerWeek,
		Entries:    []model.FlexTimeEntry{},
	}

	if week == nil {
		resp.BalanceText = utils.FormatMinutes(0)
		resp.LastUpdated = now
		return resp
	}

	balance := 0
	for _, entry := range week.Entries {
		if entry.Timestamp.Before(weekStart) || !entry.Timestamp.Before(weekEnd) {
			continue
		}
		resp.Entries = append(resp.Entries, entry)
		balance += entry.Minutes
	}
	if balance > s.maxPerWeek {
		balance = s.maxPerWeek
	}
	if balance < 0 {
		balance = 0
	}

	sort.Slice(resp.Entries, func(i, j int) bool {
		return resp.Entries[i].Timestamp.Before(resp.Entries[j].Timestamp)
	})

	resp.Balance = balance
	resp.BalanceText = utils.FormatMinutes(balance)
	resp.LastUpdated = week.UpdatedAt
	return resp
}

func (s *FlexTimeService) loadWeek(ctx context.Context, weekID string, weekEnd time.Time) (*model.WeeklyFlexTime, error) {
	if s.cache != nil {
		if week, err := s.cache.Get(ctx, weekID); err == nil && week != nil {
			return week, nil
		}
	}

	week, err := s.store.GetWeek(ctx, weekID)
	if err != nil {
		return nil, err
	}

	if week != nil && s.cache != nil {
		if err := s.cache.Set(ctx, week, weekEnd); err != nil {
			logger.Logger.Warn("Failed to cache week ledger", zap.Error(err))
		}
	}

	return week, nil
}

// Award adds one increment of flex time to the current week, clamped to the
// weekly cap. Awarding at the cap is rejected without writing.
func (s *FlexTimeService) Award(ctx context.Context, addedBy, addedByName, note string) (*dto.FlexTimeResult, error) {
	now := s.now()
	weekStart := weekclock.WeekStart(now, s.anchor)
	weekID := weekclock.FormatWeekID(weekStart)

	result := &dto.FlexTimeResult{}

	err := s.store.MutateWeek(ctx, weekID, weekStart, func(week *model.WeeklyFlexTime) (*model.WeeklyStats, error) {
		if week.Balance >= s.maxPerWeek {
			return nil, pkgerrors.FlexAtMax
		}

		newBalance := week.Balance + s.increment
		if newBalance > s.maxPerWeek {
			newBalance = s.maxPerWeek
		}
		awarded := newBalance - week.Balance

		id, err := s.newID()
		if err != nil {
			return nil, err
		}

		week.Entries = append(week.Entries, model.FlexTimeEntry{
			ID:          id,
			Minutes:     awarded,
			Note:        note,
			AddedBy:     addedBy,
			AddedByName: addedByName,
			Timestamp:   now,
		})
		week.Balance = newBalance

		result.Success = true
		result.NewBalance = newBalance
		result.Message = fmt.Sprintf("Added %s of flex time", utils.FormatMinutes(awarded))

		return s.statsFor(week, weekStart), nil
	})

	if err != nil {
		if errors.Is(err, pkgerrors.FlexAtMax) {
			current := 0
			if week, loadErr := s.store.GetWeek(ctx, weekID); loadErr == nil && week != nil {
				current = week.Balance
			}
			return &dto.FlexTimeResult{
				Success:    false,
				Message:    fmt.Sprintf("Already at the weekly maximum of %s", utils.FormatMinutes(s.maxPerWeek)),
				NewBalance: current,
			}, pkgerrors.FlexAtMax
		}
		return nil, err
	}

	s.invalidate(ctx, weekID)
	return result, nil
}

// DeleteEntry removes the entry stamped at exactly ts from the current week
// and subtracts its minutes, flooring the balance at zero.
func (s *FlexTimeService) DeleteEntry(ctx context.Context, ts time.Time) (*dto.FlexTimeResult, error) {
	now := s.now()
	weekStart := weekclock.WeekStart(now, s.anchor)
	weekID := weekclock.FormatWeekID(weekStart)

	week, err := s.store.GetWeek(ctx, weekID)
	if err != nil {
		return nil, err
	}
	if week == nil {
		return nil, pkgerrors.NoWeekData
	}

	result := &dto.FlexTimeResult{}

	err = s.store.MutateWeek(ctx, weekID, weekStart, func(week *model.WeeklyFlexTime) (*model.WeeklyStats, error) {
		idx := -1
		for i, entry := range week.Entries {
			if entry.Timestamp.Equal(ts) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, pkgerrors.FlexEntryNotFound
		}

		removed := week.Entries[idx]
		week.Entries = append(week.Entries[:idx], week.Entries[idx+1:]...)

		newBalance := week.Balance - removed.Minutes
		if newBalance < 0 {
			newBalance = 0
		}
		week.Balance = newBalance

		result.Success = true
		result.NewBalance = newBalance
		result.Message = fmt.Sprintf("Removed %s of flex time", utils.FormatMinutes(removed.Minutes))

		return s.statsFor(week, weekStart), nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, weekID)
	return result, nil
}

// ViewingWindow reports the clock-derived state for the current instant.
func (s *FlexTimeService) ViewingWindow() *dto.ViewingWindowResponse {
	now := s.now()
	weekEnd := weekclock.WeekEnd(now, s.anchor)
	return &dto.ViewingWindowResponse{
		InViewingWindow: weekclock.InViewingWindow(now, s.anchor),
		DecisionLocked:  weekclock.DecisionLocked(now, s.anchor),
		VotingEnabled:   weekclock.VotingEnabled(now, s.anchor),
		WeekID:          weekclock.WeekID(now, s.anchor),
		WeekStart:       weekclock.WeekStart(now, s.anchor),
		WeekEnd:         weekEnd,
		ResetsAt:        weekEnd,
		ResetsIn:        utils.FormatCountdown(weekEnd, now),
	}
}

func (s *FlexTimeService) statsFor(week *model.WeeklyFlexTime, weekStart time.Time) *model.WeeklyStats {
	total := 0
	for _, entry := range week.Entries {
		total += entry.Minutes
	}
	return &model.WeeklyStats{
		WeekID:      week.WeekID,
		WeekStart:   weekStart,
		TotalEarned: total,
		MaxedOut:    week.Balance >= s.maxPerWeek,
	}
}

func (s *FlexTimeService) invalidate(ctx context.Context, weekID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, weekID)
	}
}
