package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"KidFlex/config"
	"KidFlex/internal/cache"
	"KidFlex/internal/model"
	"KidFlex/internal/model/dto"
	"KidFlex/internal/repository"
	"KidFlex/internal/weekclock"
	pkgerrors "KidFlex/pkg/errors"
	"KidFlex/pkg/logger"
	"KidFlex/storage/database"
)

// PreferenceService runs the weekly weekend-day vote. Every participant
// defaults to saturday until they vote; Saturday wins ties.
type PreferenceService struct {
	store        PreferenceStore
	feed         PreferenceFeed
	now          func() time.Time
	anchor       time.Weekday
	participants []string
}

func NewPreferenceService(store PreferenceStore, feed PreferenceFeed, now func() time.Time, anchor time.Weekday, participants []string) *PreferenceService {
	if now == nil {
		now = time.Now
	}
	return &PreferenceService{
		store:        store,
		feed:         feed,
		now:          now,
		anchor:       anchor,
		participants: participants,
	}
}

var (
	preferenceOnce sync.Once
	preferenceSvc  *PreferenceService
)

func Preference() *PreferenceService {
	preferenceOnce.Do(func() {
		cfg := config.Cfg
		preferenceSvc = NewPreferenceService(
			repository.NewPreferenceRepository(database.DB()),
			cache.NewRedisPreferenceFeed(),
			time.Now,
			cfg.AnchorWeekday(),
			cfg.Participants,
		)
	})
	return preferenceSvc
}

// ballotWeekID resolves which week's ballot an instant belongs to. Midweek
// votes target the upcoming weekend, so they are stored under the next
// week's ID. During the reward weekend the lock is on and the current
// week's set, filled in over the prior midweek, is the decided ballot.
func (s *PreferenceService) ballotWeekID(now time.Time) string {
	if weekclock.DecisionLocked(now, s.anchor) {
		return weekclock.WeekID(now, s.anchor)
	}
	return weekclock.FormatWeekID(weekclock.NextWeekStart(now, s.anchor))
}

// Get returns the active ballot's snapshot. Participants who have not voted
// count as saturday. Storage failures degrade to the all-default snapshot.
func (s *PreferenceService) Get(ctx context.Context) *dto.PreferenceSnapshot {
	now := s.now()
	weekID := s.ballotWeekID(now)

	set, err := s.store.Get(ctx, weekID)
	if err != nil {
		logger.Logger.Error("Failed to load day preferences, serving defaults",
			zap.String("week_id", weekID),
			zap.Error(err),
		)
		set = nil
	}

	return s.snapshot(weekID, set, now)
}

// WinningDay resolves the weekend day the household watches on.
func (s *PreferenceService) WinningDay(ctx context.Context) model.Day {
	return s.Get(ctx).WinningDay
}

// SetPreference records one participant's vote. Votes are rejected while
// the current weekend's decision is locked.
func (s *PreferenceService) SetPreference(ctx context.Context, participant string, day model.Day) (*dto.PreferenceSnapshot, error) {
	if !s.isParticipant(participant) {
		return nil, pkgerrors.InvalidParticipant
	}
	if !day.Valid() {
		return nil, pkgerrors.InvalidDay
	}

	now := s.now()
	if !weekclock.VotingEnabled(now, s.anchor) {
		return nil, pkgerrors.VotingLocked
	}

	weekID := s.ballotWeekID(now)
	set, err := s.store.Set(ctx, weekID, participant, day)
	if err != nil {
		return nil, err
	}

	snapshot := s.snapshot(weekID, set, now)

	if s.feed != nil {
		if err := s.feed.Publish(ctx, *snapshot); err != nil {
			logger.Logger.Warn("Failed to publish preference change",
				zap.String("week_id", weekID),
				zap.Error(err),
			)
		}
	}

	return snapshot, nil
}

// Subscribe yields the current snapshot immediately, then a snapshot for
// every later change. When the change feed cannot be opened the channel
// carries the one initial snapshot and closes.
func (s *PreferenceService) Subscribe(ctx context.Context) (<-chan dto.PreferenceSnapshot, func(), error) {
	initial := s.Get(ctx)

	out := make(chan dto.PreferenceSnapshot, 8)

	if s.feed == nil {
		out <- *initial
		close(out)
		return out, func() {}, nil
	}

	events, cancel, err := s.feed.Subscribe(ctx)
	if err != nil {
		logger.Logger.Warn("Preference feed unavailable, serving one snapshot", zap.Error(err))
		out <- *initial
		close(out)
		return out, func() {}, nil
	}

	go func() {
		defer close(out)

		select {
		case out <- *initial:
		case <-ctx.Done():
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case snapshot, ok := <-events:
				if !ok {
					return
				}
				select {
				case out <- snapshot:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, cancel, nil
}

func (s *PreferenceService) snapshot(weekID string, set *model.DayPreferenceSet, now time.Time) *dto.PreferenceSnapshot {
	prefs := model.PreferenceMap{}
	for _, p := range s.participants {
		prefs[p] = model.DaySaturday
	}

	updatedAt := now
	if set != nil {
		for participant, day := range set.Preferences {
			// Stored names outside the roster must not inflate the tally.
			if day.Valid() && s.isParticipant(participant) {
				prefs[participant] = day
			}
		}
		if !set.UpdatedAt.IsZero() {
			updatedAt = set.UpdatedAt
		}
	}

	saturday, sunday := 0, 0
	for _, day := range prefs {
		if day == model.DaySunday {
			sunday++
		} else {
			saturday++
		}
	}

	winning := model.DaySaturday
	if sunday > saturday {
		winning = model.DaySunday
	}

	return &dto.PreferenceSnapshot{
		WeekID:        weekID,
		Preferences:   prefs,
		WinningDay:    winning,
		SaturdayVotes: saturday,
		SundayVotes:   sunday,
		VotingEnabled: weekclock.VotingEnabled(now, s.anchor),
		UpdatedAt:     updatedAt,
	}
}

func (s *PreferenceService) isParticipant(name string) bool {
	for _, p := range s.participants {
		if p == name {
			return true
		}
	}
	return false
}
