package schedule

// Week scheduler: re-evaluates the week clock on a fixed cadence and emits
// events when the week rolls over or the viewing window opens.

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"KidFlex/config"
	"KidFlex/internal/queue"
	"KidFlex/internal/weekclock"
	"KidFlex/pkg/logger"
)

var (
	schedulerOnce sync.Once
	schedulerInst *WeekScheduler
)

type WeekScheduler struct {
	logger *zap.Logger
	anchor time.Weekday
	now    func() time.Time

	mu         sync.Mutex
	lastWeekID string
}

func GetScheduler() *WeekScheduler {
	schedulerOnce.Do(func() {
		schedulerInst = &WeekScheduler{
			logger: logger.Logger,
			anchor: config.Cfg.AnchorWeekday(),
			now:    time.Now,
		}
	})
	return schedulerInst
}

// Run ticks until ctx is cancelled. The first tick only records state, so a
// restart mid-week does not replay the reset event.
func (s *WeekScheduler) Run(ctx context.Context) {
	interval := time.Duration(config.Cfg.ClockTickInterval) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}

	s.logger.Info("Week scheduler started",
		zap.Duration("interval", interval),
		zap.String("anchor", s.anchor.String()),
	)

	s.prime()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Week scheduler stopping")
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *WeekScheduler) prime() {
	now := s.now()

	s.mu.Lock()
	s.lastWeekID = weekclock.WeekID(now, s.anchor)
	s.mu.Unlock()
}

func (s *WeekScheduler) tick() {
	now := s.now()
	weekID := weekclock.WeekID(now, s.anchor)

	s.mu.Lock()
	prevWeekID := s.lastWeekID
	s.lastWeekID = weekID
	s.mu.Unlock()

	if weekID == prevWeekID {
		return
	}

	weekStart := weekclock.WeekStart(now, s.anchor)

	msg := queue.WeekResetMessage{
		WeekID:     weekID,
		PrevWeekID: prevWeekID,
		WeekStart:  weekStart.Format(time.RFC3339),
		OccurredAt: now.Format(time.RFC3339),
	}
	if err := queue.PublishWeekReset(msg); err != nil {
		s.logger.Error("Failed to publish week reset",
			zap.String("week_id", weekID),
			zap.Error(err),
		)
		// Drop lastWeekID back so the next tick retries the publish.
		s.mu.Lock()
		s.lastWeekID = prevWeekID
		s.mu.Unlock()
		return
	}

	s.scheduleWindows(now, weekID, weekStart)
}

// scheduleWindows queues both reward-day window announcements as delayed
// messages, each held until its window opens.
func (s *WeekScheduler) scheduleWindows(now time.Time, weekID string, weekStart time.Time) {
	for offset := 0; offset < 2; offset++ {
		day := weekStart.AddDate(0, 0, offset)
		y, m, d := day.Date()
		opensAt := time.Date(y, m, d, 10, 0, 0, 0, day.Location())
		closesAt := time.Date(y, m, d, 12, 0, 0, 0, day.Location())

		msg := queue.ViewingWindowMessage{
			WeekID:     weekID,
			Day:        strings.ToLower(day.Weekday().String()),
			OpensAt:    opensAt.Format(time.RFC3339),
			ClosesAt:   closesAt.Format(time.RFC3339),
			OccurredAt: now.Format(time.RFC3339),
		}
		if err := queue.PublishViewingWindowOpen(msg, opensAt.Sub(now)); err != nil {
			s.logger.Error("Failed to schedule viewing window open",
				zap.String("week_id", weekID),
				zap.String("day", msg.Day),
				zap.Error(err),
			)
		}
	}
}
