package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"KidFlex/internal/model"
)

func newTestStreakService(store FlexStore, now time.Time) *StreakService {
	return NewStreakService(store, fixedClock(now), time.Saturday, 2)
}

func seedStats(store *fakeFlexStore, weekStart time.Time, totalEarned int, maxedOut bool) {
	weekID := weekStart.Format("2006-01-02")
	store.stats[weekID] = &model.WeeklyStats{
		WeekID:      weekID,
		WeekStart:   weekStart,
		TotalEarned: totalEarned,
		MaxedOut:    maxedOut,
	}
}

func TestStreakTwoMaxedWeeks(t *testing.T) {
	store := newFakeFlexStore()
	weekStart := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	seedStats(store, weekStart.AddDate(0, 0, -14), 120, true)
	seedStats(store, weekStart.AddDate(0, 0, -7), 120, true)
	seedStats(store, weekStart, 40, false) // current week, in progress

	svc := newTestStreakService(store, midweek)
	resp := svc.CheckStreak(context.Background())

	if !resp.HasStreak || resp.StreakWeeks != 2 {
		t.Fatalf("resp = %+v, want streak of 2", resp)
	}
}

func TestStreakCurrentWeekMaxedCounts(t *testing.T) {
	store := newFakeFlexStore()
	weekStart := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	seedStats(store, weekStart.AddDate(0, 0, -7), 120, true)
	seedStats(store, weekStart, 120, true)

	svc := newTestStreakService(store, midweek)
	resp := svc.CheckStreak(context.Background())

	if !resp.HasStreak || resp.StreakWeeks != 2 {
		t.Fatalf("resp = %+v, want current maxed week to count", resp)
	}
}

func TestStreakBrokenByMissedWeek(t *testing.T) {
	store := newFakeFlexStore()
	weekStart := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	seedStats(store, weekStart.AddDate(0, 0, -14), 120, true)
	seedStats(store, weekStart.AddDate(0, 0, -7), 60, false)
	seedStats(store, weekStart, 120, true)

	svc := newTestStreakService(store, midweek)
	resp := svc.CheckStreak(context.Background())

	if resp.HasStreak || resp.StreakWeeks != 1 {
		t.Fatalf("resp = %+v, want streak broken at the missed week", resp)
	}
}

func TestStreakSingleWeekNotEnough(t *testing.T) {
	store := newFakeFlexStore()
	weekStart := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	seedStats(store, weekStart.AddDate(0, 0, -7), 120, true)
	seedStats(store, weekStart, 20, false)

	svc := newTestStreakService(store, midweek)
	resp := svc.CheckStreak(context.Background())

	if resp.HasStreak {
		t.Fatalf("resp = %+v, one maxed week must not be a streak", resp)
	}
	if resp.StreakWeeks != 1 {
		t.Errorf("StreakWeeks = %d, want 1", resp.StreakWeeks)
	}
	if resp.WeeksNeeded != 2 {
		t.Errorf("WeeksNeeded = %d, want 2", resp.WeeksNeeded)
	}
}

func TestStreakNoHistory(t *testing.T) {
	store := newFakeFlexStore()
	svc := newTestStreakService(store, midweek)

	resp := svc.CheckStreak(context.Background())
	if resp.HasStreak || resp.StreakWeeks != 0 {
		t.Fatalf("resp = %+v, want empty streak", resp)
	}
}

func TestStreakDegradesOnStoreError(t *testing.T) {
	store := newFakeFlexStore()
	store.readErr = errors.New("connection refused")
	svc := newTestStreakService(store, midweek)

	resp := svc.CheckStreak(context.Background())
	if resp.HasStreak || resp.StreakWeeks != 0 {
		t.Fatalf("resp = %+v, want degraded empty streak", resp)
	}
}
