package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"KidFlex/internal/model"
	pkgerrors "KidFlex/pkg/errors"
)

var testParticipants = []string{"charlie", "malcolm", "henry"}

// Saturday morning, inside the decision lock.
var lockedWeekend = time.Date(2026, time.January, 10, 8, 0, 0, 0, time.UTC)

func newTestPrefService(store PreferenceStore, feed PreferenceFeed, now time.Time) *PreferenceService {
	return NewPreferenceService(store, feed, fixedClock(now), time.Saturday, testParticipants)
}

func TestGetDefaultsToAllSaturday(t *testing.T) {
	svc := newTestPrefService(newFakePrefStore(), nil, midweek)

	snap := svc.Get(context.Background())
	if len(snap.Preferences) != 3 {
		t.Fatalf("preferences = %+v, want all three participants", snap.Preferences)
	}
	for _, p := range testParticipants {
		if snap.Preferences[p] != model.DaySaturday {
			t.Errorf("%s defaulted to %q, want saturday", p, snap.Preferences[p])
		}
	}
	if snap.WinningDay != model.DaySaturday || snap.SaturdayVotes != 3 || snap.SundayVotes != 0 {
		t.Fatalf("snap = %+v, want saturday 3-0", snap)
	}
	if !snap.VotingEnabled {
		t.Error("voting must be enabled midweek")
	}
}

func TestSetPreferencePreservesOtherVotes(t *testing.T) {
	store := newFakePrefStore()
	svc := newTestPrefService(store, nil, midweek)
	ctx := context.Background()

	if _, err := svc.SetPreference(ctx, "malcolm", model.DaySunday); err != nil {
		t.Fatalf("first vote failed: %v", err)
	}
	snap, err := svc.SetPreference(ctx, "charlie", model.DaySunday)
	if err != nil {
		t.Fatalf("second vote failed: %v", err)
	}

	if snap.Preferences["malcolm"] != model.DaySunday {
		t.Error("second vote clobbered malcolm's earlier vote")
	}
	if snap.Preferences["henry"] != model.DaySaturday {
		t.Error("non-voter henry lost his default")
	}
	if snap.WinningDay != model.DaySunday || snap.SundayVotes != 2 {
		t.Fatalf("snap = %+v, want sunday winning 2-1", snap)
	}
}

func TestTieGoesToSaturday(t *testing.T) {
	store := newFakePrefStore()
	svc := NewPreferenceService(store, nil, fixedClock(midweek), time.Saturday, []string{"charlie", "malcolm"})
	ctx := context.Background()

	snap, err := svc.SetPreference(ctx, "malcolm", model.DaySunday)
	if err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if snap.SaturdayVotes != 1 || snap.SundayVotes != 1 {
		t.Fatalf("votes = %d-%d, want a 1-1 tie", snap.SaturdayVotes, snap.SundayVotes)
	}
	if snap.WinningDay != model.DaySaturday {
		t.Fatalf("WinningDay = %q, ties must go to saturday", snap.WinningDay)
	}
}

func TestMidweekVoteDecidesWindowDay(t *testing.T) {
	store := newFakePrefStore()
	ctx := context.Background()

	// Votes cast midweek target the upcoming weekend.
	voting := newTestPrefService(store, nil, midweek)
	if _, err := voting.SetPreference(ctx, "charlie", model.DaySunday); err != nil {
		t.Fatalf("first vote failed: %v", err)
	}
	if _, err := voting.SetPreference(ctx, "malcolm", model.DaySunday); err != nil {
		t.Fatalf("second vote failed: %v", err)
	}

	// Saturday 10:30 of that weekend, inside the viewing window.
	windowTime := time.Date(2026, time.January, 17, 10, 30, 0, 0, time.UTC)
	weekend := newTestPrefService(store, nil, windowTime)

	snap := weekend.Get(ctx)
	if snap.WeekID != "2026-01-17" {
		t.Fatalf("WeekID = %q, want the weekend's week 2026-01-17", snap.WeekID)
	}
	if snap.WinningDay != model.DaySunday {
		t.Fatalf("WinningDay = %q, want the midweek sunday majority to hold", snap.WinningDay)
	}
	if snap.SundayVotes != 2 || snap.SaturdayVotes != 1 {
		t.Fatalf("votes = %d-%d saturday-sunday, want 1-2", snap.SaturdayVotes, snap.SundayVotes)
	}
	if snap.VotingEnabled {
		t.Error("voting must be locked during the reward weekend")
	}
	if got := weekend.WinningDay(ctx); got != model.DaySunday {
		t.Fatalf("WinningDay() = %q, want sunday", got)
	}
}

func TestSnapshotIgnoresUnknownNames(t *testing.T) {
	store := newFakePrefStore()
	// A stored document with a name outside the roster must not widen the
	// tally past the fixed participants.
	store.sets["2026-01-17"] = &model.DayPreferenceSet{
		WeekID: "2026-01-17",
		Preferences: model.PreferenceMap{
			"charlie":  model.DaySunday,
			"stranger": model.DaySunday,
		},
	}
	svc := newTestPrefService(store, nil, midweek)

	snap := svc.Get(context.Background())
	if len(snap.Preferences) != 3 {
		t.Fatalf("preferences = %+v, want exactly the three participants", snap.Preferences)
	}
	if _, ok := snap.Preferences["stranger"]; ok {
		t.Error("unknown name leaked into the snapshot")
	}
	if snap.SaturdayVotes+snap.SundayVotes != 3 {
		t.Fatalf("tally = %d-%d, votes must sum to the roster size", snap.SaturdayVotes, snap.SundayVotes)
	}
	if snap.WinningDay != model.DaySaturday {
		t.Fatalf("WinningDay = %q, a lone sunday vote must not win", snap.WinningDay)
	}
}

func TestSetPreferenceLockedOnWeekend(t *testing.T) {
	svc := newTestPrefService(newFakePrefStore(), nil, lockedWeekend)

	_, err := svc.SetPreference(context.Background(), "charlie", model.DaySunday)
	if !errors.Is(err, pkgerrors.VotingLocked) {
		t.Fatalf("err = %v, want VotingLocked", err)
	}
}

func TestSetPreferenceUnknownParticipant(t *testing.T) {
	svc := newTestPrefService(newFakePrefStore(), nil, midweek)

	_, err := svc.SetPreference(context.Background(), "stranger", model.DaySunday)
	if !errors.Is(err, pkgerrors.InvalidParticipant) {
		t.Fatalf("err = %v, want InvalidParticipant", err)
	}
}

func TestSetPreferenceInvalidDay(t *testing.T) {
	svc := newTestPrefService(newFakePrefStore(), nil, midweek)

	_, err := svc.SetPreference(context.Background(), "charlie", model.Day("wednesday"))
	if !errors.Is(err, pkgerrors.InvalidDay) {
		t.Fatalf("err = %v, want InvalidDay", err)
	}
}

func TestSetPreferencePublishesToFeed(t *testing.T) {
	feed := newFakeFeed()
	svc := newTestPrefService(newFakePrefStore(), feed, midweek)

	if _, err := svc.SetPreference(context.Background(), "henry", model.DaySunday); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	if len(feed.published) != 1 {
		t.Fatalf("published %d snapshots, want 1", len(feed.published))
	}
	if feed.published[0].Preferences["henry"] != model.DaySunday {
		t.Errorf("published snapshot missing the new vote: %+v", feed.published[0])
	}
}

func TestSubscribeInitialSnapshotThenChanges(t *testing.T) {
	feed := newFakeFeed()
	store := newFakePrefStore()
	svc := newTestPrefService(store, feed, midweek)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ch, stop, err := svc.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer stop()

	first := <-ch
	if first.WinningDay != model.DaySaturday {
		t.Fatalf("initial snapshot = %+v, want default saturday", first)
	}

	update := first
	update.Preferences["charlie"] = model.DaySunday
	feed.events <- update

	second := <-ch
	if second.Preferences["charlie"] != model.DaySunday {
		t.Fatalf("change snapshot = %+v, want charlie's sunday vote", second)
	}
}

func TestSubscribeFeedErrorServesOneSnapshot(t *testing.T) {
	feed := newFakeFeed()
	feed.subErr = errors.New("connection refused")
	svc := newTestPrefService(newFakePrefStore(), feed, midweek)

	ch, stop, err := svc.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("Subscribe must degrade, got error: %v", err)
	}
	defer stop()

	snap, ok := <-ch
	if !ok {
		t.Fatal("channel closed before the initial snapshot")
	}
	if snap.WinningDay != model.DaySaturday {
		t.Errorf("snapshot = %+v, want defaults", snap)
	}

	if _, ok := <-ch; ok {
		t.Fatal("channel must close after the single snapshot")
	}
}

func TestGetDegradesOnStoreError(t *testing.T) {
	store := newFakePrefStore()
	store.readErr = errors.New("connection refused")
	svc := newTestPrefService(store, nil, midweek)

	snap := svc.Get(context.Background())
	if snap.WinningDay != model.DaySaturday || snap.SaturdayVotes != 3 {
		t.Fatalf("snap = %+v, want all-default fallback", snap)
	}
}
