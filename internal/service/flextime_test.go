package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"KidFlex/internal/model"
	pkgerrors "KidFlex/pkg/errors"
)

const (
	testMax       = 120
	testIncrement = 10
)

// Wednesday afternoon inside the week starting Saturday 2026-01-10.
var midweek = time.Date(2026, time.January, 14, 15, 30, 0, 0, time.UTC)

const midweekID = "2026-01-10"

func newTestFlexService(store FlexStore, now time.Time) *FlexTimeService {
	return NewFlexTimeService(store, nil, fixedClock(now), sequentialIDs(), time.Saturday, testMax, testIncrement)
}

func seedWeek(store *fakeFlexStore, weekID string, weekStart time.Time, entries ...model.FlexTimeEntry) {
	balance := 0
	for _, e := range entries {
		balance += e.Minutes
	}
	if balance > testMax {
		balance = testMax
	}
	store.weeks[weekID] = &model.WeeklyFlexTime{
		WeekID:    weekID,
		WeekStart: weekStart,
		Balance:   balance,
		Entries:   entries,
		UpdatedAt: weekStart,
	}
}

func entryAt(ts time.Time, minutes int) model.FlexTimeEntry {
	return model.FlexTimeEntry{
		ID:        "seed_" + ts.Format("150405"),
		Minutes:   minutes,
		AddedBy:   "parent-1",
		Timestamp: ts,
	}
}

func TestAwardFirstIncrement(t *testing.T) {
	store := newFakeFlexStore()
	svc := newTestFlexService(store, midweek)

	result, err := svc.Award(context.Background(), "parent-1", "Dana", "good behavior")
	if err != nil {
		t.Fatalf("Award returned error: %v", err)
	}
	if !result.Success || result.NewBalance != testIncrement {
		t.Fatalf("result = %+v, want success with balance %d", result, testIncrement)
	}

	week := store.weeks[midweekID]
	if week == nil {
		t.Fatal("week document was not created")
	}
	if len(week.Entries) != 1 || week.Entries[0].Minutes != testIncrement {
		t.Fatalf("entries = %+v, want one %d minute entry", week.Entries, testIncrement)
	}
	if week.Entries[0].ID != "fx_1" {
		t.Errorf("entry ID = %q, want fx_1", week.Entries[0].ID)
	}

	stats := store.stats[midweekID]
	if stats == nil || stats.TotalEarned != testIncrement || stats.MaxedOut {
		t.Fatalf("stats = %+v, want totalEarned=%d maxedOut=false", stats, testIncrement)
	}
}

func TestAwardClampsAtCap(t *testing.T) {
	store := newFakeFlexStore()
	seedWeek(store, midweekID, midweek.AddDate(0, 0, -4),
		entryAt(midweek.Add(-2*time.Hour), 115),
	)
	svc := newTestFlexService(store, midweek)

	result, err := svc.Award(context.Background(), "parent-1", "Dana", "")
	if err != nil {
		t.Fatalf("Award returned error: %v", err)
	}
	if result.NewBalance != testMax {
		t.Fatalf("NewBalance = %d, want clamp to %d", result.NewBalance, testMax)
	}

	week := store.weeks[midweekID]
	last := week.Entries[len(week.Entries)-1]
	if last.Minutes != 5 {
		t.Errorf("clamped award recorded %d minutes, want 5", last.Minutes)
	}
	if !store.stats[midweekID].MaxedOut {
		t.Error("stats not marked maxed out at cap")
	}
}

func TestAwardRejectedAtCap(t *testing.T) {
	store := newFakeFlexStore()
	seedWeek(store, midweekID, midweek.AddDate(0, 0, -4),
		entryAt(midweek.Add(-2*time.Hour), 120),
	)
	svc := newTestFlexService(store, midweek)

	result, err := svc.Award(context.Background(), "parent-1", "Dana", "")
	if !errors.Is(err, pkgerrors.FlexAtMax) {
		t.Fatalf("err = %v, want FlexAtMax", err)
	}
	if result == nil || result.Success {
		t.Fatalf("result = %+v, want rejected", result)
	}
	if result.NewBalance != testMax {
		t.Errorf("NewBalance = %d, want unchanged %d", result.NewBalance, testMax)
	}
	if len(store.weeks[midweekID].Entries) != 1 {
		t.Error("rejected award must not write an entry")
	}
}

func TestDeleteEntrySubtractsMinutes(t *testing.T) {
	store := newFakeFlexStore()
	target := midweek.Add(-time.Hour)
	seedWeek(store, midweekID, midweek.AddDate(0, 0, -4),
		entryAt(midweek.Add(-3*time.Hour), 10),
		entryAt(midweek.Add(-2*time.Hour), 30),
		entryAt(target, 10),
	)
	svc := newTestFlexService(store, midweek)

	result, err := svc.DeleteEntry(context.Background(), target)
	if err != nil {
		t.Fatalf("DeleteEntry returned error: %v", err)
	}
	if result.NewBalance != 40 {
		t.Fatalf("NewBalance = %d, want 40", result.NewBalance)
	}
	if len(store.weeks[midweekID].Entries) != 2 {
		t.Fatalf("entries = %d, want 2 after delete", len(store.weeks[midweekID].Entries))
	}
}

func TestDeleteEntryFloorsAtZero(t *testing.T) {
	store := newFakeFlexStore()
	target := midweek.Add(-time.Hour)
	seedWeek(store, midweekID, midweek.AddDate(0, 0, -4), entryAt(target, 10))
	// Force a balance lower than the entry being removed.
	store.weeks[midweekID].Balance = 5
	svc := newTestFlexService(store, midweek)

	result, err := svc.DeleteEntry(context.Background(), target)
	if err != nil {
		t.Fatalf("DeleteEntry returned error: %v", err)
	}
	if result.NewBalance != 0 {
		t.Fatalf("NewBalance = %d, want floor at 0", result.NewBalance)
	}
}

func TestDeleteEntryUnknownTimestamp(t *testing.T) {
	store := newFakeFlexStore()
	seedWeek(store, midweekID, midweek.AddDate(0, 0, -4),
		entryAt(midweek.Add(-2*time.Hour), 10),
	)
	svc := newTestFlexService(store, midweek)

	_, err := svc.DeleteEntry(context.Background(), midweek.Add(-90*time.Minute))
	if !errors.Is(err, pkgerrors.FlexEntryNotFound) {
		t.Fatalf("err = %v, want FlexEntryNotFound", err)
	}
}

func TestDeleteEntryNoWeekData(t *testing.T) {
	store := newFakeFlexStore()
	svc := newTestFlexService(store, midweek)

	_, err := svc.DeleteEntry(context.Background(), midweek)
	if !errors.Is(err, pkgerrors.NoWeekData) {
		t.Fatalf("err = %v, want NoWeekData", err)
	}
}

func TestCurrentEmptyWeek(t *testing.T) {
	store := newFakeFlexStore()
	svc := newTestFlexService(store, midweek)

	resp := svc.Current(context.Background())
	if resp.Balance != 0 || len(resp.Entries) != 0 {
		t.Fatalf("resp = %+v, want zero balance and no entries", resp)
	}
	if resp.WeekID != midweekID {
		t.Errorf("WeekID = %q, want %q", resp.WeekID, midweekID)
	}
	if resp.BalanceText != "0m" {
		t.Errorf("BalanceText = %q, want 0m", resp.BalanceText)
	}
	if !resp.LastUpdated.Equal(midweek) {
		t.Errorf("LastUpdated = %v, want the current instant %v", resp.LastUpdated, midweek)
	}
}

func TestViewingWindowCountdown(t *testing.T) {
	svc := newTestFlexService(newFakeFlexStore(), midweek)

	resp := svc.ViewingWindow()
	wantReset := time.Date(2026, time.January, 17, 0, 0, 0, 0, time.UTC)
	if !resp.ResetsAt.Equal(wantReset) {
		t.Fatalf("ResetsAt = %v, want %v", resp.ResetsAt, wantReset)
	}
	if resp.ResetsIn != "2d 8h" {
		t.Fatalf("ResetsIn = %q, want 2d 8h", resp.ResetsIn)
	}
	if resp.InViewingWindow || resp.DecisionLocked || !resp.VotingEnabled {
		t.Fatalf("resp = %+v, want open voting midweek", resp)
	}
}

func TestCurrentFiltersEntriesOutsideWeek(t *testing.T) {
	store := newFakeFlexStore()
	stale := midweek.AddDate(0, 0, -10)
	seedWeek(store, midweekID, midweek.AddDate(0, 0, -4),
		entryAt(stale, 30),
		entryAt(midweek.Add(-time.Hour), 10),
	)
	svc := newTestFlexService(store, midweek)

	resp := svc.Current(context.Background())
	if len(resp.Entries) != 1 {
		t.Fatalf("entries = %d, want stale entry filtered", len(resp.Entries))
	}
	if resp.Balance != 10 {
		t.Errorf("Balance = %d, want recomputed 10", resp.Balance)
	}
}

func TestCurrentDegradesOnStoreError(t *testing.T) {
	store := newFakeFlexStore()
	store.readErr = errors.New("connection refused")
	svc := newTestFlexService(store, midweek)

	resp := svc.Current(context.Background())
	if resp.Balance != 0 || len(resp.Entries) != 0 {
		t.Fatalf("resp = %+v, want zero-balance fallback", resp)
	}
}

func TestAwardThenCurrentRoundTrip(t *testing.T) {
	store := newFakeFlexStore()
	svc := newTestFlexService(store, midweek)

	for i := 0; i < 3; i++ {
		if _, err := svc.Award(context.Background(), "parent-1", "Dana", ""); err != nil {
			t.Fatalf("award %d failed: %v", i, err)
		}
	}

	resp := svc.Current(context.Background())
	if resp.Balance != 30 {
		t.Fatalf("Balance = %d, want 30 after three awards", resp.Balance)
	}
	if resp.BalanceText != "30m" {
		t.Errorf("BalanceText = %q, want 30m", resp.BalanceText)
	}
	if len(resp.Entries) != 3 {
		t.Errorf("entries = %d, want 3", len(resp.Entries))
	}
}
