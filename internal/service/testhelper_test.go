package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"KidFlex/internal/model"
	"KidFlex/internal/model/dto"
)

// fakeFlexStore is an in-memory FlexStore mirroring the repository's
// create-if-missing and merge-upsert behavior.
type fakeFlexStore struct {
	mu       sync.Mutex
	weeks    map[string]*model.WeeklyFlexTime
	stats    map[string]*model.WeeklyStats
	readErr  error
	writeErr error
}

func newFakeFlexStore() *fakeFlexStore {
	return &fakeFlexStore{
		weeks: map[string]*model.WeeklyFlexTime{},
		stats: map[string]*model.WeeklyStats{},
	}
}

func (f *fakeFlexStore) GetWeek(_ context.Context, weekID string) (*model.WeeklyFlexTime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.readErr != nil {
		return nil, f.readErr
	}

	week, ok := f.weeks[weekID]
	if !ok {
		return nil, nil
	}
	copied := *week
	copied.Entries = append(model.FlexEntries{}, week.Entries...)
	return &copied, nil
}

func (f *fakeFlexStore) MutateWeek(_ context.Context, weekID string, weekStart time.Time, fn func(*model.WeeklyFlexTime) (*model.WeeklyStats, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writeErr != nil {
		return f.writeErr
	}

	week, ok := f.weeks[weekID]
	if !ok {
		week = &model.WeeklyFlexTime{
			WeekID:    weekID,
			WeekStart: weekStart,
			Entries:   model.FlexEntries{},
		}
	}

	working := *week
	working.Entries = append(model.FlexEntries{}, week.Entries...)

	stats, err := fn(&working)
	if err != nil {
		return err
	}

	working.UpdatedAt = time.Now()
	f.weeks[weekID] = &working
	if stats != nil {
		f.stats[stats.WeekID] = stats
	}
	return nil
}

func (f *fakeFlexStore) RecentStats(_ context.Context, limit int) ([]model.WeeklyStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.readErr != nil {
		return nil, f.readErr
	}

	out := make([]model.WeeklyStats, 0, len(f.stats))
	for _, s := range f.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].WeekStart.After(out[j].WeekStart)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakePrefStore struct {
	mu       sync.Mutex
	sets     map[string]*model.DayPreferenceSet
	readErr  error
	writeErr error
}

func newFakePrefStore() *fakePrefStore {
	return &fakePrefStore{sets: map[string]*model.DayPreferenceSet{}}
}

func (f *fakePrefStore) Get(_ context.Context, weekID string) (*model.DayPreferenceSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.readErr != nil {
		return nil, f.readErr
	}
	set, ok := f.sets[weekID]
	if !ok {
		return nil, nil
	}
	copied := *set
	copied.Preferences = model.PreferenceMap{}
	for k, v := range set.Preferences {
		copied.Preferences[k] = v
	}
	return &copied, nil
}

func (f *fakePrefStore) Set(_ context.Context, weekID, participant string, day model.Day) (*model.DayPreferenceSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writeErr != nil {
		return nil, f.writeErr
	}

	set, ok := f.sets[weekID]
	if !ok {
		set = &model.DayPreferenceSet{
			WeekID:      weekID,
			Preferences: model.PreferenceMap{},
		}
		f.sets[weekID] = set
	}
	set.Preferences[participant] = day
	set.UpdatedAt = time.Now()

	copied := *set
	copied.Preferences = model.PreferenceMap{}
	for k, v := range set.Preferences {
		copied.Preferences[k] = v
	}
	return &copied, nil
}

type fakeFeed struct {
	mu        sync.Mutex
	published []dto.PreferenceSnapshot
	events    chan dto.PreferenceSnapshot
	subErr    error
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{events: make(chan dto.PreferenceSnapshot, 8)}
}

func (f *fakeFeed) Publish(_ context.Context, snapshot dto.PreferenceSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, snapshot)
	return nil
}

func (f *fakeFeed) Subscribe(_ context.Context) (<-chan dto.PreferenceSnapshot, func(), error) {
	if f.subErr != nil {
		return nil, nil, f.subErr
	}
	return f.events, func() {}, nil
}

// sequentialIDs returns an IDGenerator producing fx_1, fx_2, ...
func sequentialIDs() IDGenerator {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("fx_%d", n), nil
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
