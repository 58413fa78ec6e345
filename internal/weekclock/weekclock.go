// Package weekclock implements the reward-week calendar. A week begins at
// local midnight on the anchor day (Saturday by default) and runs seven
// days, half-open. The first two days of the week are the reward weekend:
// the viewing window opens on each of them, and day voting for the
// following weekend stays locked until they pass.
package weekclock

import "time"

const (
	windowOpenHour  = 10
	windowCloseHour = 12

	// weekIDLayout formats a week start date as the week identifier.
	weekIDLayout = "2006-01-02"
)

// WeekStart returns local midnight of the most recent anchor day at or
// before now.
func WeekStart(now time.Time, anchor time.Weekday) time.Time {
	daysSince := (int(now.Weekday()) - int(anchor) + 7) % 7
	y, m, d := now.AddDate(0, 0, -daysSince).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// WeekEnd returns the exclusive end of the current week.
func WeekEnd(now time.Time, anchor time.Weekday) time.Time {
	return WeekStart(now, anchor).AddDate(0, 0, 7)
}

// WeekID identifies the week containing now. IDs are unique per week and
// stable for every instant within it.
func WeekID(now time.Time, anchor time.Weekday) string {
	return FormatWeekID(WeekStart(now, anchor))
}

// FormatWeekID renders a week start as its identifier.
func FormatWeekID(weekStart time.Time) string {
	return weekStart.Format(weekIDLayout)
}

// InViewingWindow reports whether now falls inside the reward viewing
// window: 10:00 to 12:00 on either reward weekend day.
func InViewingWindow(now time.Time, anchor time.Weekday) bool {
	wd := now.Weekday()
	secondDay := (anchor + 1) % 7
	if wd != anchor && wd != secondDay {
		return false
	}
	h := now.Hour()
	return h >= windowOpenHour && h < windowCloseHour
}

// DecisionLocked reports whether the weekend-day decision for the current
// week is still in effect. The decision locks when the week rolls over and
// stays locked through both reward weekend days.
func DecisionLocked(now time.Time, anchor time.Weekday) bool {
	lockEnd := WeekStart(now, anchor).AddDate(0, 0, 2)
	return now.Before(lockEnd)
}

// VotingEnabled reports whether participants may change their weekend-day
// preference for the upcoming reward weekend.
func VotingEnabled(now time.Time, anchor time.Weekday) bool {
	return !DecisionLocked(now, anchor)
}

// ShouldReset reports whether a ledger anchored at lastWeekStart belongs
// to an earlier week than now.
func ShouldReset(lastWeekStart, now time.Time, anchor time.Weekday) bool {
	return WeekStart(now, anchor).After(lastWeekStart)
}

// NextWeekStart returns the start of the week after the one containing now.
func NextWeekStart(now time.Time, anchor time.Weekday) time.Time {
	return WeekStart(now, anchor).AddDate(0, 0, 7)
}

// UntilReset returns how long until the current week rolls over.
func UntilReset(now time.Time, anchor time.Weekday) time.Duration {
	return WeekEnd(now, anchor).Sub(now)
}
