package weekclock

import (
	"testing"
	"time"
)

const anchor = time.Saturday

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "midweek maps back to previous saturday",
			now:  date(2026, time.January, 14, 15, 30), // Wednesday
			want: date(2026, time.January, 10, 0, 0),
		},
		{
			name: "anchor day midnight is its own week start",
			now:  date(2026, time.January, 10, 0, 0), // Saturday
			want: date(2026, time.January, 10, 0, 0),
		},
		{
			name: "late anchor day stays in same week",
			now:  date(2026, time.January, 10, 23, 59),
			want: date(2026, time.January, 10, 0, 0),
		},
		{
			name: "friday belongs to the week started eight days prior saturday",
			now:  date(2026, time.January, 16, 9, 0), // Friday
			want: date(2026, time.January, 10, 0, 0),
		},
		{
			name: "sunday belongs to the week started the day before",
			now:  date(2026, time.January, 11, 8, 0),
			want: date(2026, time.January, 10, 0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekStart(tt.now, anchor)
			if !got.Equal(tt.want) {
				t.Errorf("WeekStart(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestWeekStartAlternateAnchor(t *testing.T) {
	// Monday anchor: Wednesday maps back to Monday.
	now := date(2026, time.January, 14, 12, 0)
	want := date(2026, time.January, 12, 0, 0)
	if got := WeekStart(now, time.Monday); !got.Equal(want) {
		t.Errorf("WeekStart(%v, Monday) = %v, want %v", now, got, want)
	}
}

func TestWeekEndIsSevenDaysAfterStart(t *testing.T) {
	now := date(2026, time.January, 14, 15, 30)
	start := WeekStart(now, anchor)
	end := WeekEnd(now, anchor)
	if !end.Equal(start.AddDate(0, 0, 7)) {
		t.Errorf("WeekEnd = %v, want %v", end, start.AddDate(0, 0, 7))
	}
	if !now.Before(end) || now.Before(start) {
		t.Errorf("now %v not inside [%v, %v)", now, start, end)
	}
}

func TestWeekIDStableWithinWeekAndUniqueAcrossWeeks(t *testing.T) {
	a := WeekID(date(2026, time.January, 10, 0, 0), anchor)
	b := WeekID(date(2026, time.January, 16, 23, 59), anchor)
	if a != b {
		t.Errorf("same week produced different IDs: %q vs %q", a, b)
	}

	next := WeekID(date(2026, time.January, 17, 0, 0), anchor)
	if next == a {
		t.Errorf("consecutive weeks share ID %q", a)
	}

	if a != "2026-01-10" {
		t.Errorf("WeekID = %q, want 2026-01-10", a)
	}
}

func TestInViewingWindow(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"saturday at open", date(2026, time.January, 10, 10, 0), true},
		{"saturday mid window", date(2026, time.January, 10, 11, 30), true},
		{"saturday at close", date(2026, time.January, 10, 12, 0), false},
		{"saturday before open", date(2026, time.January, 10, 9, 59), false},
		{"sunday in window", date(2026, time.January, 11, 10, 30), true},
		{"monday in hours", date(2026, time.January, 12, 10, 30), false},
		{"friday in hours", date(2026, time.January, 16, 11, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InViewingWindow(tt.now, anchor); got != tt.want {
				t.Errorf("InViewingWindow(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestDecisionLockAndVoting(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		wantLocked bool
	}{
		{"saturday morning locked", date(2026, time.January, 10, 8, 0), true},
		{"sunday night still locked", date(2026, time.January, 11, 23, 59), true},
		{"monday midnight unlocks", date(2026, time.January, 12, 0, 0), false},
		{"wednesday open", date(2026, time.January, 14, 12, 0), false},
		{"friday still open", date(2026, time.January, 16, 23, 59), false},
		{"next saturday locks again", date(2026, time.January, 17, 0, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecisionLocked(tt.now, anchor); got != tt.wantLocked {
				t.Errorf("DecisionLocked(%v) = %v, want %v", tt.now, got, tt.wantLocked)
			}
			if got := VotingEnabled(tt.now, anchor); got == tt.wantLocked {
				t.Errorf("VotingEnabled(%v) = %v, want %v", tt.now, got, !tt.wantLocked)
			}
		})
	}
}

func TestShouldReset(t *testing.T) {
	lastWeekStart := date(2026, time.January, 10, 0, 0)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"same week no reset", date(2026, time.January, 16, 23, 0), false},
		{"new week resets", date(2026, time.January, 17, 0, 1), true},
		{"weeks later resets", date(2026, time.February, 4, 9, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldReset(lastWeekStart, tt.now, anchor); got != tt.want {
				t.Errorf("ShouldReset(%v, %v) = %v, want %v", lastWeekStart, tt.now, got, tt.want)
			}
		})
	}
}

func TestNextWeekStart(t *testing.T) {
	now := date(2026, time.January, 14, 15, 30)
	want := date(2026, time.January, 17, 0, 0)
	if got := NextWeekStart(now, anchor); !got.Equal(want) {
		t.Errorf("NextWeekStart(%v) = %v, want %v", now, got, want)
	}
}

func TestUntilReset(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{"midweek", date(2026, time.January, 14, 15, 30), 56*time.Hour + 30*time.Minute},
		{"week start", date(2026, time.January, 10, 0, 0), 7 * 24 * time.Hour},
		{"last minute of week", date(2026, time.January, 16, 23, 59), time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UntilReset(tt.now, anchor); got != tt.want {
				t.Errorf("UntilReset(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}
