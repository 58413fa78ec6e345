package utils

import (
	"testing"
	"time"
)

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{10, "10m"},
		{59, "59m"},
		{60, "1h"},
		{90, "1h 30m"},
		{120, "2h"},
		{150, "2h 30m"},
	}

	for _, tt := range tests {
		if got := FormatMinutes(tt.minutes); got != tt.want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestFormatCountdown(t *testing.T) {
	now := time.Date(2026, time.January, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		until time.Time
		want  string
	}{
		{"past", now.Add(-time.Minute), "now"},
		{"minutes", now.Add(45 * time.Minute), "45m"},
		{"hours", now.Add(5*time.Hour + 12*time.Minute), "5h 12m"},
		{"days", now.Add(53 * time.Hour), "2d 5h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCountdown(tt.until, now); got != tt.want {
				t.Errorf("FormatCountdown = %q, want %q", got, tt.want)
			}
		})
	}
}
