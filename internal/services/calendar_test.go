package services

import (
	"testing"
	"time"
)

func TestLocalDateKeyFollowsWallClockNotUTC(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 23:30 UTC on March 4th is already March 5th in Tokyo.
	instant := time.Date(2026, 3, 4, 23, 30, 0, 0, time.UTC)
	if got := LocalDateKey(instant, tokyo); got != "2026-03-05" {
		t.Fatalf("LocalDateKey() = %q, want 2026-03-05", got)
	}
	if got := LocalDateKey(instant, time.UTC); got != "2026-03-04" {
		t.Fatalf("LocalDateKey() = %q, want 2026-03-04", got)
	}
}

func TestLocalDateKeyStableWithinDayAndFlipsAtMidnight(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	morning := time.Date(2026, 7, 12, 0, 0, 1, 0, rome)
	evening := time.Date(2026, 7, 12, 23, 59, 59, 0, rome)
	if LocalDateKey(morning, rome) != LocalDateKey(evening, rome) {
		t.Fatal("expected stable key across one local day")
	}

	afterMidnight := evening.Add(2 * time.Second)
	if LocalDateKey(afterMidnight, rome) == LocalDateKey(evening, rome) {
		t.Fatal("expected key to change at local midnight")
	}
}

func TestStartOfWeekAnchorsOnMonday(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		want string
	}{
		{
			name: "monday maps to itself",
			day:  time.Date(2026, 2, 16, 15, 0, 0, 0, time.UTC),
			want: "2026-02-16",
		},
		{
			name: "wednesday maps back to monday",
			day:  time.Date(2026, 2, 18, 8, 0, 0, 0, time.UTC),
			want: "2026-02-16",
		},
		{
			name: "sunday counts as offset six, not zero",
			day:  time.Date(2026, 2, 22, 23, 0, 0, 0, time.UTC),
			want: "2026-02-16",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StartOfWeek(tt.day, time.UTC)
			if got.Format("2006-01-02") != tt.want {
				t.Fatalf("StartOfWeek() = %s, want %s", got.Format("2006-01-02"), tt.want)
			}
			if got.Weekday() != time.Monday {
				t.Fatalf("expected Monday, got %s", got.Weekday())
			}
			if got.Hour() != 0 || got.Minute() != 0 {
				t.Fatalf("expected local midnight, got %s", got.Format(time.RFC3339))
			}
		})
	}
}
