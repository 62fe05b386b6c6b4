package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDay_KeepsWallClockDate(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+9", 9*3600)
	ts := time.Date(2025, 3, 10, 1, 30, 0, 0, loc) // 2025-03-09 16:30 UTC

	got := Day(ts)
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Day = %v, want %v", got, want)
	}
}

func TestNewDateRange_Inverted(t *testing.T) {
	t.Parallel()

	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := NewDateRange(from, from.AddDate(0, 0, -1))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestWeekOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		day  time.Time
	}{
		{"monday", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"wednesday", time.Date(2025, 3, 12, 18, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2025, 3, 16, 23, 59, 0, 0, time.UTC)},
	}

	wantFrom := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := WeekOf(tt.day)
			if !r.From.Equal(wantFrom) || !r.To.Equal(wantTo) {
				t.Fatalf("WeekOf(%v) = %v", tt.day, r)
			}
			if r.Days() != 7 {
				t.Fatalf("Days() = %d, want 7", r.Days())
			}
		})
	}
}

func TestDateRange_Contains(t *testing.T) {
	t.Parallel()

	r := SingleDay(time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC))

	if !r.Contains(time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)) {
		t.Error("range should contain a later time on the same day")
	}
	if r.Contains(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)) {
		t.Error("range should not contain the next day")
	}
	if r.String() != "2025-03-10..2025-03-10" {
		t.Errorf("String() = %q", r.String())
	}
}

func TestParseDay(t *testing.T) {
	t.Parallel()

	d, err := ParseDay("2025-03-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Weekday() != time.Monday {
		t.Fatalf("weekday = %v, want Monday", d.Weekday())
	}

	if _, err := ParseDay("10/03/2025"); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
}
