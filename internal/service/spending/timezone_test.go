package spending

import (
	"testing"
	"time"
)

func TestDayStart(t *testing.T) {
	t.Parallel()

	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 2026-01-15 01:30 UTC is still 2026-01-14 evening in New York.
	now := time.Date(2026, 1, 15, 1, 30, 0, 0, time.UTC)
	got := DayStart(now, ny)
	want := time.Date(2026, 1, 14, 5, 0, 0, 0, time.UTC) // midnight EST
	if !got.Equal(want) {
		t.Errorf("DayStart = %v, want %v", got, want)
	}

	// Same check under daylight saving: midnight EDT is 04:00 UTC.
	now = time.Date(2026, 7, 15, 1, 30, 0, 0, time.UTC)
	got = DayStart(now, ny)
	want = time.Date(2026, 7, 14, 4, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DayStart (EDT) = %v, want %v", got, want)
	}
}

func TestNextDayStart_SpringForward(t *testing.T) {
	t.Parallel()

	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// DST starts 2026-03-08 in New York; the day is 23 hours long.
	now := time.Date(2026, 3, 8, 12, 0, 0, 0, ny)
	start := DayStart(now, ny)
	next := NextDayStart(now, ny)
	if d := next.Sub(start); d != 23*time.Hour {
		t.Errorf("spring-forward day length = %v, want 23h", d)
	}
}

func TestMonthStart(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC)
	got := MonthStart(now, time.UTC)
	want := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("MonthStart = %v, want %v", got, want)
	}

	next := NextMonthStart(now, time.UTC)
	if want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC); !next.Equal(want) {
		t.Errorf("NextMonthStart = %v, want %v", next, want)
	}
}

func TestParseTimezone_Fallback(t *testing.T) {
	t.Parallel()

	if loc := ParseTimezone("Not/AZone"); loc != time.UTC {
		t.Errorf("ParseTimezone fallback = %v, want UTC", loc)
	}
	if loc := ParseTimezone("Europe/Berlin"); loc.String() != "Europe/Berlin" {
		t.Errorf("ParseTimezone = %v", loc)
	}
}
