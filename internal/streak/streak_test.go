package streak_test

import (
	"testing"
	"time"

	"github.com/fitquest/fitquest-api/internal/streak"
)

func day(offset int) time.Time {
	base := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func TestCurrent_Empty(t *testing.T) {
	if got := streak.Current(nil, day(0), time.UTC); got != 0 {
		t.Errorf("expected 0 for empty log, got %d", got)
	}
}

func TestCurrent_SingleEventToday(t *testing.T) {
	if got := streak.Current([]time.Time{day(0)}, day(0), time.UTC); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
}

func TestCurrent_ThreeConsecutiveDays(t *testing.T) {
	times := []time.Time{day(0), day(-1), day(-2)}
	if got := streak.Current(times, day(0), time.UTC); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

func TestCurrent_GapStopsTrailingRun(t *testing.T) {
	// Activity on D and D-3: the older day does not extend the streak.
	times := []time.Time{day(0), day(-3)}
	if got := streak.Current(times, day(0), time.UTC); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
}

func TestCurrent_YesterdayKeepsStreakAlive(t *testing.T) {
	// Most recent activity yesterday still counts: the user has not missed
	// a full day yet.
	times := []time.Time{day(-1), day(-2)}
	if got := streak.Current(times, day(0), time.UTC); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

func TestCurrent_BrokenStreakIsZero(t *testing.T) {
	// Last activity two days ago: broken, not "last known value".
	times := []time.Time{day(-2), day(-3), day(-4)}
	if got := streak.Current(times, day(0), time.UTC); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestCurrent_SameDayDeduplicates(t *testing.T) {
	times := []time.Time{
		day(0), day(0).Add(3 * time.Hour), day(0).Add(7 * time.Hour),
		day(-1),
	}
	if got := streak.Current(times, day(0), time.UTC); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

func TestCurrent_TimezoneChangesDayBoundary(t *testing.T) {
	// 23:30 UTC on July 14 is already July 15 in UTC+2. With activity at
	// that instant and the day before in local time, the local streak is 2
	// while the UTC streak sees a same-day duplicate.
	loc := time.FixedZone("UTC+2", 2*3600)
	late := time.Date(2025, 7, 14, 23, 30, 0, 0, time.UTC)
	times := []time.Time{late, late.AddDate(0, 0, -1)}
	asOf := time.Date(2025, 7, 15, 8, 0, 0, 0, time.UTC)

	if got := streak.Current(times, asOf, loc); got != 2 {
		t.Errorf("expected 2 in UTC+2, got %d", got)
	}
}

func TestCurrent_NilLocationDefaultsToUTC(t *testing.T) {
	times := []time.Time{day(0), day(-1)}
	if got := streak.Current(times, day(0), nil); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

func TestLongest_TrailingAndMaximumDiffer(t *testing.T) {
	// A five-day run in the past, then a gap, then two trailing days.
	times := []time.Time{
		day(-10), day(-11), day(-12), day(-13), day(-14),
		day(0), day(-1),
	}
	if got := streak.Longest(times, time.UTC); got != 5 {
		t.Errorf("expected longest 5, got %d", got)
	}
	if got := streak.Current(times, day(0), time.UTC); got != 2 {
		t.Errorf("expected trailing 2, got %d", got)
	}
}

func TestLongest_Empty(t *testing.T) {
	if got := streak.Longest(nil, time.UTC); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}
