// Package streak derives consecutive-activity-day counts from timestamped
// activity logs. This is the single canonical implementation: the leaderboard,
// analytics, and streak-gated achievements all call it so the numbers never
// diverge between surfaces.
package streak

import (
	"sort"
	"time"
)

// Current returns the trailing streak: the number of consecutive calendar
// days with at least one event, ending on asOf's day or the day immediately
// before it. A most-recent activity day further back than that means the
// streak is broken and the result is 0, not the last known value.
//
// Days are calendar days in loc (UTC if nil); same-day events deduplicate.
func Current(times []time.Time, asOf time.Time, loc *time.Location) int {
	days := distinctDaysDesc(times, loc)
	if len(days) == 0 {
		return 0
	}

	today := dayNumber(asOf, loc)
	if days[0] != today && days[0] != today-1 {
		return 0
	}

	count := 1
	for i := 1; i < len(days); i++ {
		if days[i] != days[i-1]-1 {
			break
		}
		count++
	}
	return count
}

// Longest returns the longest run of consecutive activity days anywhere in
// the log. This is the historical maximum, a different metric from Current;
// the two must not be conflated.
func Longest(times []time.Time, loc *time.Location) int {
	days := distinctDaysDesc(times, loc)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i] == days[i-1]-1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// distinctDaysDesc maps timestamps to calendar-day numbers in loc,
// deduplicates, and sorts descending.
func distinctDaysDesc(times []time.Time, loc *time.Location) []int {
	seen := make(map[int]struct{}, len(times))
	for _, t := range times {
		seen[dayNumber(t, loc)] = struct{}{}
	}
	days := make([]int, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(days)))
	return days
}

// dayNumber counts whole days since the Unix epoch for t's calendar date
// in loc. Adjacent dates differ by exactly 1, which makes the walk above a
// plain integer comparison.
func dayNumber(t time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
