// Package analytics derives per-user completion statistics and
// community comparisons from achievement records and the activity log.
package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/fitquest/fitquest-api/internal/catalog"
	"github.com/fitquest/fitquest-api/internal/models"
	"github.com/fitquest/fitquest-api/internal/store"
	"github.com/fitquest/fitquest-api/internal/streak"
)

// TimelinePoint is one calendar day in the completion timeline. Total is
// the cumulative completion count up to and including this day, not the
// catalog size.
type TimelinePoint struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// Delta is one performance metric's trailing-7-day value against the prior
// 7 days.
type Delta struct {
	Value         int     `json:"value"`
	PercentChange float64 `json:"percent_change"`
}

// Snapshot is the derived, ephemeral analytics view for one user.
type Snapshot struct {
	CompletionRate       float64                   `json:"completion_rate"`
	RecentUnlocks        int                       `json:"recent_unlocks"`
	CategoryDistribution map[catalog.Category]int  `json:"category_distribution"`
	Timeline             []TimelinePoint           `json:"timeline"`
	PerformanceDeltas    map[string]Delta          `json:"performance_deltas"`
	CurrentStreak        int                       `json:"current_streak"`
	LongestStreak        int                       `json:"longest_streak"`
}

// CategoryComparison is one user's completed count in a category against the
// community mean.
type CategoryComparison struct {
	User             int     `json:"user"`
	CommunityAverage float64 `json:"community_average"`
}

type Aggregator struct {
	store    *store.Store
	catalog  *catalog.Catalog
	location *time.Location
	now      func() time.Time
}

func NewAggregator(st *store.Store, cat *catalog.Catalog, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{store: st, catalog: cat, location: loc, now: time.Now}
}

// Snapshot computes the full analytics view for one user.
func (a *Aggregator) Snapshot(ctx context.Context, userID string) (Snapshot, error) {
	records, err := a.store.AchievementRecords(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	events, err := a.store.ActivityEvents(ctx, userID, time.Time{})
	if err != nil {
		return Snapshot{}, err
	}

	now := a.now()
	times := make([]time.Time, len(events))
	for i, ev := range events {
		times[i] = ev.OccurredAt
	}

	snap := Snapshot{
		CategoryDistribution: make(map[catalog.Category]int),
		PerformanceDeltas:    make(map[string]Delta),
		CurrentStreak:        streak.Current(times, now, a.location),
		LongestStreak:        streak.Longest(times, a.location),
	}

	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	completed := 0
	achievementsThisWeek, achievementsPriorWeek := 0, 0
	for _, r := range records {
		if !r.Completed || r.CompletedAt == nil {
			continue
		}
		completed++
		if def, err := a.catalog.Achievement(r.AchievementID); err == nil {
			snap.CategoryDistribution[def.Category]++
		}
		if !r.CompletedAt.Before(weekAgo) {
			snap.RecentUnlocks++
			achievementsThisWeek++
		} else if !r.CompletedAt.Before(twoWeeksAgo) {
			achievementsPriorWeek++
		}
	}

	if total := len(a.catalog.Achievements()); total > 0 {
		snap.CompletionRate = 100 * float64(completed) / float64(total)
	}

	activitiesThisWeek, activitiesPriorWeek := 0, 0
	for _, ev := range events {
		if !ev.OccurredAt.Before(weekAgo) {
			activitiesThisWeek++
		} else if !ev.OccurredAt.Before(twoWeeksAgo) {
			activitiesPriorWeek++
		}
	}

	snap.PerformanceDeltas["achievements_completed"] = delta(achievementsThisWeek, achievementsPriorWeek)
	snap.PerformanceDeltas["activities_completed"] = delta(activitiesThisWeek, activitiesPriorWeek)
	snap.Timeline = a.timeline(records)

	return snap, nil
}

// CommunityComparison computes, per category, this user's completed count
// against the mean across the full user population. The population scan is
// batched through the store; mid-scan cancellation aborts cleanly since the
// scan is read-only.
func (a *Aggregator) CommunityComparison(ctx context.Context, userID string) (map[catalog.Category]CategoryComparison, error) {
	population, err := a.store.ListUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	recordsByUser, err := a.store.AchievementRecordsForUsers(ctx, population)
	if err != nil {
		return nil, err
	}

	userCounts := make(map[catalog.Category]int)
	communityTotals := make(map[catalog.Category]int)
	for uid, records := range recordsByUser {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, r := range records {
			if !r.Completed {
				continue
			}
			def, err := a.catalog.Achievement(r.AchievementID)
			if err != nil {
				continue
			}
			communityTotals[def.Category]++
			if uid == userID {
				userCounts[def.Category]++
			}
		}
	}

	out := make(map[catalog.Category]CategoryComparison, len(catalog.Categories()))
	for _, cat := range catalog.Categories() {
		avg := 0.0
		if len(population) > 0 {
			avg = float64(communityTotals[cat]) / float64(len(population))
		}
		out[cat] = CategoryComparison{User: userCounts[cat], CommunityAverage: avg}
	}
	return out, nil
}

// timeline buckets completions by UTC calendar date of completedAt and
// carries a running cumulative total.
func (a *Aggregator) timeline(records []models.UserAchievement) []TimelinePoint {
	perDay := make(map[string]int)
	for _, r := range records {
		if !r.Completed || r.CompletedAt == nil {
			continue
		}
		perDay[r.CompletedAt.UTC().Format("2006-01-02")]++
	}

	dates := make([]string, 0, len(perDay))
	for d := range perDay {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	points := make([]TimelinePoint, 0, len(dates))
	running := 0
	for _, d := range dates {
		running += perDay[d]
		points = append(points, TimelinePoint{Date: d, Completed: perDay[d], Total: running})
	}
	return points
}

// delta applies the percent-change conventions: prior 0 and current positive
// reads as +100%, both zero as 0%.
func delta(current, prior int) Delta {
	d := Delta{Value: current}
	switch {
	case prior > 0:
		d.PercentChange = 100 * float64(current-prior) / float64(prior)
	case current > 0:
		d.PercentChange = 100
	}
	return d
}
