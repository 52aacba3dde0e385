// Package leaderboard aggregates scores across a cohort into ranked,
// time-windowed entries with rank-change indicators.
package leaderboard

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/fitquest/fitquest-api/internal/catalog"
	"github.com/fitquest/fitquest-api/internal/models"
	"github.com/fitquest/fitquest-api/internal/scoring"
	"github.com/fitquest/fitquest-api/internal/store"
	"github.com/fitquest/fitquest-api/internal/streak"
)

// Timeframe selects the completion window entries are scored over.
type Timeframe string

const (
	Weekly  Timeframe = "weekly"
	Monthly Timeframe = "monthly"
	AllTime Timeframe = "allTime"
)

// ParseTimeframe validates a query-string timeframe.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case Weekly, Monthly, AllTime:
		return Timeframe(s), nil
	case "":
		return AllTime, nil
	}
	return "", fmt.Errorf("%w: unknown timeframe %q", models.ErrInvalidInput, s)
}

// WindowStart returns the cutoff for completions counted in this timeframe.
// The zero time means unfiltered.
func (tf Timeframe) WindowStart(now time.Time) time.Time {
	switch tf {
	case Weekly:
		return now.AddDate(0, 0, -7)
	case Monthly:
		return now.AddDate(0, 0, -30)
	}
	return time.Time{}
}

// Entry is one computed leaderboard row. Recomputed on every refresh; only
// the rank survives, to feed the next refresh's delta.
type Entry struct {
	UserID           string `json:"user_id"`
	Username         string `json:"username"`
	Avatar           string `json:"avatar,omitempty"`
	Score            int    `json:"score"`
	AchievementCount int    `json:"achievement_count"`
	Streak           int    `json:"streak"`
	Rank             int    `json:"rank"`
	RankDelta        int    `json:"rank_delta"`
}

// chunkSize is the unit of per-cohort failure isolation: one failed chunk
// fetch marks only its users as failed, the rest of the board still ranks.
const chunkSize = 100

type Ranker struct {
	store    *store.Store
	catalog  *catalog.Catalog
	location *time.Location
	now      func() time.Time
}

func NewRanker(st *store.Store, cat *catalog.Catalog, loc *time.Location) *Ranker {
	if loc == nil {
		loc = time.UTC
	}
	return &Ranker{store: st, catalog: cat, location: loc, now: time.Now}
}

// Rank computes the board for a cohort. Completed achievements are filtered
// to the timeframe window and optional category before scoring; streaks are
// timeframe-independent. previousRanks may be nil, in which case the
// persisted snapshot for this (timeframe, category) board supplies deltas.
//
// This is a batch report: records are multi-fetched in bounded chunks, never
// one round-trip per user. Per-chunk failures and mid-scan cancellation
// return the successfully aggregated entries plus a PartialAggregationError
// naming the users left out.
func (r *Ranker) Rank(ctx context.Context, cohort []string, tf Timeframe, category string, previousRanks map[string]int) ([]Entry, error) {
	if _, err := ParseTimeframe(string(tf)); err != nil {
		return nil, err
	}
	if category != "" {
		if _, err := catalog.ParseCategory(category); err != nil {
			return nil, err
		}
	}

	if previousRanks == nil {
		prev, err := r.store.PreviousRanks(ctx, string(tf), category)
		if err != nil {
			return nil, err
		}
		previousRanks = prev
	}

	now := r.now()
	windowStart := tf.WindowStart(now)

	var entries []Entry
	var failed []string
	var firstErr error

	for start := 0; start < len(cohort); start += chunkSize {
		if err := ctx.Err(); err != nil {
			failed = append(failed, cohort[start:]...)
			if firstErr == nil {
				firstErr = err
			}
			break
		}
		end := min(start+chunkSize, len(cohort))
		chunk := cohort[start:end]

		chunkEntries, err := r.rankChunk(ctx, chunk, windowStart, category, now)
		if err != nil {
			failed = append(failed, chunk...)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		entries = append(entries, chunkEntries...)
	}

	sortEntries(entries)
	for i := range entries {
		entries[i].Rank = i + 1
		if prev, ok := previousRanks[entries[i].UserID]; ok {
			entries[i].RankDelta = prev - entries[i].Rank
		}
	}

	if len(failed) > 0 {
		return entries, &models.PartialAggregationError{FailedUserIDs: failed, Cause: firstErr}
	}

	r.persistRanks(ctx, tf, category, entries)
	return entries, nil
}

// RankAll runs the board over the full user population.
func (r *Ranker) RankAll(ctx context.Context, tf Timeframe, category string) ([]Entry, error) {
	cohort, err := r.store.ListUserIDs(ctx)
	if err != nil {
		return nil, err
	}
	return r.Rank(ctx, cohort, tf, category, nil)
}

func (r *Ranker) rankChunk(ctx context.Context, chunk []string, windowStart time.Time, category string, now time.Time) ([]Entry, error) {
	recordsByUser, err := r.store.AchievementRecordsForUsers(ctx, chunk)
	if err != nil {
		return nil, err
	}
	timesByUser, err := r.store.ActivityTimesForUsers(ctx, chunk, time.Time{})
	if err != nil {
		return nil, err
	}
	usersByID, err := r.store.UsersBySubject(ctx, chunk)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(chunk))
	for _, userID := range chunk {
		filtered := r.filterRecords(recordsByUser[userID], windowStart, category)
		entry := Entry{
			UserID:           userID,
			Score:            scoring.Score(filtered, r.catalog),
			AchievementCount: scoring.CompletedCount(filtered),
			Streak:           streak.Current(timesByUser[userID], now, r.location),
		}
		if u, ok := usersByID[userID]; ok {
			entry.Username = u.Username
			entry.Avatar = u.Avatar
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// filterRecords keeps completed records inside the window (zero start means
// unfiltered) and category; uncompleted records never contribute.
func (r *Ranker) filterRecords(records []models.UserAchievement, windowStart time.Time, category string) []models.UserAchievement {
	out := make([]models.UserAchievement, 0, len(records))
	for _, rec := range records {
		if !rec.Completed || rec.CompletedAt == nil {
			continue
		}
		if !windowStart.IsZero() && rec.CompletedAt.Before(windowStart) {
			continue
		}
		if category != "" {
			def, err := r.catalog.Achievement(rec.AchievementID)
			if err != nil || string(def.Category) != category {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}

// sortEntries orders score desc, then achievement count desc, then userID
// ascending. The final key makes repeated runs over identical input produce
// identical order regardless of store iteration order.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if entries[i].AchievementCount != entries[j].AchievementCount {
			return entries[i].AchievementCount > entries[j].AchievementCount
		}
		return entries[i].UserID < entries[j].UserID
	})
}

// persistRanks snapshots the new ranks for the next refresh's deltas. The
// board itself already computed; a snapshot write failure is logged only.
func (r *Ranker) persistRanks(ctx context.Context, tf Timeframe, category string, entries []Entry) {
	ranks := make([]models.LeaderboardRank, len(entries))
	for i, e := range entries {
		ranks[i] = models.LeaderboardRank{UserID: e.UserID, Rank: e.Rank, Score: e.Score}
	}
	if err := r.store.SaveRanks(ctx, string(tf), category, ranks); err != nil {
		log.Printf("Failed to persist leaderboard snapshot (%s/%s): %v", tf, category, err)
	}
}
