// Package progress applies activity increments to per-user achievement
// records and detects completion transitions.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fitquest/fitquest-api/internal/catalog"
	"github.com/fitquest/fitquest-api/internal/models"
	"github.com/fitquest/fitquest-api/internal/notifier"
	"github.com/fitquest/fitquest-api/internal/rewards"
	"github.com/fitquest/fitquest-api/internal/store"
)

// casRetries bounds the compare-and-set retry loop. Conflicts and transient
// store failures are retried with backoff; anything else surfaces at once.
const casRetries = 5

const retryBackoff = 10 * time.Millisecond

// Completion is one achievement crossing its target.
type Completion struct {
	AchievementID string `json:"achievement_id"`
	Name          string `json:"name"`
}

type Tracker struct {
	store    *store.Store
	catalog  *catalog.Catalog
	notifier notifier.Notifier
	gate     *rewards.Gate
	now      func() time.Time

	// userLocks serializes increments per user within this process. The
	// version CAS in the store covers writers in other processes.
	userLocks sync.Map
}

func NewTracker(st *store.Store, cat *catalog.Catalog, n notifier.Notifier, gate *rewards.Gate) *Tracker {
	return &Tracker{store: st, catalog: cat, notifier: n, gate: gate, now: time.Now}
}

func (t *Tracker) lock(userID string) *sync.Mutex {
	mu, _ := t.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// ApplyProgress adds delta to every not-yet-completed achievement in the
// category for this user, lazily creating records on first touch. Records
// that cross their target transition to completed exactly once; completions
// are forwarded to the reward gate and the notification dispatcher without
// affecting the committed progress state.
func (t *Tracker) ApplyProgress(ctx context.Context, userID string, category catalog.Category, delta int) ([]Completion, error) {
	if delta <= 0 {
		return nil, fmt.Errorf("%w: delta must be positive, got %d", models.ErrInvalidInput, delta)
	}
	if _, err := catalog.ParseCategory(string(category)); err != nil {
		return nil, err
	}

	mu := t.lock(userID)
	mu.Lock()
	defer mu.Unlock()

	defs := t.catalog.ByCategory(category)
	records, err := t.loadRecords(ctx, userID)
	if err != nil {
		return nil, err
	}

	var completions []Completion
	for _, def := range defs {
		rec, ok := records[def.ID]
		if ok && rec.Completed {
			continue
		}
		if !ok {
			rec = models.UserAchievement{UserID: userID, AchievementID: def.ID}
			if err := t.createRecord(ctx, &rec); err != nil {
				return completions, err
			}
		}

		completed, err := t.applyDelta(ctx, rec, def, delta)
		if err != nil {
			return completions, err
		}
		if completed {
			completions = append(completions, Completion{AchievementID: def.ID, Name: def.Name})
		}
	}

	t.dispatch(ctx, userID, completions)
	return completions, nil
}

// RecordStreak lifts every activity-streak achievement's progress to the
// current streak day count. Progress only moves up: a broken streak leaves
// the high-water mark in place, which keeps the record's non-decreasing
// invariant while still triggering completion at the first crossing.
func (t *Tracker) RecordStreak(ctx context.Context, userID string, streakDays int) ([]Completion, error) {
	if streakDays < 0 {
		return nil, fmt.Errorf("%w: negative streak", models.ErrInvalidInput)
	}
	if streakDays == 0 {
		return nil, nil
	}

	mu := t.lock(userID)
	mu.Lock()
	defer mu.Unlock()

	records, err := t.loadRecords(ctx, userID)
	if err != nil {
		return nil, err
	}

	var completions []Completion
	for _, def := range t.catalog.ByCategory(catalog.CategoryActivityStreak) {
		rec, ok := records[def.ID]
		if ok && (rec.Completed || rec.CurrentProgress >= streakDays) {
			continue
		}
		if !ok {
			rec = models.UserAchievement{UserID: userID, AchievementID: def.ID}
			if err := t.createRecord(ctx, &rec); err != nil {
				return completions, err
			}
		}

		completed, err := t.raiseTo(ctx, rec, def, streakDays)
		if err != nil {
			return completions, err
		}
		if completed {
			completions = append(completions, Completion{AchievementID: def.ID, Name: def.Name})
		}
	}

	t.dispatch(ctx, userID, completions)
	return completions, nil
}

// loadRecords maps the user's records by achievement id.
func (t *Tracker) loadRecords(ctx context.Context, userID string) (map[string]models.UserAchievement, error) {
	list, err := t.store.AchievementRecords(ctx, userID)
	if err != nil {
		return nil, err
	}
	records := make(map[string]models.UserAchievement, len(list))
	for _, r := range list {
		records[r.AchievementID] = r
	}
	return records, nil
}

// createRecord inserts a fresh zero record, tolerating a concurrent insert
// by re-reading the winner.
func (t *Tracker) createRecord(ctx context.Context, rec *models.UserAchievement) error {
	err := t.store.CreateAchievementRecord(ctx, rec)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrConflict) {
		return err
	}
	records, err := t.loadRecords(ctx, rec.UserID)
	if err != nil {
		return err
	}
	existing, ok := records[rec.AchievementID]
	if !ok {
		return fmt.Errorf("achievement record %s/%s: %w", rec.UserID, rec.AchievementID, models.ErrStoreUnavailable)
	}
	*rec = existing
	return nil
}

// applyDelta is the read-modify-write for one record: add delta, check the
// completion threshold, CAS the result. On conflict it re-reads and
// re-applies so no concurrent increment is lost.
func (t *Tracker) applyDelta(ctx context.Context, rec models.UserAchievement, def catalog.AchievementDefinition, delta int) (bool, error) {
	return t.mutate(ctx, rec, def, func(progress int) int { return progress + delta })
}

// raiseTo lifts progress to at least target, never lowering it.
func (t *Tracker) raiseTo(ctx context.Context, rec models.UserAchievement, def catalog.AchievementDefinition, target int) (bool, error) {
	return t.mutate(ctx, rec, def, func(progress int) int {
		if target > progress {
			return target
		}
		return progress
	})
}

func (t *Tracker) mutate(ctx context.Context, rec models.UserAchievement, def catalog.AchievementDefinition, next func(int) int) (bool, error) {
	var lastErr error
	for attempt := 0; attempt < casRetries; attempt++ {
		if rec.Completed {
			return false, nil
		}

		updated := rec
		updated.CurrentProgress = next(rec.CurrentProgress)
		crossed := false
		if updated.CurrentProgress >= def.TargetProgress {
			now := t.now()
			updated.Completed = true
			updated.CompletedAt = &now
			crossed = true
		}
		if updated.CurrentProgress == rec.CurrentProgress && !crossed {
			return false, nil
		}

		err := t.store.CompareAndSetAchievementRecord(ctx, &updated, rec.RecordVersion)
		if err == nil {
			return crossed, nil
		}
		lastErr = err
		if !errors.Is(err, models.ErrConflict) && !errors.Is(err, models.ErrStoreUnavailable) {
			return false, err
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(retryBackoff * time.Duration(attempt+1)):
		}

		records, rerr := t.loadRecords(ctx, rec.UserID)
		if rerr != nil {
			return false, rerr
		}
		fresh, ok := records[rec.AchievementID]
		if !ok {
			return false, fmt.Errorf("achievement record %s/%s: %w", rec.UserID, rec.AchievementID, models.ErrNotFound)
		}
		rec = fresh
	}
	return false, fmt.Errorf("apply progress %s/%s: retries exhausted: %w", rec.UserID, rec.AchievementID, lastErr)
}

// dispatch forwards completion events. Progress state is already durable;
// dispatcher or gate failure is logged and never propagated back.
func (t *Tracker) dispatch(ctx context.Context, userID string, completions []Completion) {
	if len(completions) == 0 {
		return
	}

	ids := make([]string, len(completions))
	for i, c := range completions {
		ids[i] = c.AchievementID
		if t.notifier != nil {
			if err := t.notifier.AchievementCompleted(userID, c.AchievementID, c.Name); err != nil {
				log.Printf("Failed to notify achievement %s for %s: %v", c.AchievementID, userID, err)
			}
		}
	}

	if t.gate != nil {
		if _, err := t.gate.CheckUnlocks(ctx, userID, ids); err != nil {
			// The next unlock check is idempotent and will catch up.
			log.Printf("Failed to check reward unlocks for %s: %v", userID, err)
		}
	}
}
