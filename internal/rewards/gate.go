// Package rewards gates reward unlocking behind completed achievements.
// Unlock and claim are separate steps: unlock happens automatically on
// achievement completion, claim only by explicit user action.
package rewards

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fitquest/fitquest-api/internal/catalog"
	"github.com/fitquest/fitquest-api/internal/models"
	"github.com/fitquest/fitquest-api/internal/notifier"
	"github.com/fitquest/fitquest-api/internal/store"
)

// FeatureGranter activates a claimed reward's benefits in the surrounding
// application. Granting is signaled after the claim is durable; a grant
// failure is logged, not rolled back.
type FeatureGranter interface {
	Grant(userID string, benefits []string) error
}

type Gate struct {
	store    *store.Store
	catalog  *catalog.Catalog
	notifier notifier.Notifier
	granter  FeatureGranter
	now      func() time.Time
}

func NewGate(st *store.Store, cat *catalog.Catalog, n notifier.Notifier, g FeatureGranter) *Gate {
	return &Gate{store: st, catalog: cat, notifier: n, granter: g, now: time.Now}
}

// CheckUnlocks unlocks every reward whose required achievement is in the
// completed set and which is still locked for this user. Idempotent: the
// store write is conditioned on unlockedAt being null, so calling twice with
// the same completed set unlocks and notifies at most once.
func (g *Gate) CheckUnlocks(ctx context.Context, userID string, completedAchievementIDs []string) ([]string, error) {
	var newlyUnlocked []string
	for _, achievementID := range completedAchievementIDs {
		for _, def := range g.catalog.RewardsRequiring(achievementID) {
			if _, err := g.store.EnsureRewardRecord(ctx, userID, def.ID); err != nil {
				return newlyUnlocked, err
			}
			unlocked, err := g.store.MarkRewardUnlocked(ctx, userID, def.ID, g.now())
			if err != nil {
				return newlyUnlocked, err
			}
			if !unlocked {
				continue
			}
			newlyUnlocked = append(newlyUnlocked, def.ID)
			if g.notifier != nil {
				if err := g.notifier.RewardUnlocked(userID, def.ID, def.Name); err != nil {
					log.Printf("Failed to notify reward unlock %s for %s: %v", def.ID, userID, err)
				}
			}
		}
	}
	return newlyUnlocked, nil
}

// Claim marks an unlocked reward as claimed and signals the feature granter
// with its benefit list. A reward can be claimed at most once.
func (g *Gate) Claim(ctx context.Context, userID, rewardID string) (models.UserReward, error) {
	def, err := g.catalog.Reward(rewardID)
	if err != nil {
		return models.UserReward{}, err
	}

	rec, err := g.store.RewardRecord(ctx, userID, rewardID)
	if err != nil {
		return models.UserReward{}, err
	}
	if rec.UnlockedAt == nil {
		return models.UserReward{}, fmt.Errorf("reward %s: %w", rewardID, models.ErrNotUnlocked)
	}
	if rec.Claimed {
		return models.UserReward{}, fmt.Errorf("reward %s: %w", rewardID, models.ErrAlreadyClaimed)
	}

	claimed, err := g.store.MarkRewardClaimed(ctx, userID, rewardID, g.now())
	if err != nil {
		return models.UserReward{}, err
	}
	if !claimed {
		// Lost a race with a concurrent claim between the read above and the
		// conditional write.
		return models.UserReward{}, fmt.Errorf("reward %s: %w", rewardID, models.ErrAlreadyClaimed)
	}

	if g.granter != nil {
		if err := g.granter.Grant(userID, def.Benefits); err != nil {
			log.Printf("Failed to grant benefits for reward %s to %s: %v", rewardID, userID, err)
		}
	}

	rec, err = g.store.RewardRecord(ctx, userID, rewardID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return models.UserReward{}, err
	}
	return rec, nil
}

// Records returns the user's reward records, creating locked defaults for
// any catalog reward the user has no record for yet.
func (g *Gate) Records(ctx context.Context, userID string) ([]models.UserReward, error) {
	existing, err := g.store.RewardRecords(ctx, userID)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(existing))
	for _, r := range existing {
		have[r.RewardID] = true
	}
	for _, def := range g.catalog.Rewards() {
		if have[def.ID] {
			continue
		}
		rec, err := g.store.EnsureRewardRecord(ctx, userID, def.ID)
		if err != nil {
			return nil, err
		}
		existing = append(existing, rec)
	}
	return existing, nil
}
