// Package catalog holds the immutable achievement and reward definitions.
// The catalog is loaded once at startup and passed explicitly to every
// service, so tests can substitute a small one.
package catalog

import (
	"fmt"

	"github.com/fitquest/fitquest-api/internal/models"
)

// Category classifies achievements for scoring weight and filtering.
// It is a closed set: anything outside the five constants is rejected at
// parse time, never silently scored as zero.
type Category string

const (
	CategoryActivityCount       Category = "activity-count"
	CategoryActivityStreak      Category = "activity-streak"
	CategorySocialShare         Category = "social-share"
	CategoryProgramCompletion   Category = "program-completion"
	CategoryCommunityEngagement Category = "community-engagement"
)

// Categories lists every valid category in declaration order.
func Categories() []Category {
	return []Category{
		CategoryActivityCount,
		CategoryActivityStreak,
		CategorySocialShare,
		CategoryProgramCompletion,
		CategoryCommunityEngagement,
	}
}

// ParseCategory validates a free-form category string.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryActivityCount, CategoryActivityStreak, CategorySocialShare,
		CategoryProgramCompletion, CategoryCommunityEngagement:
		return Category(s), nil
	}
	return "", fmt.Errorf("%w: unknown category %q", models.ErrInvalidInput, s)
}

// PointWeight returns the score weight for a category. The switch is
// exhaustive over the closed set; the zero return is unreachable for any
// Category produced by ParseCategory.
func PointWeight(c Category) int {
	switch c {
	case CategoryActivityCount:
		return 100
	case CategoryActivityStreak:
		return 150
	case CategorySocialShare:
		return 75
	case CategoryProgramCompletion:
		return 200
	case CategoryCommunityEngagement:
		return 125
	}
	return 0
}

// AchievementDefinition is one milestone in the catalog.
type AchievementDefinition struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       Category `json:"category"`
	TargetProgress int      `json:"target_progress"`
	Tier           int      `json:"tier"`
}

// PointWeight is the score contribution of this achievement once completed.
func (d AchievementDefinition) PointWeight() int {
	return PointWeight(d.Category)
}

// RewardDefinition gates a benefit grant behind one achievement.
type RewardDefinition struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	RequiredAchievementID string   `json:"required_achievement_id"`
	Tier                  int      `json:"tier"`
	Benefits              []string `json:"benefits"`
}

// Catalog is the read-only definition registry.
type Catalog struct {
	achievements []AchievementDefinition
	rewards      []RewardDefinition
	byID         map[string]AchievementDefinition
	byCategory   map[Category][]AchievementDefinition
	rewardByID   map[string]RewardDefinition
}

// New builds a catalog from definition slices and indexes them.
// Definitions referencing an unknown category or achievement are rejected.
func New(achievements []AchievementDefinition, rewards []RewardDefinition) (*Catalog, error) {
	c := &Catalog{
		achievements: achievements,
		rewards:      rewards,
		byID:         make(map[string]AchievementDefinition, len(achievements)),
		byCategory:   make(map[Category][]AchievementDefinition),
		rewardByID:   make(map[string]RewardDefinition, len(rewards)),
	}

	for _, def := range achievements {
		if _, err := ParseCategory(string(def.Category)); err != nil {
			return nil, fmt.Errorf("achievement %s: %w", def.ID, err)
		}
		if def.TargetProgress <= 0 {
			return nil, fmt.Errorf("%w: achievement %s has non-positive target", models.ErrInvalidInput, def.ID)
		}
		if _, dup := c.byID[def.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate achievement id %s", models.ErrInvalidInput, def.ID)
		}
		c.byID[def.ID] = def
		c.byCategory[def.Category] = append(c.byCategory[def.Category], def)
	}

	for _, r := range rewards {
		if _, ok := c.byID[r.RequiredAchievementID]; !ok {
			return nil, fmt.Errorf("reward %s requires unknown achievement %s: %w",
				r.ID, r.RequiredAchievementID, models.ErrNotFound)
		}
		if _, dup := c.rewardByID[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate reward id %s", models.ErrInvalidInput, r.ID)
		}
		c.rewardByID[r.ID] = r
	}

	return c, nil
}

// Achievement looks up one definition by id.
func (c *Catalog) Achievement(id string) (AchievementDefinition, error) {
	def, ok := c.byID[id]
	if !ok {
		return AchievementDefinition{}, fmt.Errorf("achievement %s: %w", id, models.ErrNotFound)
	}
	return def, nil
}

// ByCategory returns the definitions in one category (possibly empty).
func (c *Catalog) ByCategory(cat Category) []AchievementDefinition {
	return c.byCategory[cat]
}

// Achievements returns every achievement definition.
func (c *Catalog) Achievements() []AchievementDefinition {
	return c.achievements
}

// Reward looks up one reward definition by id.
func (c *Catalog) Reward(id string) (RewardDefinition, error) {
	r, ok := c.rewardByID[id]
	if !ok {
		return RewardDefinition{}, fmt.Errorf("reward %s: %w", id, models.ErrNotFound)
	}
	return r, nil
}

// Rewards returns every reward definition.
func (c *Catalog) Rewards() []RewardDefinition {
	return c.rewards
}

// RewardsRequiring returns the rewards gated on the given achievement.
func (c *Catalog) RewardsRequiring(achievementID string) []RewardDefinition {
	var out []RewardDefinition
	for _, r := range c.rewards {
		if r.RequiredAchievementID == achievementID {
			out = append(out, r)
		}
	}
	return out
}
