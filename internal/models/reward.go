package models

import (
	"time"

	"gorm.io/gorm"
)

// UserReward is the per-user unlock/claim state for one reward definition.
// UnlockedAt is set exactly once when the required achievement completes;
// ClaimedAt exactly once by an explicit claim.
type UserReward struct {
	gorm.Model
	UserID     string     `gorm:"uniqueIndex:idx_user_reward" json:"user_id"`
	RewardID   string     `gorm:"uniqueIndex:idx_user_reward" json:"reward_id"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
	Claimed    bool       `json:"claimed"`
	ClaimedAt  *time.Time `json:"claimed_at,omitempty"`
}
