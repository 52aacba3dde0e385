package models

import (
	"time"

	"gorm.io/gorm"
)

// UserAchievement tracks one user's progress toward one achievement
// definition. CurrentProgress never decreases and Completed never resets;
// the progress tracker is the only writer.
type UserAchievement struct {
	gorm.Model
	UserID          string     `gorm:"uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID   string     `gorm:"uniqueIndex:idx_user_achievement" json:"achievement_id"`
	CurrentProgress int        `json:"current_progress"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	// RecordVersion backs the optimistic compare-and-set used to serialize
	// concurrent increments on the same record.
	RecordVersion int `json:"-"`
}
