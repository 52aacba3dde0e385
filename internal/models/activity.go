package models

import (
	"time"

	"gorm.io/gorm"
)

// ActivityEvent is one completed activity session. The event log is
// append-only; streaks and analytics read it, nothing rewrites it.
type ActivityEvent struct {
	gorm.Model
	EventID    string    `gorm:"uniqueIndex" json:"event_id"`
	UserID     string    `gorm:"index" json:"user_id"`
	Kind       string    `json:"kind"`
	OccurredAt time.Time `gorm:"index" json:"occurred_at"`
	Magnitude  int       `json:"magnitude"`
}
