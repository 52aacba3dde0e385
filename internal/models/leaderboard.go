package models

import (
	"gorm.io/gorm"
)

// LeaderboardRank is the persisted rank from the previous leaderboard
// refresh for one (timeframe, category, user) cell. It only exists to feed
// rank-delta computation; the ranked entries themselves are ephemeral.
type LeaderboardRank struct {
	gorm.Model
	Timeframe string `gorm:"uniqueIndex:idx_board_cell;size:20" json:"timeframe"`
	Category  string `gorm:"uniqueIndex:idx_board_cell;size:40" json:"category"`
	UserID    string `gorm:"uniqueIndex:idx_board_cell" json:"user_id"`
	Rank      int    `json:"rank"`
	Score     int    `json:"score"`
}
