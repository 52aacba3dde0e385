package handlers

import (
	"context"
	"errors"

	"github.com/fitquest/fitquest-api/internal/leaderboard"
	"github.com/fitquest/fitquest-api/internal/models"
)

type LeaderboardHandler struct {
	ranker *leaderboard.Ranker
}

func NewLeaderboardHandler(ranker *leaderboard.Ranker) *LeaderboardHandler {
	return &LeaderboardHandler{ranker: ranker}
}

type LeaderboardRequest struct {
	Timeframe string `query:"timeframe" doc:"weekly, monthly or allTime" enum:"weekly,monthly,allTime,"`
	Category  string `query:"category" doc:"Optional category filter"`
}

type LeaderboardResponse struct {
	Body struct {
		Timeframe string              `json:"timeframe"`
		Category  string              `json:"category,omitempty"`
		Entries   []leaderboard.Entry `json:"entries"`
		// FailedUserIDs lists users that could not be aggregated in this
		// snapshot. Non-empty only on partial results; never silently empty
		// when users were dropped.
		FailedUserIDs []string `json:"failed_user_ids,omitempty"`
	}
}

func (h *LeaderboardHandler) HandleLeaderboard(ctx context.Context, input *LeaderboardRequest) (*LeaderboardResponse, error) {
	tf, err := leaderboard.ParseTimeframe(input.Timeframe)
	if err != nil {
		return nil, httpError(err)
	}

	entries, err := h.ranker.RankAll(ctx, tf, input.Category)
	res := &LeaderboardResponse{}
	res.Body.Timeframe = string(tf)
	res.Body.Category = input.Category
	res.Body.Entries = entries

	if err != nil {
		var partial *models.PartialAggregationError
		if errors.As(err, &partial) {
			res.Body.FailedUserIDs = partial.FailedUserIDs
			return res, nil
		}
		return nil, httpError(err)
	}
	return res, nil
}
