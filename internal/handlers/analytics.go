package handlers

import (
	"context"

	"github.com/fitquest/fitquest-api/internal/analytics"
	"github.com/fitquest/fitquest-api/internal/catalog"
)

type AnalyticsHandler struct {
	aggregator *analytics.Aggregator
}

func NewAnalyticsHandler(agg *analytics.Aggregator) *AnalyticsHandler {
	return &AnalyticsHandler{aggregator: agg}
}

type AnalyticsRequest struct {
	UserID string `path:"userId" doc:"User to compute analytics for"`
}

type AnalyticsResponse struct {
	Body struct {
		analytics.Snapshot
		CommunityComparison map[catalog.Category]analytics.CategoryComparison `json:"community_comparison"`
	}
}

func (h *AnalyticsHandler) HandleAnalytics(ctx context.Context, input *AnalyticsRequest) (*AnalyticsResponse, error) {
	snapshot, err := h.aggregator.Snapshot(ctx, input.UserID)
	if err != nil {
		return nil, httpError(err)
	}

	comparison, err := h.aggregator.CommunityComparison(ctx, input.UserID)
	if err != nil {
		return nil, httpError(err)
	}

	res := &AnalyticsResponse{}
	res.Body.Snapshot = snapshot
	res.Body.CommunityComparison = comparison
	return res, nil
}
