package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/fitquest/fitquest-api/internal/auth"
	"github.com/fitquest/fitquest-api/internal/catalog"
	"github.com/fitquest/fitquest-api/internal/models"
	"github.com/fitquest/fitquest-api/internal/scoring"
	"github.com/fitquest/fitquest-api/internal/store"
)

type AchievementHandler struct {
	store   *store.Store
	catalog *catalog.Catalog
}

func NewAchievementHandler(st *store.Store, cat *catalog.Catalog) *AchievementHandler {
	return &AchievementHandler{store: st, catalog: cat}
}

type ListAchievementsRequest struct{}

type ListAchievementsResponse struct {
	Body struct {
		Definitions []catalog.AchievementDefinition `json:"definitions"`
		Records     []models.UserAchievement        `json:"records"`
		// Score is the all-time score shown on the profile. It is unfiltered
		// and distinct from the timeframe-windowed leaderboard score.
		Score int `json:"score"`
	}
}

func (h *AchievementHandler) HandleListAchievements(ctx context.Context, input *ListAchievementsRequest) (*ListAchievementsResponse, error) {
	userID := auth.SubjectFromContext(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	records, err := h.store.AchievementRecords(ctx, userID)
	if err != nil {
		return nil, httpError(err)
	}

	res := &ListAchievementsResponse{}
	res.Body.Definitions = h.catalog.Achievements()
	res.Body.Records = records
	res.Body.Score = scoring.Score(records, h.catalog)
	return res, nil
}
