package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/fitquest/fitquest-api/internal/auth"
	"github.com/fitquest/fitquest-api/internal/catalog"
	"github.com/fitquest/fitquest-api/internal/models"
	"github.com/fitquest/fitquest-api/internal/rewards"
)

type RewardHandler struct {
	gate    *rewards.Gate
	catalog *catalog.Catalog
}

func NewRewardHandler(gate *rewards.Gate, cat *catalog.Catalog) *RewardHandler {
	return &RewardHandler{gate: gate, catalog: cat}
}

type ListRewardsRequest struct{}

type ListRewardsResponse struct {
	Body struct {
		Definitions []catalog.RewardDefinition `json:"definitions"`
		Records     []models.UserReward        `json:"records"`
	}
}

func (h *RewardHandler) HandleListRewards(ctx context.Context, input *ListRewardsRequest) (*ListRewardsResponse, error) {
	userID := auth.SubjectFromContext(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	records, err := h.gate.Records(ctx, userID)
	if err != nil {
		return nil, httpError(err)
	}

	res := &ListRewardsResponse{}
	res.Body.Definitions = h.catalog.Rewards()
	res.Body.Records = records
	return res, nil
}

type ClaimRewardRequest struct {
	RewardID string `path:"rewardId" doc:"Reward to claim"`
}

type ClaimRewardResponse struct {
	Body struct {
		Record   models.UserReward `json:"record"`
		Benefits []string          `json:"benefits"`
	}
}

func (h *RewardHandler) HandleClaimReward(ctx context.Context, input *ClaimRewardRequest) (*ClaimRewardResponse, error) {
	userID := auth.SubjectFromContext(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	record, err := h.gate.Claim(ctx, userID, input.RewardID)
	if err != nil {
		return nil, httpError(err)
	}

	def, err := h.catalog.Reward(input.RewardID)
	if err != nil {
		return nil, httpError(err)
	}

	res := &ClaimRewardResponse{}
	res.Body.Record = record
	res.Body.Benefits = def.Benefits
	return res, nil
}
