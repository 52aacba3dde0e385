package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/fitquest/fitquest-api/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func RegisterRoutes(
	r *chi.Mux,
	authHandler *auth.AuthHandler,
	progressHandler *ProgressHandler,
	achievementHandler *AchievementHandler,
	rewardHandler *RewardHandler,
	leaderboardHandler *LeaderboardHandler,
	analyticsHandler *AnalyticsHandler,
) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("FitQuest API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:   "http",
			Scheme: "bearer",
		},
	}
	api := humachi.New(r, config)

	// Token check runs per operation and only enforces on operations that
	// declare a security requirement (the ones registered with `secured`).
	api.UseMiddleware(authHandler.Middleware(api))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Public routes
	huma.Get(api, "/leaderboard", leaderboardHandler.HandleLeaderboard)
	huma.Get(api, "/analytics/{userId}", analyticsHandler.HandleAnalytics)

	// Protected routes
	huma.Post(api, "/progress", progressHandler.HandleApplyProgress, secured)
	huma.Post(api, "/activity", progressHandler.HandleRecordActivity, secured)
	huma.Get(api, "/achievements", achievementHandler.HandleListAchievements, secured)
	huma.Get(api, "/rewards", rewardHandler.HandleListRewards, secured)
	huma.Post(api, "/rewards/{rewardId}/claim", rewardHandler.HandleClaimReward, secured)
}

func secured(o *huma.Operation) {
	o.Security = []map[string][]string{{"bearerAuth": {}}}
}
