package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/fitquest/fitquest-api/internal/analytics"
	"github.com/fitquest/fitquest-api/internal/auth"
	"github.com/fitquest/fitquest-api/internal/catalog"
	"github.com/fitquest/fitquest-api/internal/config"
	"github.com/fitquest/fitquest-api/internal/database"
	"github.com/fitquest/fitquest-api/internal/handlers"
	"github.com/fitquest/fitquest-api/internal/leaderboard"
	"github.com/fitquest/fitquest-api/internal/notifier"
	"github.com/fitquest/fitquest-api/internal/progress"
	"github.com/fitquest/fitquest-api/internal/rewards"
	"github.com/fitquest/fitquest-api/internal/store"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()
	location := cfg.Location()

	// Connect to Database
	db := database.Connect(cfg)
	st := store.New(db)

	// Catalog is loaded once and passed explicitly everywhere
	cat := catalog.Default()

	// Notification dispatcher (best-effort; the API runs without it)
	var dispatch notifier.Notifier
	if cfg.DiscordBotToken != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			log.Printf("Discord notifier not initialized: %v", err)
		} else {
			dispatch = notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID)
		}
	}

	// Initialize Services
	gate := rewards.NewGate(st, cat, dispatch, nil)
	tracker := progress.NewTracker(st, cat, dispatch, gate)
	ranker := leaderboard.NewRanker(st, cat, location)
	aggregator := analytics.NewAggregator(st, cat, location)

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg)
	progressHandler := handlers.NewProgressHandler(st, tracker, location)
	achievementHandler := handlers.NewAchievementHandler(st, cat)
	rewardHandler := handlers.NewRewardHandler(gate, cat)
	leaderboardHandler := handlers.NewLeaderboardHandler(ranker)
	analyticsHandler := handlers.NewAnalyticsHandler(aggregator)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, authHandler, progressHandler, achievementHandler,
		rewardHandler, leaderboardHandler, analyticsHandler)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
