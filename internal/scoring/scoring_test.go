package scoring_test

import (
	"testing"
	"time"

	"github.com/fitquest/fitquest-api/internal/catalog"
	"github.com/fitquest/fitquest-api/internal/models"
	"github.com/fitquest/fitquest-api/internal/scoring"
)

func completedRecord(achievementID string) models.UserAchievement {
	now := time.Now()
	return models.UserAchievement{
		UserID:        "u1",
		AchievementID: achievementID,
		Completed:     true,
		CompletedAt:   &now,
	}
}

func TestScore_SumsCategoryWeights(t *testing.T) {
	cat := catalog.Default()
	records := []models.UserAchievement{
		completedRecord("workout_10"),  // activity-count, 100
		completedRecord("streak_7"),    // activity-streak, 150
		completedRecord("program_1"),   // program-completion, 200
		{UserID: "u1", AchievementID: "share_1", CurrentProgress: 1}, // not completed
	}

	if got := scoring.Score(records, cat); got != 450 {
		t.Errorf("expected 450, got %d", got)
	}
	if got := scoring.CompletedCount(records); got != 3 {
		t.Errorf("expected 3 completed, got %d", got)
	}
}

func TestScore_Deterministic(t *testing.T) {
	cat := catalog.Default()
	records := []models.UserAchievement{
		completedRecord("workout_10"),
		completedRecord("community_5"),
	}

	first := scoring.Score(records, cat)
	second := scoring.Score(records, cat)
	if first != second {
		t.Errorf("score not reproducible: %d vs %d", first, second)
	}
}

func TestScore_StrictlyIncreasingWithCompletions(t *testing.T) {
	cat := catalog.Default()
	records := []models.UserAchievement{completedRecord("workout_10")}

	before := scoring.Score(records, cat)
	records = append(records, completedRecord("workout_50"))
	after := scoring.Score(records, cat)

	if after <= before {
		t.Errorf("expected score to increase, got %d then %d", before, after)
	}
}

func TestScore_UnknownAchievementSkipped(t *testing.T) {
	cat := catalog.Default()
	records := []models.UserAchievement{completedRecord("retired_achievement")}
	if got := scoring.Score(records, cat); got != 0 {
		t.Errorf("expected 0 for record missing from catalog, got %d", got)
	}
}

func TestScore_Empty(t *testing.T) {
	if got := scoring.Score(nil, catalog.Default()); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}
