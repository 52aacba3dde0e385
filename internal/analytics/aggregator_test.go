package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/fitquest/fitquest-api/internal/analytics"
	"github.com/fitquest/fitquest-api/internal/catalog"
	"github.com/fitquest/fitquest-api/internal/models"
	"github.com/fitquest/fitquest-api/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) (*gorm.DB, *store.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db.AutoMigrate(&models.User{}, &models.UserAchievement{}, &models.ActivityEvent{})
	return db, store.New(db)
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.AchievementDefinition{
		{ID: "count_1", Category: catalog.CategoryActivityCount, TargetProgress: 1, Tier: 1},
		{ID: "count_2", Category: catalog.CategoryActivityCount, TargetProgress: 2, Tier: 1},
		{ID: "share_1", Category: catalog.CategorySocialShare, TargetProgress: 1, Tier: 1},
		{ID: "program_1", Category: catalog.CategoryProgramCompletion, TargetProgress: 1, Tier: 1},
	}, nil)
	if err != nil {
		t.Fatalf("test catalog: %v", err)
	}
	return c
}

func complete(t *testing.T, db *gorm.DB, userID, achievementID string, at time.Time) {
	t.Helper()
	rec := models.UserAchievement{
		UserID: userID, AchievementID: achievementID,
		CurrentProgress: 1, Completed: true, CompletedAt: &at,
	}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("seed record: %v", err)
	}
}

func event(t *testing.T, db *gorm.DB, userID, id string, at time.Time) {
	t.Helper()
	ev := models.ActivityEvent{EventID: id, UserID: userID, Kind: "workout", OccurredAt: at}
	if err := db.Create(&ev).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
}

func TestSnapshot_CompletionRateAndDistribution(t *testing.T) {
	db, st := testDB(t)
	agg := analytics.NewAggregator(st, testCatalog(t), time.UTC)
	now := time.Now()

	complete(t, db, "ana", "count_1", now)
	complete(t, db, "ana", "share_1", now)

	snap, err := agg.Snapshot(context.Background(), "ana")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	// 2 of 4 definitions completed.
	if snap.CompletionRate != 50 {
		t.Errorf("expected completion rate 50, got %v", snap.CompletionRate)
	}
	if snap.CategoryDistribution[catalog.CategoryActivityCount] != 1 ||
		snap.CategoryDistribution[catalog.CategorySocialShare] != 1 {
		t.Errorf("unexpected distribution: %v", snap.CategoryDistribution)
	}
}

func TestSnapshot_RecentUnlocksWindow(t *testing.T) {
	db, st := testDB(t)
	agg := analytics.NewAggregator(st, testCatalog(t), time.UTC)
	now := time.Now()

	complete(t, db, "ben", "count_1", now.AddDate(0, 0, -2))
	// Eight days old: outside the trailing week.
	complete(t, db, "ben", "share_1", now.AddDate(0, 0, -8))

	snap, err := agg.Snapshot(context.Background(), "ben")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.RecentUnlocks != 1 {
		t.Errorf("expected 1 recent unlock, got %d", snap.RecentUnlocks)
	}
}

func TestSnapshot_TimelineIsCumulative(t *testing.T) {
	db, st := testDB(t)
	agg := analytics.NewAggregator(st, testCatalog(t), time.UTC)

	d1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 6, 5, 10, 0, 0, 0, time.UTC)
	complete(t, db, "cy", "count_1", d1)
	complete(t, db, "cy", "count_2", d1.Add(2*time.Hour))
	complete(t, db, "cy", "share_1", d2)

	snap, err := agg.Snapshot(context.Background(), "cy")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Timeline) != 2 {
		t.Fatalf("expected 2 timeline buckets, got %d", len(snap.Timeline))
	}
	first, second := snap.Timeline[0], snap.Timeline[1]
	if first.Date != "2025-06-01" || first.Completed != 2 || first.Total != 2 {
		t.Errorf("unexpected first bucket: %+v", first)
	}
	if second.Date != "2025-06-05" || second.Completed != 1 || second.Total != 3 {
		t.Errorf("unexpected second bucket (total should accumulate): %+v", second)
	}
}

func TestSnapshot_PerformanceDeltaConventions(t *testing.T) {
	db, st := testDB(t)
	agg := analytics.NewAggregator(st, testCatalog(t), time.UTC)
	now := time.Now()

	// Activities: 4 this week, 2 the prior week → +100%.
	for i := 0; i < 4; i++ {
		event(t, db, "dia", "this-"+string(rune('a'+i)), now.AddDate(0, 0, -i))
	}
	event(t, db, "dia", "prior-a", now.AddDate(0, 0, -9))
	event(t, db, "dia", "prior-b", now.AddDate(0, 0, -10))

	// Achievements: 1 this week, 0 prior → +100% by convention.
	complete(t, db, "dia", "count_1", now.AddDate(0, 0, -1))

	snap, err := agg.Snapshot(context.Background(), "dia")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	activities := snap.PerformanceDeltas["activities_completed"]
	if activities.Value != 4 || activities.PercentChange != 100 {
		t.Errorf("unexpected activities delta: %+v", activities)
	}
	achievements := snap.PerformanceDeltas["achievements_completed"]
	if achievements.Value != 1 || achievements.PercentChange != 100 {
		t.Errorf("unexpected achievements delta: %+v", achievements)
	}
}

func TestSnapshot_ZeroActivity(t *testing.T) {
	_, st := testDB(t)
	agg := analytics.NewAggregator(st, testCatalog(t), time.UTC)

	snap, err := agg.Snapshot(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.CompletionRate != 0 || snap.RecentUnlocks != 0 || snap.CurrentStreak != 0 {
		t.Errorf("expected zero snapshot, got %+v", snap)
	}
	if d := snap.PerformanceDeltas["activities_completed"]; d.Value != 0 || d.PercentChange != 0 {
		t.Errorf("expected 0/0%% delta, got %+v", d)
	}
}

func TestSnapshot_StreakMetrics(t *testing.T) {
	db, st := testDB(t)
	agg := analytics.NewAggregator(st, testCatalog(t), time.UTC)
	now := time.Now()

	// Trailing two days plus an older five-day run.
	event(t, db, "eli", "t0", now)
	event(t, db, "eli", "t1", now.AddDate(0, 0, -1))
	for i := 10; i < 15; i++ {
		event(t, db, "eli", "old-"+string(rune('a'+i)), now.AddDate(0, 0, -i))
	}

	snap, err := agg.Snapshot(context.Background(), "eli")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.CurrentStreak != 2 {
		t.Errorf("expected current streak 2, got %d", snap.CurrentStreak)
	}
	if snap.LongestStreak != 5 {
		t.Errorf("expected longest streak 5, got %d", snap.LongestStreak)
	}
}

func TestCommunityComparison(t *testing.T) {
	db, st := testDB(t)
	agg := analytics.NewAggregator(st, testCatalog(t), time.UTC)
	now := time.Now()
	ctx := context.Background()

	for _, u := range []string{"ana", "ben", "cy", "dia"} {
		if _, err := st.EnsureUser(ctx, u, u, ""); err != nil {
			t.Fatalf("ensure user: %v", err)
		}
	}
	complete(t, db, "ana", "count_1", now)
	complete(t, db, "ana", "count_2", now)
	complete(t, db, "ben", "count_1", now)
	complete(t, db, "cy", "count_1", now)

	cmp, err := agg.CommunityComparison(ctx, "ana")
	if err != nil {
		t.Fatalf("comparison: %v", err)
	}

	counts := cmp[catalog.CategoryActivityCount]
	if counts.User != 2 {
		t.Errorf("expected user count 2, got %d", counts.User)
	}
	// 4 completions over 4 users.
	if counts.CommunityAverage != 1.0 {
		t.Errorf("expected community average 1.0, got %v", counts.CommunityAverage)
	}

	shares := cmp[catalog.CategorySocialShare]
	if shares.User != 0 || shares.CommunityAverage != 0 {
		t.Errorf("expected zero share comparison, got %+v", shares)
	}
}
