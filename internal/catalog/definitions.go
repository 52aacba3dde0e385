package catalog

// Default returns the production catalog: three tiers per category plus the
// rewards gated on them.
func Default() *Catalog {
	c, err := New(defaultAchievements(), defaultRewards())
	if err != nil {
		// The built-in tables are validated by tests; reaching this is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return c
}

func defaultAchievements() []AchievementDefinition {
	return []AchievementDefinition{
		// Activity count
		{ID: "workout_10", Name: "Getting Started", Category: CategoryActivityCount, TargetProgress: 10, Tier: 1},
		{ID: "workout_50", Name: "Regular", Category: CategoryActivityCount, TargetProgress: 50, Tier: 2},
		{ID: "workout_200", Name: "Machine", Category: CategoryActivityCount, TargetProgress: 200, Tier: 3},

		// Activity streak
		{ID: "streak_7", Name: "Week Warrior", Category: CategoryActivityStreak, TargetProgress: 7, Tier: 1},
		{ID: "streak_30", Name: "Monthly Momentum", Category: CategoryActivityStreak, TargetProgress: 30, Tier: 2},
		{ID: "streak_100", Name: "Centurion", Category: CategoryActivityStreak, TargetProgress: 100, Tier: 3},

		// Social share
		{ID: "share_1", Name: "First Share", Category: CategorySocialShare, TargetProgress: 1, Tier: 1},
		{ID: "share_10", Name: "Storyteller", Category: CategorySocialShare, TargetProgress: 10, Tier: 2},
		{ID: "share_50", Name: "Influencer", Category: CategorySocialShare, TargetProgress: 50, Tier: 3},

		// Program completion
		{ID: "program_1", Name: "Finisher", Category: CategoryProgramCompletion, TargetProgress: 1, Tier: 1},
		{ID: "program_5", Name: "Program Hopper", Category: CategoryProgramCompletion, TargetProgress: 5, Tier: 2},
		{ID: "program_20", Name: "Completionist", Category: CategoryProgramCompletion, TargetProgress: 20, Tier: 3},

		// Community engagement
		{ID: "community_5", Name: "Neighbor", Category: CategoryCommunityEngagement, TargetProgress: 5, Tier: 1},
		{ID: "community_25", Name: "Regular Voice", Category: CategoryCommunityEngagement, TargetProgress: 25, Tier: 2},
		{ID: "community_100", Name: "Pillar", Category: CategoryCommunityEngagement, TargetProgress: 100, Tier: 3},
	}
}

func defaultRewards() []RewardDefinition {
	return []RewardDefinition{
		{ID: "reward_starter_badge", Name: "Starter Badge", RequiredAchievementID: "workout_10", Tier: 1,
			Benefits: []string{"profile badge: starter"}},
		{ID: "reward_custom_plans", Name: "Custom Plans", RequiredAchievementID: "workout_50", Tier: 2,
			Benefits: []string{"custom workout plans", "profile badge: regular"}},
		{ID: "reward_elite_badge", Name: "Elite Badge", RequiredAchievementID: "workout_200", Tier: 3,
			Benefits: []string{"profile badge: elite", "priority support"}},
		{ID: "reward_streak_theme", Name: "Flame Theme", RequiredAchievementID: "streak_7", Tier: 1,
			Benefits: []string{"app theme: flame"}},
		{ID: "reward_streak_freeze", Name: "Streak Shield", RequiredAchievementID: "streak_30", Tier: 2,
			Benefits: []string{"streak shield token"}},
		{ID: "reward_share_frame", Name: "Share Frame", RequiredAchievementID: "share_10", Tier: 2,
			Benefits: []string{"photo frame pack"}},
		{ID: "reward_program_library", Name: "Program Library", RequiredAchievementID: "program_5", Tier: 2,
			Benefits: []string{"full program library access"}},
		{ID: "reward_community_flair", Name: "Community Flair", RequiredAchievementID: "community_25", Tier: 2,
			Benefits: []string{"chat flair", "poll creation"}},
	}
}
