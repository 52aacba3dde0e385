// Package notifier dispatches unlock events to the notification channel.
// Delivery is best-effort and at-most-once; retry and queueing belong to the
// dispatcher behind the channel, not to this process.
package notifier

type Notifier interface {
	AchievementCompleted(userID, achievementID, achievementName string) error
	RewardUnlocked(userID, rewardID, rewardName string) error
}
