package notifier

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) AchievementCompleted(userID, achievementID, achievementName string) error {
	message := fmt.Sprintf("🏆 **Achievement Unlocked**\n**User:** <@%s>\n**Achievement:** %s",
		userID, achievementName)
	return n.send(message)
}

func (n *DiscordNotifier) RewardUnlocked(userID, rewardID, rewardName string) error {
	message := fmt.Sprintf("🎁 **Reward Available**\n**User:** <@%s>\n**Reward:** %s",
		userID, rewardName)
	return n.send(message)
}

func (n *DiscordNotifier) send(message string) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}
