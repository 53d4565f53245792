package notifier

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/rocfit/classtrack-api/internal/models"
)

// Notifier announces schedule changes to staff. Callers treat failures as
// non-fatal: a missed announcement never blocks the cancellation itself.
type Notifier interface {
	NotifyCancellation(activity models.Activity, cancellation models.Cancellation) error
	NotifyUncancellation(activity models.Activity, date string) error
}

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

func (n *DiscordNotifier) NotifyCancellation(activity models.Activity, cancellation models.Cancellation) error {
	reasonStr := ""
	if cancellation.Reason != "" {
		reasonStr = fmt.Sprintf("\n**Reason:** %s", cancellation.Reason)
	}

	message := fmt.Sprintf("🚫 **Class Cancelled**\n**Class:** %s (%s at %s)\n**Location:** %s\n**Date:** %s%s",
		activity.Type,
		activity.DayOfWeek,
		activity.Time,
		activity.Location,
		cancellation.Date,
		reasonStr,
	)
	return n.send(message)
}

func (n *DiscordNotifier) NotifyUncancellation(activity models.Activity, date string) error {
	message := fmt.Sprintf("✅ **Class Back On**\n**Class:** %s (%s at %s)\n**Date:** %s",
		activity.Type,
		activity.DayOfWeek,
		activity.Time,
		date,
	)
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
