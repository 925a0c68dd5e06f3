// internal/infra/telegram/notifier.go
package telegram

import (
	"fmt"
	"time"

	"gopkg.in/telebot.v3"
)

// AdminNotifier pushes short operational alerts to the agency admin's
// Telegram chat. Outbound only: the service never polls for updates.
type AdminNotifier struct {
	bot         *telebot.Bot
	adminChatID int64
}

func NewAdminNotifier(token string, adminChatID int64) (*AdminNotifier, error) {
	// No Poller: this bot only sends.
	pref := telebot.Settings{Token: token}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return &AdminNotifier{bot: bot, adminChatID: adminChatID}, nil
}

// NotifyAdmin sends a text alert to the configured admin chat.
func (n *AdminNotifier) NotifyAdmin(text string) error {
	recipient := &telebot.User{ID: n.adminChatID}
	stamped := fmt.Sprintf("[%s] %s", time.Now().Format("2006-01-02 15:04"), text)
	_, err := n.bot.Send(recipient, stamped)
	return err
}
