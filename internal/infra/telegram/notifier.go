package telegram

import (
	"fmt"

	"gopkg.in/telebot.v3"
)

// Notifier sends collection run outcomes to an admin chat via a Telegram
// bot. Delivery is best effort; callers log send failures and move on.
type Notifier struct {
	bot    *telebot.Bot
	chatID int64
}

func NewNotifier(token string, chatID int64) (*Notifier, error) {
	bot, err := telebot.NewBot(telebot.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Notifier{bot: bot, chatID: chatID}, nil
}

// Notify delivers a plain-text message to the configured chat.
func (n *Notifier) Notify(text string) error {
	_, err := n.bot.Send(&telebot.User{ID: n.chatID}, text)
	return err
}
