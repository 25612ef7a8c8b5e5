package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier delivers pipeline notifications to a chat.
type Notifier interface {
	SendMessage(text string) error
}

type client struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewClient authenticates against the Telegram Bot API and returns a
// Notifier bound to a single chat.
func NewClient(botToken string, chatID int64) (Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &client{bot: bot, chatID: chatID}, nil
}

// SendMessage posts text to the bound chat. Messages are parsed as Markdown.
func (c *client) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := c.bot.Send(msg)
	return err
}
