package telegram

import "gopkg.in/telebot.v3"

// Client is the outbound messaging capability the notifier depends on,
// keeping the application logic free of the concrete bot library.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}
