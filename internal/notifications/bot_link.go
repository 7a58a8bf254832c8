package notifications

import (
	"context"
	"errors"
	"strings"
)

var ErrMissingBotUsername = errors.New("bot username is not configured")

// BotLink sends payers back to the Telegram bot after checkout.
type BotLink struct {
	username string
}

func NewBotLink(username string) *BotLink {
	return &BotLink{username: strings.TrimPrefix(strings.TrimSpace(username), "@")}
}

func (b *BotLink) RedirectURL(ctx context.Context) (string, error) {
	if b.username == "" {
		return "", ErrMissingBotUsername
	}
	return "https://t.me/" + b.username, nil
}
