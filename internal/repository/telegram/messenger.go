package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/stellarwallet/relay/internal/domain/notification"
)

var ErrNoToken = errors.New("telegram: bot token is empty")

type Config struct {
	Token     string `mapstructure:"token"`
	ParseMode string `mapstructure:"parse_mode"`
	// ServerURL overrides the Bot API endpoint, e.g. a local bot-api server.
	ServerURL string `mapstructure:"server_url"`
}

// Sender is satisfied by *bot.Bot.
type Sender interface {
	SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error)
}

var _ notification.Messenger = (*Messenger)(nil)

// Messenger delivers notifications as private chat messages; the chat id
// of a private chat equals the user id.
type Messenger struct {
	s         Sender
	parseMode models.ParseMode
}

func NewBot(cfg Config) (*tgbot.Bot, error) {
	if cfg.Token == "" {
		return nil, ErrNoToken
	}
	var opts []tgbot.Option
	if cfg.ServerURL != "" {
		opts = append(opts, tgbot.WithServerURL(cfg.ServerURL))
	}
	b, err := tgbot.New(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return b, nil
}

func NewMessenger(s Sender, parseMode string) *Messenger {
	if parseMode == "" {
		parseMode = string(models.ParseModeHTML)
	}
	return &Messenger{s: s, parseMode: models.ParseMode(parseMode)}
}

func (m *Messenger) SendText(ctx context.Context, userID int64, text string) error {
	_, err := m.s.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:             userID,
		Text:               text,
		ParseMode:          m.parseMode,
		LinkPreviewOptions: &models.LinkPreviewOptions{IsDisabled: tgbot.True()},
	})
	if err != nil {
		return fmt.Errorf("send to %d: %w", userID, err)
	}
	return nil
}
