// Package notify delivers "work item done" messages to employees. A delivery
// token is a Telegram chat id.
package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/worktracker/internal/common"
	"github.com/dmitrijs2005/worktracker/internal/logging"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var newBotAPI = func(token string) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(token)
}

// sender is the part of *tgbotapi.BotAPI used here.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends messages through a Telegram bot.
type TelegramNotifier struct {
	bot    sender
	logger logging.Logger
}

// NewTelegramNotifier authorizes the bot with botToken.
func NewTelegramNotifier(botToken string, logger logging.Logger) (*TelegramNotifier, error) {
	bot, err := newBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	logger = logger.With("module", "notify")
	logger.Info(context.Background(), "telegram bot authorized", "account", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, logger: logger}, nil
}

// ChatID parses a delivery token.
func ChatID(token string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(token), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: delivery token %q is not a chat id", common.ErrValidation, token)
	}
	return id, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, token, text string) error {
	chatID, err := ChatID(token)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	n.logger.Debug(ctx, "notification sent", "chat", chatID)
	return nil
}

// LogNotifier only logs what would have been sent. It is used when no bot
// token is configured.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("module", "notify")}
}

func (n *LogNotifier) Notify(ctx context.Context, token, text string) error {
	n.logger.Info(ctx, "notification", "token", token, "text", text)
	return nil
}
