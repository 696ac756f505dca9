package notify

import (
	"context"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramNotifier sends reminders as Telegram messages. Learner ids are
// Telegram user ids, which equal the private chat id.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

// NewTelegramNotifier authenticates against the Bot API with token.
func NewTelegramNotifier(token string, logger *zap.Logger) (*TelegramNotifier, error) {
	return newTelegramNotifier(token, tgbotapi.APIEndpoint, logger)
}

func newTelegramNotifier(token, endpoint string, logger *zap.Logger) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}
	logger.Info("telegram notifier authorized", zap.String("bot", api.Self.UserName))
	return &TelegramNotifier{api: api, logger: logger}, nil
}

// SendReminder tells the learner how many words are due.
func (n *TelegramNotifier) SendReminder(ctx context.Context, learnerID int64, dueCount int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(learnerID, ReminderText(dueCount))
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Warn("reminder not delivered", zap.Int64("learner_id", learnerID), zap.Error(err))
		return fmt.Errorf("send reminder to %d: %w", learnerID, err)
	}
	n.logger.Debug("reminder delivered", zap.Int64("learner_id", learnerID), zap.Int("due_count", dueCount))
	return nil
}
