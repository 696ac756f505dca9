// Package notify delivers due-word reminders to learners.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ReminderText is the message a learner receives when words are due.
func ReminderText(dueCount int) string {
	noun := "words"
	if dueCount == 1 {
		noun = "word"
	}
	return fmt.Sprintf("You have %d %s to review! Open a review session to keep your streak going.", dueCount, noun)
}

// LogNotifier writes reminders to the log. It is used when no Telegram token is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier that only logs.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// SendReminder logs the reminder for learnerID.
func (n *LogNotifier) SendReminder(ctx context.Context, learnerID int64, dueCount int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.logger.Info("reminder",
		zap.Int64("learner_id", learnerID),
		zap.Int("due_count", dueCount),
		zap.String("text", ReminderText(dueCount)),
	)
	return nil
}
