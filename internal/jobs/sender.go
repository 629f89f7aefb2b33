package jobs

import (
	"context"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// ReminderSender delivers one rendered reminder
type ReminderSender interface {
	Send(ctx context.Context, order *models.Order, message string) error
}

// logSender records reminders in the reminders log instead of delivering them
type logSender struct {
	sink *LogSink
}

// NewLogSender creates a sender that appends each reminder to sink
func NewLogSender(sink *LogSink) ReminderSender {
	return &logSender{sink: sink}
}

// Send appends the message to the log
func (s *logSender) Send(ctx context.Context, order *models.Order, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.sink.Append(s.sink.Now(), message)
}
