package email

import (
	"context"

	"github.com/angelmondragon/wedsite-backend/pkg/logger"
	"github.com/google/uuid"
)

// LogSender writes messages to the structured log instead of delivering them.
// Used in dev when no SendGrid key is configured.
type LogSender struct {
	logg *logger.Logger
}

func NewLogSender(logg *logger.Logger) *LogSender {
	return &LogSender{logg: logg}
}

func (s *LogSender) Send(ctx context.Context, msg Message) (Result, error) {
	if err := msg.validate(); err != nil {
		return Result{}, err
	}
	id := "log-" + uuid.NewString()
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"email_to":         msg.To,
			"email_subject":    msg.Subject,
			"email_message_id": id,
			"email_text":       msg.PlainText,
		}), "email.logged")
	}
	return Result{ProviderMessageID: id}, nil
}
