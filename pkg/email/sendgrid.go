package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/angelmondragon/wedsite-backend/pkg/config"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const responseBodyLimit = 512

type sendgridAPI interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendgridSender delivers mail through the SendGrid v3 mail/send API.
type SendgridSender struct {
	api  sendgridAPI
	from *mail.Email
}

// NewSendgridSender builds a sender from config.
func NewSendgridSender(cfg config.SendgridConfig) (*SendgridSender, error) {
	if !cfg.Enabled() {
		return nil, errors.New("sendgrid api key is required")
	}
	if strings.TrimSpace(cfg.DefaultFrom) == "" {
		return nil, errors.New("sendgrid from address is required")
	}
	return newSendgridSender(sendgrid.NewSendClient(cfg.APIKey), cfg), nil
}

func newSendgridSender(api sendgridAPI, cfg config.SendgridConfig) *SendgridSender {
	return &SendgridSender{
		api:  api,
		from: mail.NewEmail(cfg.DefaultFromName, cfg.DefaultFrom),
	}
}

func (s *SendgridSender) Send(ctx context.Context, msg Message) (Result, error) {
	if err := msg.validate(); err != nil {
		return Result{}, err
	}

	payload := mail.NewSingleEmail(s.from, msg.Subject, mail.NewEmail(msg.ToName, msg.To), msg.PlainText, msg.HTML)
	resp, err := s.api.SendWithContext(ctx, payload)
	if err != nil {
		return Result{}, fmt.Errorf("sendgrid request: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body := resp.Body
		if len(body) > responseBodyLimit {
			body = body[:responseBodyLimit]
		}
		return Result{}, fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, strings.TrimSpace(body))
	}

	return Result{ProviderMessageID: headerValue(resp.Headers, "X-Message-Id")}, nil
}

func (m Message) validate() error {
	if strings.TrimSpace(m.To) == "" {
		return errors.New("email recipient is required")
	}
	if strings.TrimSpace(m.Subject) == "" {
		return errors.New("email subject is required")
	}
	if m.PlainText == "" && m.HTML == "" {
		return errors.New("email body is required")
	}
	return nil
}

func headerValue(headers map[string][]string, name string) string {
	for k, values := range headers {
		if strings.EqualFold(k, name) && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}
