package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// ResendMailer sends through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

func NewResendMailer(apiKey, from string, logger *zap.Logger) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey), from: from, logger: logger}
}

func (m *ResendMailer) Send(ctx context.Context, email Email) error {
	if len(email.To) == 0 {
		return errors.New("email has no recipients")
	}
	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	m.logger.Debug("email sent", zap.String("id", sent.Id), zap.String("subject", email.Subject))
	return nil
}

// LogMailer only logs messages; used when no Resend key is configured.
type LogMailer struct {
	Logger *zap.Logger
}

func (m LogMailer) Send(ctx context.Context, email Email) error {
	m.Logger.Info("email not sent, mailer disabled",
		zap.Strings("to", email.To),
		zap.String("subject", email.Subject))
	return nil
}
