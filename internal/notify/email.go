// Package notify tells applicants about status changes by email and publishes status events.
package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"jobboard-backend/internal/config"
)

// Sender delivers a plain text email.
type Sender interface {
	SendEmail(ctx context.Context, to, subject, text string) error
}

// SMTPSender sends mail through an authenticated SMTP relay with STARTTLS.
type SMTPSender struct {
	client   *mail.Client
	from     string
	fromName string
}

// NewSender returns an SMTPSender, or a sender that only logs when no
// credentials are configured.
func NewSender(cfg config.MailConfig, logger *zap.Logger) (Sender, error) {
	if !cfg.Enabled() {
		logger.Warn("EMAIL_USER or EMAIL_PASS not set, notification emails are disabled")
		return &LogSender{Logger: logger}, nil
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPSender{client: client, from: cfg.User, fromName: cfg.FromName}, nil
}

func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, text string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.from); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, text)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %q: %w", to, err)
	}
	return nil
}

// LogSender writes the email to the log instead of sending it.
type LogSender struct {
	Logger *zap.Logger
}

func (s *LogSender) SendEmail(_ context.Context, to, subject, _ string) error {
	s.Logger.Info("email skipped, mail is not configured",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
