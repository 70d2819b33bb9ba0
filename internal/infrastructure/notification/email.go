package notification

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/propertyspotter/backend/internal/infrastructure/config"
)

// EmailSender delivers a plain-text email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPEmailSender sends mail through a configured SMTP relay.
type SMTPEmailSender struct {
	cfg config.EmailConfig
}

// NewSMTPEmailSender creates a sender from configuration.
func NewSMTPEmailSender(cfg config.EmailConfig) *SMTPEmailSender {
	return &SMTPEmailSender{cfg: cfg}
}

// Send composes and delivers a plain-text message. A fresh client is dialed
// per send; transactional volume here is low enough that pooling is not
// worth the connection-state handling.
func (s *SMTPEmailSender) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.cfg.FromName, s.cfg.FromAddress); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

var _ EmailSender = (*SMTPEmailSender)(nil)

// NoopEmailSender discards mail, used when email is disabled in development.
type NoopEmailSender struct{}

// Send reports success without delivering anything.
func (NoopEmailSender) Send(context.Context, string, string, string) error {
	return nil
}

var _ EmailSender = (*NoopEmailSender)(nil)
