package notification

import (
	"context"
	"fmt"

	"github.com/voyago/identity-service/internal/config"
	"github.com/wneessen/go-mail"
)

// SMTPMailer delivers transactional mail over SMTP. It implements the
// service.Mailer port.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

// NewSMTPMailer creates a mailer from SMTP configuration. The send
// timeout bounds the whole dial-and-send round trip.
func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(cfg.SendTimeout.Duration),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPMailer{client: client, from: cfg.From}, nil
}

// Send delivers a message with an HTML body and a plain-text alternative.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, textBody)
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
