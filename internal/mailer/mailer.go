// Package mailer delivers outreach email over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"
)

// ErrDeliveryFailed tags every transport failure out of this package.
// Delivery is attempted at most once per message and a failure is never
// fatal to the campaign that requested it.
var ErrDeliveryFailed = errors.New("mail delivery failed")

// Config holds SMTP transport settings. The zero-auth, no-TLS default
// targets local capture servers such as MailHog on localhost:1025.
type Config struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// SMTPSender sends mail through a single SMTP endpoint. It satisfies
// the campaign dispatcher's MailSender contract.
type SMTPSender struct {
	client *mail.Client
	from   string
}

// NewSMTPSender creates the transport. Credentials switch the client to
// PLAIN auth with opportunistic TLS; without them the connection stays
// plaintext for capture-server use.
func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.NoTLS),
	}
	if cfg.Username != "" {
		opts = []mail.Option{
			mail.WithPort(cfg.Port),
			mail.WithTLSPolicy(mail.TLSOpportunistic),
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		}
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: cfg.From}, nil
}

// Send delivers one plain-text message. Exactly one attempt; all
// failures wrap ErrDeliveryFailed.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}
