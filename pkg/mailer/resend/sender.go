// Package resend delivers mailer emails through the Resend API.
package resend

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/kennel/pkg/mailer"
)

// Config holds Resend credentials and the default sender.
type Config struct {
	APIKey    string `env:"RESEND_API_KEY"`
	FromEmail string `env:"MAIL_FROM_EMAIL" envDefault:"hello@kennel.local"`
	FromName  string `env:"MAIL_FROM_NAME" envDefault:"Kennel"`
}

// Sender implements mailer.Sender.
type Sender struct {
	client *resend.Client
	from   string
}

func New(cfg Config) *Sender {
	return &Sender{
		client: resend.NewClient(cfg.APIKey),
		from:   mailer.Address(cfg.FromName, cfg.FromEmail),
	}
}

func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      email.To,
		ReplyTo: email.ReplyTo,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

var _ mailer.Sender = (*Sender)(nil)
