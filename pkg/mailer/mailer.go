// Package mailer renders Markdown email templates and hands the result to
// a delivery provider.
//
// A template is Markdown with an optional YAML front matter block:
//
//	---
//	subject: "Reservation for {{.DogName}}"
//	---
//	Hi {{.CustomerName}}, ...
//
// The body and the subject are executed as text/template, the body is
// converted to HTML with goldmark and wrapped in layout.html when present.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Email is a rendered message ready for delivery.
type Email struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a rendered email.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// Message selects a template and its data for one recipient.
type Message struct {
	To       string
	ReplyTo  string
	Template string
	Data     any
}

// Mailer renders messages and passes them to a Sender.
type Mailer struct {
	sender   Sender
	renderer *Renderer
}

func New(sender Sender, renderer *Renderer) *Mailer {
	return &Mailer{sender: sender, renderer: renderer}
}

func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	email, err := m.renderer.Render(msg.Template, msg.Data)
	if err != nil {
		return err
	}
	email.To = []string{msg.To}
	email.ReplyTo = msg.ReplyTo

	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	return nil
}

// LogSender writes emails to the log instead of delivering them.
// Used in development when no provider key is configured.
type LogSender struct {
	Log *slog.Logger
}

func (s LogSender) Send(ctx context.Context, email *Email) error {
	s.Log.InfoContext(ctx, "email not sent: no provider configured",
		slog.Any("to", email.To),
		slog.String("subject", email.Subject),
		slog.String("text", email.Text),
	)
	return nil
}

// Address formats an RFC 5322 address, omitting an empty display name.
func Address(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
