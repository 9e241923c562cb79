package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/mrlokans/libraryhub/internal/config"
)

// SMTPNotifier sends reminders as HTML email. A mail.Client holds a single
// connection, so every Send dials its own.
type SMTPNotifier struct {
	host string
	opts []mail.Option
	from string
}

func NewSMTPNotifier(cfg config.SMTP) (*SMTPNotifier, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(15 * time.Second),
	}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Pass),
		)
	}

	if _, err := mail.NewClient(cfg.Host, opts...); err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return &SMTPNotifier{host: cfg.Host, opts: opts, from: cfg.From}, nil
}

func (n *SMTPNotifier) Send(ctx context.Context, email, name, amount string, dueDate time.Time) error {
	msg, err := n.buildMessage(email, name, amount, dueDate)
	if err != nil {
		return err
	}
	client, err := mail.NewClient(n.host, n.opts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send reminder to %s: %w", email, err)
	}
	return nil
}

func (n *SMTPNotifier) buildMessage(email, name, amount string, dueDate time.Time) (*mail.Msg, error) {
	body, err := renderReminder(name, amount, dueDate)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat("LibraryHub", n.from); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", n.from, err)
	}
	if err := msg.To(email); err != nil {
		return nil, fmt.Errorf("invalid recipient address %q: %w", email, err)
	}
	msg.Subject(reminderSubject)
	msg.SetBodyString(mail.TypeTextHTML, body)
	return msg, nil
}
