// Package notify delivers fee reminders to students.
//
// The SMTP notifier is wrapped in a circuit breaker so that an unreachable
// mail server fails fast instead of stalling every reminder in a sweep. When
// no SMTP host is configured reminders are only written to the log.
package notify

import (
	"context"
	"log"
	"time"

	"github.com/mrlokans/libraryhub/internal/config"
)

// Notifier delivers a fee reminder.
type Notifier interface {
	Send(ctx context.Context, email, name, amount string, dueDate time.Time) error
}

// New builds the notifier described by cfg.
func New(cfg config.SMTP) (Notifier, error) {
	if cfg.Host == "" {
		log.Println("SMTP_HOST not set, fee reminders will only be logged")
		return NewLogNotifier(), nil
	}

	smtp, err := NewSMTPNotifier(cfg)
	if err != nil {
		return nil, err
	}
	return NewBreakerNotifier(smtp, BreakerSettings{
		Name:             "smtp",
		FailureThreshold: cfg.BreakerFailures,
		Timeout:          cfg.BreakerTimeout,
	}), nil
}
