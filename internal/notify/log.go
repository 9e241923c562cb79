package notify

import (
	"context"
	"log"
	"time"
)

// LogNotifier writes reminders to the log instead of sending them.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (LogNotifier) Send(_ context.Context, email, name, amount string, dueDate time.Time) error {
	log.Printf("[REMINDER] Fee reminder for %s <%s>: %s due %s", name, email, amount, dueDate.Format("2006-01-02"))
	return nil
}
