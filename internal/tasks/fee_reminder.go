package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/libraryhub/internal/services"
)

const sendFeeReminderQueue = "send_fee_reminder"

// SendFeeReminderTask delivers one fee reminder email.
type SendFeeReminderTask struct {
	FeeID     string    `json:"fee_id"`
	StudentID string    `json:"student_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Amount    string    `json:"amount"`
	DueDate   time.Time `json:"due_date"`
}

// Config returns the queue configuration for reminder tasks. Reminders are
// not retried; the next sweep picks the fee up again if it is still due.
func (t SendFeeReminderTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        sendFeeReminderQueue,
		MaxAttempts: 1,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func (t SendFeeReminderTask) reminder() services.FeeReminder {
	return services.FeeReminder{
		FeeID:     t.FeeID,
		StudentID: t.StudentID,
		Email:     t.Email,
		Name:      t.Name,
		Amount:    t.Amount,
		DueDate:   t.DueDate,
	}
}

func newSendFeeReminderTask(r services.FeeReminder) SendFeeReminderTask {
	return SendFeeReminderTask{
		FeeID:     r.FeeID,
		StudentID: r.StudentID,
		Email:     r.Email,
		Name:      r.Name,
		Amount:    r.Amount,
		DueDate:   r.DueDate,
	}
}

// SendFeeReminderProcessor creates a processor function for SendFeeReminderTask.
// Delivery failures are logged and audited but never fail the task.
func SendFeeReminderProcessor(notifier services.Notifier, audit services.AuditRecorder) backlite.QueueProcessor[SendFeeReminderTask] {
	return func(ctx context.Context, task SendFeeReminderTask) error {
		if notifier == nil {
			return fmt.Errorf("notifier not configured")
		}
		services.SendFeeReminder(ctx, notifier, audit, task.reminder())
		return nil
	}
}

// NewSendFeeReminderQueue creates a backlite queue for reminder tasks.
func NewSendFeeReminderQueue(notifier services.Notifier, audit services.AuditRecorder) backlite.Queue {
	return backlite.NewQueue(SendFeeReminderProcessor(notifier, audit))
}

// DispatchFeeReminder enqueues a reminder for background delivery.
func (c *Client) DispatchFeeReminder(ctx context.Context, reminder services.FeeReminder) error {
	if _, err := c.enqueue(ctx, newSendFeeReminderTask(reminder)); err != nil {
		return fmt.Errorf("enqueue fee reminder for %s: %w", reminder.Email, err)
	}
	return nil
}
