package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mrlokans/libraryhub/internal/entities"
)

// DefaultReminderWindow selects fees due within the next three days.
const DefaultReminderWindow = 72 * time.Hour

// FeeReminder carries everything needed to notify a student about a fee.
type FeeReminder struct {
	FeeID     string    `json:"feeId"`
	StudentID string    `json:"studentId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Amount    string    `json:"amount"`
	DueDate   time.Time `json:"dueDate"`
}

// ReminderRunResult summarises one reminder sweep.
type ReminderRunResult struct {
	Considered    int   `json:"considered"`
	Dispatched    int   `json:"dispatched"`
	Skipped       int   `json:"skipped"`
	Failed        int   `json:"failed"`
	MarkedOverdue int64 `json:"markedOverdue"`
}

// ReminderService runs the fee reminder sweep.
type ReminderService struct {
	db         UnitOfWork
	dispatcher ReminderDispatcher
	window     time.Duration
	now        func() time.Time
}

func NewReminderService(db UnitOfWork, dispatcher ReminderDispatcher, window time.Duration) *ReminderService {
	if window <= 0 {
		window = DefaultReminderWindow
	}
	return &ReminderService{
		db:         db,
		dispatcher: dispatcher,
		window:     window,
		now:        time.Now,
	}
}

// Run dispatches one reminder per outstanding fee due within the window and
// then marks past-due pending fees overdue. A failure for one fee is logged
// and does not stop the sweep.
func (s *ReminderService) Run(ctx context.Context) (*ReminderRunResult, error) {
	store := s.db.Store()
	now := s.now()
	horizon := now.Add(s.window)

	fees, err := store.Fees.ListByStatus(ctx, entities.FeeStatusPending, entities.FeeStatusOverdue)
	if err != nil {
		return nil, fmt.Errorf("failed to list outstanding fees: %w", err)
	}

	result := &ReminderRunResult{}
	for _, fee := range fees {
		if fee.DueDate.After(horizon) {
			continue
		}
		result.Considered++

		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		student, err := store.Students.GetByID(ctx, fee.StudentID)
		if err != nil {
			log.Printf("[REMINDER] Skipping fee %s: student %s: %v", fee.ID, fee.StudentID, err)
			result.Skipped++
			continue
		}

		reminder := FeeReminder{
			FeeID:     fee.ID,
			StudentID: student.ID,
			Email:     student.Email,
			Name:      student.Name,
			Amount:    fee.Amount,
			DueDate:   fee.DueDate,
		}
		if err := s.dispatch(ctx, reminder); err != nil {
			log.Printf("[REMINDER] Failed to dispatch reminder for fee %s: %v", fee.ID, err)
			result.Failed++
			continue
		}
		result.Dispatched++
	}

	marked, err := store.Fees.MarkOverdue(ctx, now)
	if err != nil {
		log.Printf("[REMINDER] Failed to mark overdue fees: %v", err)
	} else {
		result.MarkedOverdue = marked
	}

	log.Printf("[REMINDER] Sweep finished: %d considered, %d dispatched, %d skipped, %d failed, %d marked overdue",
		result.Considered, result.Dispatched, result.Skipped, result.Failed, result.MarkedOverdue)

	return result, nil
}

func (s *ReminderService) dispatch(ctx context.Context, reminder FeeReminder) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while dispatching: %v", r)
		}
	}()
	return s.dispatcher.DispatchFeeReminder(ctx, reminder)
}

// DirectDispatcher sends reminders inline. It is used when the task queue is
// disabled. Delivery errors are logged and swallowed.
type DirectDispatcher struct {
	notifier Notifier
	audit    AuditRecorder
}

func NewDirectDispatcher(notifier Notifier, audit AuditRecorder) *DirectDispatcher {
	return &DirectDispatcher{notifier: notifier, audit: auditOrNoop(audit)}
}

func (d *DirectDispatcher) DispatchFeeReminder(ctx context.Context, reminder FeeReminder) error {
	SendFeeReminder(ctx, d.notifier, d.audit, reminder)
	return nil
}

// SendFeeReminder delivers one reminder and records the outcome. It never
// returns the delivery error; reminders are best effort.
func SendFeeReminder(ctx context.Context, notifier Notifier, audit AuditRecorder, reminder FeeReminder) {
	err := notifier.Send(ctx, reminder.Email, reminder.Name, reminder.Amount, reminder.DueDate)
	if err != nil {
		log.Printf("[REMINDER] Error sending fee reminder to %s: %v", reminder.Email, err)
	} else {
		log.Printf("[REMINDER] Sent fee reminder to %s", reminder.Email)
	}
	auditOrNoop(audit).LogReminder(reminder.FeeID, reminder.Email, err)
}
