package services

import (
	"context"
	"time"

	"github.com/mrlokans/libraryhub/internal/database"
)

// UnitOfWork gives services repository access, either directly or bound to
// a single transaction. *database.Database implements it.
type UnitOfWork interface {
	Store() *database.Store
	WithinTransaction(ctx context.Context, fn func(store *database.Store) error) error
}

// AuditRecorder receives workflow events. Implementations must not block.
type AuditRecorder interface {
	LogCheckout(checkoutID, bookID, studentID string)
	LogReturn(checkoutID string, daysLate int, lateFee string)
	LogPayment(paymentID, amount string, settledFeeID *string)
	LogEnrollment(subscriptionID, studentID, planName string)
	LogDelete(entityType, entityID, entityName string)
	LogReminder(feeID, email string, err error)
}

// Notifier delivers a fee reminder to a student.
type Notifier interface {
	Send(ctx context.Context, email, name, amount string, dueDate time.Time) error
}

// ReminderDispatcher hands a reminder off for delivery.
type ReminderDispatcher interface {
	DispatchFeeReminder(ctx context.Context, reminder FeeReminder) error
}

type noopAuditRecorder struct{}

func (noopAuditRecorder) LogCheckout(string, string, string)   {}
func (noopAuditRecorder) LogReturn(string, int, string)        {}
func (noopAuditRecorder) LogPayment(string, string, *string)   {}
func (noopAuditRecorder) LogEnrollment(string, string, string) {}
func (noopAuditRecorder) LogDelete(string, string, string)     {}
func (noopAuditRecorder) LogReminder(string, string, error)    {}

func auditOrNoop(recorder AuditRecorder) AuditRecorder {
	if recorder == nil {
		return noopAuditRecorder{}
	}
	return recorder
}
