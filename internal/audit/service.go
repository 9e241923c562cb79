package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/libraryhub/internal/database/audit"
	"github.com/mrlokans/libraryhub/internal/entities"
)

// asyncWriteTimeout bounds a single background write.
const asyncWriteTimeout = 5 * time.Second

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
	wg   sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), asyncWriteTimeout)
		defer cancel()

		if err := s.repo.LogEvent(ctx, event); err != nil {
			log.Printf("[AUDIT] Failed to log audit event %s: %v", event.Action, err)
		}
	}()
}

// Wait blocks until all pending async writes have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// LogCheckout records a book checkout.
func (s *Service) LogCheckout(checkoutID, bookID, studentID string) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventCheckout,
		Action:      "book_checkout",
		Description: fmt.Sprintf("Book %s checked out by student %s", bookID, studentID),
		EntityType:  "checkout",
		EntityID:    &checkoutID,
		Metadata:    encodeMetadata(map[string]any{"bookId": bookID, "studentId": studentID}),
		Status:      entities.AuditStatusSuccess,
	}
	s.LogAsync(event)
}

// LogReturn records a book return. lateFee is empty when the book came back on time.
func (s *Service) LogReturn(checkoutID string, daysLate int, lateFee string) {
	description := "Book returned on time"
	if lateFee != "" {
		description = fmt.Sprintf("Book returned %d days late, fee %s", daysLate, lateFee)
	}

	event := &entities.AuditEvent{
		EventType:   entities.AuditEventReturn,
		Action:      "book_return",
		Description: description,
		EntityType:  "checkout",
		EntityID:    &checkoutID,
		Status:      entities.AuditStatusSuccess,
	}
	if lateFee != "" {
		event.Metadata = encodeMetadata(map[string]any{"daysLate": daysLate, "lateFee": lateFee})
	}
	s.LogAsync(event)
}

// LogPayment records a received payment and the fee it settled, if any.
func (s *Service) LogPayment(paymentID, amount string, settledFeeID *string) {
	metadata := map[string]any{"amount": amount}
	description := "Payment of " + amount + " recorded"
	if settledFeeID != nil {
		metadata["settledFeeId"] = *settledFeeID
		description += ", fee settled"
	}

	event := &entities.AuditEvent{
		EventType:   entities.AuditEventBilling,
		Action:      "payment_recorded",
		Description: description,
		EntityType:  "payment",
		EntityID:    &paymentID,
		Metadata:    encodeMetadata(metadata),
		Status:      entities.AuditStatusSuccess,
	}
	s.LogAsync(event)
}

// LogEnrollment records a plan enrollment.
func (s *Service) LogEnrollment(subscriptionID, studentID, planName string) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventEnrollment,
		Action:      "student_enroll",
		Description: fmt.Sprintf("Student %s enrolled in %s", studentID, planName),
		EntityType:  "subscription",
		EntityID:    &subscriptionID,
		Status:      entities.AuditStatusSuccess,
	}
	s.LogAsync(event)
}

// LogDelete records a deletion event.
func (s *Service) LogDelete(entityType, entityID, entityName string) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventDelete,
		Action:      entityType + "_delete",
		Description: "Deleted " + entityType + ": " + entityName,
		EntityType:  entityType,
		EntityID:    &entityID,
		Status:      entities.AuditStatusSuccess,
	}
	s.LogAsync(event)
}

// LogReminder records a fee reminder delivery attempt.
func (s *Service) LogReminder(feeID, email string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventReminder,
		Action:      "fee_reminder",
		Description: "Fee reminder sent to " + email,
		EntityType:  "fee",
		EntityID:    &feeID,
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, filter audit.EventFilter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, filter, limit, offset)
}

// DeleteOldEvents removes events older than the retention window.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	return s.repo.DeleteOldEvents(ctx, time.Now().Add(-retention))
}

func encodeMetadata(metadata map[string]any) string {
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
