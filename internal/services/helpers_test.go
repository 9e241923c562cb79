package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mrlokans/libraryhub/internal/config"
	"github.com/mrlokans/libraryhub/internal/database"
	"github.com/mrlokans/libraryhub/internal/entities"
)

func setupTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(config.Database{
		Driver:   config.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "library.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func seedStudent(t *testing.T, db *database.Database, code string) *entities.Student {
	t.Helper()
	student := &entities.Student{
		Name:        "Student " + code,
		Email:       code + "@example.com",
		Phone:       "9876543210",
		StudentCode: code,
	}
	require.NoError(t, db.Store().Students.Create(context.Background(), student))
	return student
}

func seedBook(t *testing.T, db *database.Database, total, available int) *entities.Book {
	t.Helper()
	book := &entities.Book{
		Title:           "Book " + t.Name(),
		Author:          "Author",
		ISBN:            "isbn-" + t.Name(),
		Category:        "Fiction",
		TotalCopies:     total,
		AvailableCopies: available,
	}
	require.NoError(t, db.Store().Books.Create(context.Background(), book))
	return book
}

func seedPlan(t *testing.T, db *database.Database, name, price string, months int) *entities.SubscriptionPlan {
	t.Helper()
	plan := &entities.SubscriptionPlan{Name: name, Price: price, Duration: months}
	require.NoError(t, db.Store().Plans.Create(context.Background(), plan))
	return plan
}

func seedFee(t *testing.T, db *database.Database, studentID, amount string, status entities.FeeStatus, due time.Time) *entities.Fee {
	t.Helper()
	fee := &entities.Fee{
		StudentID:   studentID,
		Amount:      amount,
		Type:        "membership",
		Description: "Monthly fee",
		Status:      status,
		DueDate:     due,
	}
	require.NoError(t, db.Store().Fees.Create(context.Background(), fee))
	return fee
}

type recordedEvent struct {
	kind string
	id   string
	info string
	err  error
}

// recordingAudit captures audit calls for assertions.
type recordingAudit struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingAudit) add(e recordedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingAudit) LogCheckout(checkoutID, bookID, studentID string) {
	r.add(recordedEvent{kind: "checkout", id: checkoutID})
}

func (r *recordingAudit) LogReturn(checkoutID string, daysLate int, lateFee string) {
	r.add(recordedEvent{kind: "return", id: checkoutID, info: lateFee})
}

func (r *recordingAudit) LogPayment(paymentID, amount string, settledFeeID *string) {
	info := ""
	if settledFeeID != nil {
		info = *settledFeeID
	}
	r.add(recordedEvent{kind: "payment", id: paymentID, info: info})
}

func (r *recordingAudit) LogEnrollment(subscriptionID, studentID, planName string) {
	r.add(recordedEvent{kind: "enrollment", id: subscriptionID, info: planName})
}

func (r *recordingAudit) LogDelete(entityType, entityID, entityName string) {
	r.add(recordedEvent{kind: "delete", id: entityID, info: entityType})
}

func (r *recordingAudit) LogReminder(feeID, email string, err error) {
	r.add(recordedEvent{kind: "reminder", id: feeID, info: email, err: err})
}

func (r *recordingAudit) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.kind)
	}
	return out
}
