package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/libraryhub/internal/entities"
)

type fakeDispatcher struct {
	mu        sync.Mutex
	reminders []FeeReminder
	failFor   map[string]bool
	panicFor  map[string]bool
}

func (f *fakeDispatcher) DispatchFeeReminder(_ context.Context, reminder FeeReminder) error {
	if f.panicFor[reminder.FeeID] {
		panic("boom")
	}
	if f.failFor[reminder.FeeID] {
		return errors.New("queue unavailable")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders = append(f.reminders, reminder)
	return nil
}

type fakeNotifier struct {
	calls int
	err   error
}

func (f *fakeNotifier) Send(_ context.Context, _, _, _ string, _ time.Time) error {
	f.calls++
	return f.err
}

func TestReminderService_Run(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := date(2024, 1, 10)

	alice := seedStudent(t, db, "LIB001")
	bob := seedStudent(t, db, "LIB002")

	pastDue := seedFee(t, db, alice.ID, "10.00", entities.FeeStatusPending, now.AddDate(0, 0, -2))
	soon := seedFee(t, db, alice.ID, "5.00", entities.FeeStatusPending, now.AddDate(0, 0, 3))
	overdue := seedFee(t, db, bob.ID, "7.00", entities.FeeStatusOverdue, now.AddDate(0, 0, -10))
	seedFee(t, db, bob.ID, "8.00", entities.FeeStatusPending, now.AddDate(0, 0, 4))
	seedFee(t, db, bob.ID, "9.00", entities.FeeStatusPaid, now)

	dispatcher := &fakeDispatcher{failFor: map[string]bool{overdue.ID: true}}
	svc := NewReminderService(db, dispatcher, 0)
	svc.now = fixedClock(now)

	result, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Considered)
	assert.Equal(t, 2, result.Dispatched)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, int64(1), result.MarkedOverdue)

	sent := map[string]FeeReminder{}
	for _, r := range dispatcher.reminders {
		sent[r.FeeID] = r
	}
	assert.Contains(t, sent, pastDue.ID)
	assert.Contains(t, sent, soon.ID)
	assert.Equal(t, alice.Email, sent[soon.ID].Email)
	assert.Equal(t, "5.00", sent[soon.ID].Amount)

	got, err := db.Store().Fees.GetByID(ctx, pastDue.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.FeeStatusOverdue, got.Status)

	got, err = db.Store().Fees.GetByID(ctx, soon.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.FeeStatusPending, got.Status)
}

func TestReminderService_Run_ContainsPanics(t *testing.T) {
	db := setupTestDB(t)
	now := date(2024, 1, 10)
	student := seedStudent(t, db, "LIB001")

	bad := seedFee(t, db, student.ID, "1.00", entities.FeeStatusPending, now)
	good := seedFee(t, db, student.ID, "2.00", entities.FeeStatusPending, now)

	dispatcher := &fakeDispatcher{panicFor: map[string]bool{bad.ID: true}}
	svc := NewReminderService(db, dispatcher, time.Hour)
	svc.now = fixedClock(now)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, dispatcher.reminders, 1)
	assert.Equal(t, good.ID, dispatcher.reminders[0].FeeID)
}

func TestDirectDispatcher_SwallowsErrors(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	rec := &recordingAudit{}
	dispatcher := NewDirectDispatcher(notifier, rec)

	err := dispatcher.DispatchFeeReminder(context.Background(), FeeReminder{
		FeeID: "f-1", Email: "asha@example.com", Name: "Asha", Amount: "10.00", DueDate: date(2024, 1, 1),
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, notifier.calls)

	require.Len(t, rec.events, 1)
	assert.Equal(t, "reminder", rec.events[0].kind)
	assert.EqualError(t, rec.events[0].err, "smtp down")
}
