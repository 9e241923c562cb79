package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/libraryhub/internal/entities"
)

func strPtr(s string) *string {
	return &s
}

func TestBillingService_CreatePaymentSettlesFee(t *testing.T) {
	db := setupTestDB(t)
	rec := &recordingAudit{}
	svc := NewBillingService(db, rec, false)
	svc.now = fixedClock(date(2024, 2, 1))
	ctx := context.Background()

	student := seedStudent(t, db, "LIB001")
	fee := seedFee(t, db, student.ID, "10.00", entities.FeeStatusPending, date(2024, 1, 18))

	payment, err := svc.CreatePayment(ctx, CreatePaymentInput{
		StudentID:     student.ID,
		FeeID:         strPtr(fee.ID),
		Amount:        "10",
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, "10.00", payment.Amount)
	assert.Equal(t, entities.PaymentStatusCompleted, payment.Status)
	assert.True(t, payment.PaymentDate.Equal(date(2024, 2, 1)))

	settled, err := db.Store().Fees.GetByID(ctx, fee.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.FeeStatusPaid, settled.Status)
	require.NotNil(t, settled.PaidDate)
	assert.True(t, settled.PaidDate.Equal(date(2024, 2, 1)))

	require.Len(t, rec.events, 1)
	assert.Equal(t, fee.ID, rec.events[0].info)
}

func TestBillingService_PendingPaymentSettlement(t *testing.T) {
	ctx := context.Background()

	t.Run("default settles regardless of status", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewBillingService(db, nil, false)
		student := seedStudent(t, db, "LIB001")
		fee := seedFee(t, db, student.ID, "5.00", entities.FeeStatusOverdue, date(2024, 1, 1))

		_, err := svc.CreatePayment(ctx, CreatePaymentInput{
			StudentID: student.ID, FeeID: strPtr(fee.ID), Amount: "5.00", PaymentMethod: "upi", Status: "pending",
		})
		require.NoError(t, err)

		got, err := db.Store().Fees.GetByID(ctx, fee.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.FeeStatusPaid, got.Status)
	})

	t.Run("completed-only leaves fee open", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewBillingService(db, nil, true)
		student := seedStudent(t, db, "LIB001")
		fee := seedFee(t, db, student.ID, "5.00", entities.FeeStatusPending, date(2024, 1, 1))

		_, err := svc.CreatePayment(ctx, CreatePaymentInput{
			StudentID: student.ID, FeeID: strPtr(fee.ID), Amount: "5.00", PaymentMethod: "upi", Status: "pending",
		})
		require.NoError(t, err)

		got, err := db.Store().Fees.GetByID(ctx, fee.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.FeeStatusPending, got.Status)
		assert.Nil(t, got.PaidDate)
	})
}

func TestBillingService_PaymentOnPaidFeeKeepsPaidDate(t *testing.T) {
	db := setupTestDB(t)
	rec := &recordingAudit{}
	svc := NewBillingService(db, rec, false)
	ctx := context.Background()

	student := seedStudent(t, db, "LIB001")
	fee := seedFee(t, db, student.ID, "10.00", entities.FeeStatusPending, date(2024, 1, 18))

	svc.now = fixedClock(date(2024, 2, 1))
	_, err := svc.CreatePayment(ctx, CreatePaymentInput{StudentID: student.ID, FeeID: strPtr(fee.ID), Amount: "10", PaymentMethod: "cash"})
	require.NoError(t, err)

	svc.now = fixedClock(date(2024, 3, 1))
	second, err := svc.CreatePayment(ctx, CreatePaymentInput{StudentID: student.ID, FeeID: strPtr(fee.ID), Amount: "10", PaymentMethod: "upi"})
	require.NoError(t, err)
	assert.Equal(t, fee.ID, *second.FeeID)

	got, err := db.Store().Fees.GetByID(ctx, fee.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.FeeStatusPaid, got.Status)
	require.NotNil(t, got.PaidDate)
	assert.True(t, got.PaidDate.Equal(date(2024, 2, 1)), "paid date %s", got.PaidDate)

	require.Len(t, rec.events, 2)
	assert.Equal(t, fee.ID, rec.events[0].info)
	assert.Empty(t, rec.events[1].info, "second payment settles nothing")
}

func TestBillingService_CreatePaymentErrors(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBillingService(db, nil, false)
	ctx := context.Background()
	student := seedStudent(t, db, "LIB001")

	_, err := svc.CreatePayment(ctx, CreatePaymentInput{StudentID: "missing", Amount: "1", PaymentMethod: "cash"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreatePayment(ctx, CreatePaymentInput{StudentID: student.ID, FeeID: strPtr("missing"), Amount: "1", PaymentMethod: "cash"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "fee not found")

	for _, amount := range []string{"", "abc", "0", "-5"} {
		_, err = svc.CreatePayment(ctx, CreatePaymentInput{StudentID: student.ID, Amount: amount, PaymentMethod: "cash"})
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr), "amount %q", amount)
	}

	payments, err := db.Store().Payments.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestBillingService_CreateFee(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBillingService(db, nil, false)
	ctx := context.Background()
	student := seedStudent(t, db, "LIB001")

	fee, err := svc.CreateFee(ctx, CreateFeeInput{
		StudentID:   student.ID,
		Amount:      "499",
		Type:        "membership",
		Description: "January membership",
		DueDate:     "2024-01-31",
	})
	require.NoError(t, err)
	assert.Equal(t, "499.00", fee.Amount)
	assert.Equal(t, entities.FeeStatusPending, fee.Status)
	assert.Nil(t, fee.PaidDate)

	_, err = svc.CreateFee(ctx, CreateFeeInput{
		StudentID: student.ID, Amount: "1", Type: "x", Description: "x", Status: "waived", DueDate: "2024-01-31",
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, err.Error(), "status must be one of")

	_, err = svc.CreateFee(ctx, CreateFeeInput{
		StudentID: "missing", Amount: "1", Type: "x", Description: "x", DueDate: "2024-01-31",
	})
	assert.ErrorIs(t, err, ErrNotFound)

	views, err := svc.ListFees(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, student.Name, views[0].StudentName)
}

func TestBillingService_MarkPaymentPending(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBillingService(db, nil, false)
	ctx := context.Background()
	student := seedStudent(t, db, "LIB001")

	payment, err := svc.CreatePayment(ctx, CreatePaymentInput{StudentID: student.ID, Amount: "100", PaymentMethod: "cash"})
	require.NoError(t, err)

	updated, err := svc.MarkPaymentPending(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentStatusPending, updated.Status)

	_, err = svc.MarkPaymentPending(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	views, err := svc.ListPayments(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, entities.PaymentStatusPending, views[0].Status)
}

func TestBillingService_PendingFeesTotal(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBillingService(db, nil, false)
	student := seedStudent(t, db, "LIB001")

	seedFee(t, db, student.ID, "10.00", entities.FeeStatusPending, date(2024, 1, 1))
	seedFee(t, db, student.ID, "2.50", entities.FeeStatusOverdue, date(2024, 1, 1))
	seedFee(t, db, student.ID, "100.00", entities.FeeStatusPaid, date(2024, 1, 1))

	total, err := svc.PendingFeesTotal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "12.50", total)
}
