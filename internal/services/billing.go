package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mrlokans/libraryhub/internal/database"
	"github.com/mrlokans/libraryhub/internal/entities"
)

// CreateFeeInput is the request to charge a student.
type CreateFeeInput struct {
	StudentID   string `json:"studentId" validate:"required"`
	Amount      string `json:"amount" validate:"required,amount"`
	Type        string `json:"type" validate:"required"`
	Description string `json:"description" validate:"required"`
	Status      string `json:"status" validate:"omitempty,oneof=pending overdue paid"`
	DueDate     string `json:"dueDate" validate:"required"`
}

// CreatePaymentInput is the request to record a received payment.
type CreatePaymentInput struct {
	StudentID             string  `json:"studentId" validate:"required"`
	FeeID                 *string `json:"feeId"`
	Amount                string  `json:"amount" validate:"required,amount"`
	PaymentMethod         string  `json:"paymentMethod" validate:"required"`
	StripePaymentIntentID *string `json:"stripePaymentIntentId"`
	Status                string  `json:"status"`
	PaymentDate           string  `json:"paymentDate"`
}

// FeeView is a fee joined with the student name.
type FeeView struct {
	ID          string             `json:"id"`
	StudentID   string             `json:"studentId"`
	StudentName string             `json:"studentName"`
	Amount      string             `json:"amount"`
	Type        string             `json:"type"`
	Description string             `json:"description"`
	Status      entities.FeeStatus `json:"status"`
	DueDate     time.Time          `json:"dueDate"`
	PaidDate    *time.Time         `json:"paidDate"`
}

// PaymentView is a payment joined with the student name.
type PaymentView struct {
	ID            string                 `json:"id"`
	StudentID     string                 `json:"studentId"`
	StudentName   string                 `json:"studentName"`
	FeeID         *string                `json:"feeId"`
	Amount        string                 `json:"amount"`
	PaymentDate   time.Time              `json:"paymentDate"`
	PaymentMethod string                 `json:"paymentMethod"`
	Status        entities.PaymentStatus `json:"status"`
}

// BillingService reconciles fees and payments.
type BillingService struct {
	db    UnitOfWork
	audit AuditRecorder
	// settleRequiresCompleted limits fee settlement to completed payments.
	settleRequiresCompleted bool
	now                     func() time.Time
}

func NewBillingService(db UnitOfWork, audit AuditRecorder, settleRequiresCompleted bool) *BillingService {
	return &BillingService{
		db:                      db,
		audit:                   auditOrNoop(audit),
		settleRequiresCompleted: settleRequiresCompleted,
		now:                     time.Now,
	}
}

func (s *BillingService) ListFees(ctx context.Context) ([]FeeView, error) {
	store := s.db.Store()

	fees, err := store.Fees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fees: %w", err)
	}
	students, err := store.Students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	names := studentNames(students)

	views := make([]FeeView, 0, len(fees))
	for _, f := range fees {
		views = append(views, FeeView{
			ID:          f.ID,
			StudentID:   f.StudentID,
			StudentName: valueOr(names, f.StudentID, "Unknown"),
			Amount:      f.Amount,
			Type:        f.Type,
			Description: f.Description,
			Status:      f.Status,
			DueDate:     f.DueDate,
			PaidDate:    f.PaidDate,
		})
	}
	return views, nil
}

// CreateFee charges a student. The paid date is never set here, even for a
// fee created with status paid.
func (s *BillingService) CreateFee(ctx context.Context, input CreateFeeInput) (*entities.Fee, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	dueDate, err := parseDate("dueDate", input.DueDate)
	if err != nil {
		return nil, err
	}

	store := s.db.Store()
	if _, err := store.Students.GetByID(ctx, input.StudentID); err != nil {
		return nil, notFound(err, "student")
	}

	status := entities.FeeStatus(input.Status)
	if status == "" {
		status = entities.FeeStatusPending
	}

	fee := &entities.Fee{
		StudentID:   input.StudentID,
		Amount:      normalizeAmount(input.Amount),
		Type:        strings.TrimSpace(input.Type),
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		DueDate:     dueDate,
	}
	if err := store.Fees.Create(ctx, fee); err != nil {
		return nil, fmt.Errorf("failed to create fee: %w", err)
	}
	return fee, nil
}

func (s *BillingService) ListPayments(ctx context.Context) ([]PaymentView, error) {
	store := s.db.Store()

	payments, err := store.Payments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	students, err := store.Students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	names := studentNames(students)

	views := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, PaymentView{
			ID:            p.ID,
			StudentID:     p.StudentID,
			StudentName:   valueOr(names, p.StudentID, "Unknown"),
			FeeID:         p.FeeID,
			Amount:        p.Amount,
			PaymentDate:   p.PaymentDate,
			PaymentMethod: p.PaymentMethod,
			Status:        p.Status,
		})
	}
	return views, nil
}

// CreatePayment records a payment and, when it references a fee, marks that
// fee paid in the same transaction.
func (s *BillingService) CreatePayment(ctx context.Context, input CreatePaymentInput) (*entities.Payment, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	now := s.now()
	paymentDate, err := parseOptionalDate("paymentDate", input.PaymentDate, now)
	if err != nil {
		return nil, err
	}

	store := s.db.Store()
	if _, err := store.Students.GetByID(ctx, input.StudentID); err != nil {
		return nil, notFound(err, "student")
	}

	feeID := optionalString(input.FeeID)
	var fee *entities.Fee
	if feeID != nil {
		if fee, err = store.Fees.GetByID(ctx, *feeID); err != nil {
			return nil, notFound(err, "fee")
		}
	}

	status := entities.PaymentStatus(strings.TrimSpace(input.Status))
	if status == "" {
		status = entities.PaymentStatusCompleted
	}

	payment := &entities.Payment{
		StudentID:         input.StudentID,
		FeeID:             feeID,
		Amount:            normalizeAmount(input.Amount),
		PaymentDate:       paymentDate,
		PaymentMethod:     strings.TrimSpace(input.PaymentMethod),
		GatewayPaymentRef: optionalString(input.StripePaymentIntentID),
		Status:            status,
	}

	// An already paid fee keeps its original paidDate.
	settle := fee != nil && fee.Status != entities.FeeStatusPaid &&
		(!s.settleRequiresCompleted || payment.IsCompleted())

	err = s.db.WithinTransaction(ctx, func(tx *database.Store) error {
		if err := tx.Payments.Create(ctx, payment); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
		if !settle {
			return nil
		}
		if _, err := tx.Fees.UpdateStatus(ctx, *feeID, entities.FeeStatusPaid, &now); err != nil {
			return fmt.Errorf("failed to settle fee: %w", notFound(err, "fee"))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var settled *string
	if settle {
		settled = feeID
	}
	s.audit.LogPayment(payment.ID, payment.Amount, settled)

	return payment, nil
}

// MarkPaymentPending flips a payment back to pending.
func (s *BillingService) MarkPaymentPending(ctx context.Context, paymentID string) (*entities.Payment, error) {
	payment, err := s.db.Store().Payments.UpdateStatus(ctx, paymentID, entities.PaymentStatusPending)
	if err != nil {
		return nil, notFound(err, "payment")
	}
	return payment, nil
}

// PendingFeesTotal sums every fee still owed (pending or overdue).
func (s *BillingService) PendingFeesTotal(ctx context.Context) (string, error) {
	fees, err := s.db.Store().Fees.ListByStatus(ctx, entities.FeeStatusPending, entities.FeeStatusOverdue)
	if err != nil {
		return "", fmt.Errorf("failed to list outstanding fees: %w", err)
	}
	return formatAmount(sumFees(fees)), nil
}
