package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/libraryhub/internal/database"
	"github.com/mrlokans/libraryhub/internal/entities"
)

// CreateStudentInput is the request to register a student.
type CreateStudentInput struct {
	Name         string  `json:"name" validate:"required"`
	Email        string  `json:"email" validate:"required,email"`
	Phone        string  `json:"phone" validate:"required"`
	AadharNumber *string `json:"aadharNumber" validate:"omitempty,national_id"`
	StudentID    string  `json:"studentId" validate:"required"`
	SeatNumber   *string `json:"seatNumber"`
}

// UpdateBillingInput carries the billing gateway references for a student.
type UpdateBillingInput struct {
	StripeCustomerID     string `json:"stripeCustomerId" validate:"required"`
	StripeSubscriptionID string `json:"stripeSubscriptionId" validate:"required"`
}

// CreateSubscriptionInput is the request to subscribe a student to a plan.
// Amount and end date default to the plan's price and duration.
type CreateSubscriptionInput struct {
	StudentID string `json:"studentId" validate:"required"`
	PlanID    string `json:"planId" validate:"required"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status" validate:"omitempty,oneof=active expired"`
	Amount    string `json:"amount" validate:"omitempty,amount"`
}

// EnrollInput is the request to enroll a student in a plan and take payment.
type EnrollInput struct {
	StudentID     string `json:"studentId" validate:"required"`
	PlanID        string `json:"planId" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"required"`
	UpiID         string `json:"upiId"`
}

// StudentOption is the compact form used by pickers.
type StudentOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SubscriptionView is a subscription joined with student and plan names.
type SubscriptionView struct {
	ID          string                      `json:"id"`
	StudentName string                      `json:"studentName"`
	PlanName    string                      `json:"planName"`
	StartDate   time.Time                   `json:"startDate"`
	EndDate     time.Time                   `json:"endDate"`
	Status      entities.SubscriptionStatus `json:"status"`
	Amount      string                      `json:"amount"`
}

// Enrollment is the outcome of enrolling a student.
type Enrollment struct {
	Subscription *entities.Subscription `json:"subscription"`
	Payment      *entities.Payment      `json:"payment"`
}

// MemberService manages students and their subscriptions.
type MemberService struct {
	db    UnitOfWork
	audit AuditRecorder
	now   func() time.Time
}

func NewMemberService(db UnitOfWork, audit AuditRecorder) *MemberService {
	return &MemberService{db: db, audit: auditOrNoop(audit), now: time.Now}
}

func (s *MemberService) ListStudents(ctx context.Context) ([]entities.Student, error) {
	students, err := s.db.Store().Students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *MemberService) ListStudentOptions(ctx context.Context) ([]StudentOption, error) {
	students, err := s.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	options := make([]StudentOption, 0, len(students))
	for _, st := range students {
		options = append(options, StudentOption{ID: st.ID, Name: st.Name})
	}
	return options, nil
}

func (s *MemberService) CreateStudent(ctx context.Context, input CreateStudentInput) (*entities.Student, error) {
	input.AadharNumber = optionalString(input.AadharNumber)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	store := s.db.Store()
	email := strings.TrimSpace(input.Email)
	code := strings.TrimSpace(input.StudentID)

	if err := ensureAbsent(store.Students.GetByEmail(ctx, email)); err != nil {
		return nil, fmt.Errorf("student with email %s: %w", email, err)
	}
	if err := ensureAbsent(store.Students.GetByCode(ctx, code)); err != nil {
		return nil, fmt.Errorf("student with id %s: %w", code, err)
	}

	student := &entities.Student{
		Name:        strings.TrimSpace(input.Name),
		Email:       email,
		Phone:       strings.TrimSpace(input.Phone),
		StudentCode: code,
		SeatNumber:  optionalString(input.SeatNumber),
	}
	if input.AadharNumber != nil {
		id := stripSpaces(*input.AadharNumber)
		student.AadharNumber = &id
	}

	if err := store.Students.Create(ctx, student); err != nil {
		return nil, conflict(err, "student")
	}
	return student, nil
}

// DeleteStudent removes a student and everything that references them.
func (s *MemberService) DeleteStudent(ctx context.Context, id string) error {
	store := s.db.Store()

	student, err := store.Students.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "student")
	}
	if err := store.Students.DeleteCascade(ctx, id); err != nil {
		return notFound(err, "student")
	}

	s.audit.LogDelete("student", student.ID, student.Name)
	return nil
}

func (s *MemberService) UpdateBillingRefs(ctx context.Context, id string, input UpdateBillingInput) (*entities.Student, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	student, err := s.db.Store().Students.UpdateBillingRefs(ctx, id,
		strings.TrimSpace(input.StripeCustomerID), strings.TrimSpace(input.StripeSubscriptionID))
	if err != nil {
		return nil, notFound(err, "student")
	}
	return student, nil
}

func (s *MemberService) ListSubscriptions(ctx context.Context) ([]SubscriptionView, error) {
	store := s.db.Store()

	subs, err := store.Subscriptions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	students, err := store.Students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	plans, err := store.Plans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	names := studentNames(students)
	planNames := make(map[string]string, len(plans))
	for _, p := range plans {
		planNames[p.ID] = p.Name
	}

	views := make([]SubscriptionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, SubscriptionView{
			ID:          sub.ID,
			StudentName: valueOr(names, sub.StudentID, "Unknown"),
			PlanName:    valueOr(planNames, sub.PlanID, "Unknown"),
			StartDate:   sub.StartDate,
			EndDate:     sub.EndDate,
			Status:      sub.Status,
			Amount:      sub.Amount,
		})
	}
	return views, nil
}

func (s *MemberService) CreateSubscription(ctx context.Context, input CreateSubscriptionInput) (*entities.Subscription, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	startDate, err := parseOptionalDate("startDate", input.StartDate, s.now())
	if err != nil {
		return nil, err
	}

	store := s.db.Store()
	if _, err := store.Students.GetByID(ctx, input.StudentID); err != nil {
		return nil, notFound(err, "student")
	}
	plan, err := store.Plans.GetByID(ctx, input.PlanID)
	if err != nil {
		return nil, notFound(err, "plan")
	}

	endDate, err := parseOptionalDate("endDate", input.EndDate, startDate.AddDate(0, plan.Duration, 0))
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		return nil, invalidField("endDate must not be before startDate")
	}

	amount := plan.Price
	if input.Amount != "" {
		amount = normalizeAmount(input.Amount)
	}
	status := entities.SubscriptionStatus(input.Status)
	if status == "" {
		status = entities.SubscriptionStatusActive
	}

	sub := &entities.Subscription{
		StudentID: input.StudentID,
		PlanID:    plan.ID,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    status,
		Amount:    amount,
	}
	if err := store.Subscriptions.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return sub, nil
}

// Enroll subscribes a student to a plan starting now and records a completed
// payment of the plan price. Both rows are written in one transaction.
func (s *MemberService) Enroll(ctx context.Context, input EnrollInput) (*Enrollment, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	store := s.db.Store()
	_, studentErr := store.Students.GetByID(ctx, input.StudentID)
	plan, planErr := store.Plans.GetByID(ctx, input.PlanID)
	if studentErr != nil || planErr != nil {
		if isMissing(studentErr) || isMissing(planErr) {
			return nil, fmt.Errorf("student or plan %w", ErrNotFound)
		}
		return nil, errors.Join(studentErr, planErr)
	}

	now := s.now()
	enrollment := &Enrollment{
		Subscription: &entities.Subscription{
			StudentID: input.StudentID,
			PlanID:    plan.ID,
			StartDate: now,
			EndDate:   now.AddDate(0, plan.Duration, 0),
			Status:    entities.SubscriptionStatusActive,
			Amount:    plan.Price,
		},
		Payment: &entities.Payment{
			StudentID:     input.StudentID,
			Amount:        plan.Price,
			PaymentDate:   now,
			PaymentMethod: strings.TrimSpace(input.PaymentMethod),
			Status:        entities.PaymentStatusCompleted,
		},
	}

	err := s.db.WithinTransaction(ctx, func(tx *database.Store) error {
		if err := tx.Subscriptions.Create(ctx, enrollment.Subscription); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		if err := tx.Payments.Create(ctx, enrollment.Payment); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogEnrollment(enrollment.Subscription.ID, input.StudentID, plan.Name)
	return enrollment, nil
}

// ensureAbsent turns a successful lookup into ErrConflict and a missing row
// into nil.
func ensureAbsent(_ *entities.Student, err error) error {
	switch {
	case err == nil:
		return ErrConflict
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return err
	}
}

func isMissing(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
