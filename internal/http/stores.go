package http

import (
	"context"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/libraryhub/internal/database/audit"
	"github.com/mrlokans/libraryhub/internal/entities"
	"github.com/mrlokans/libraryhub/internal/scheduler"
	"github.com/mrlokans/libraryhub/internal/services"
)

// This file collects the service interfaces used by HTTP controllers.
// Each controller depends only on the operations it calls.

// Members manages students, subscriptions and enrollment.
type Members interface {
	ListStudents(ctx context.Context) ([]entities.Student, error)
	ListStudentOptions(ctx context.Context) ([]services.StudentOption, error)
	CreateStudent(ctx context.Context, input services.CreateStudentInput) (*entities.Student, error)
	DeleteStudent(ctx context.Context, id string) error
	UpdateBillingRefs(ctx context.Context, id string, input services.UpdateBillingInput) (*entities.Student, error)
	ListSubscriptions(ctx context.Context) ([]services.SubscriptionView, error)
	CreateSubscription(ctx context.Context, input services.CreateSubscriptionInput) (*entities.Subscription, error)
	Enroll(ctx context.Context, input services.EnrollInput) (*services.Enrollment, error)
}

// Catalog manages books and subscription plans.
type Catalog interface {
	ListBooks(ctx context.Context) ([]entities.Book, error)
	ListAvailability(ctx context.Context) ([]services.BookAvailability, error)
	CreateBook(ctx context.Context, input services.CreateBookInput) (*entities.Book, error)
	ListPlans(ctx context.Context) ([]services.PlanView, error)
	CreatePlan(ctx context.Context, input services.CreatePlanInput) (*services.PlanView, error)
}

// Lending records checkouts and returns.
type Lending interface {
	List(ctx context.Context) ([]services.CheckoutView, error)
	Create(ctx context.Context, input services.CreateCheckoutInput) (*entities.Checkout, error)
	Return(ctx context.Context, checkoutID string) (*entities.Checkout, error)
}

// Billing manages fees and payments.
type Billing interface {
	ListFees(ctx context.Context) ([]services.FeeView, error)
	CreateFee(ctx context.Context, input services.CreateFeeInput) (*entities.Fee, error)
	ListPayments(ctx context.Context) ([]services.PaymentView, error)
	CreatePayment(ctx context.Context, input services.CreatePaymentInput) (*entities.Payment, error)
	MarkPaymentPending(ctx context.Context, paymentID string) (*entities.Payment, error)
}

// Dashboard computes the back office summaries.
type Dashboard interface {
	Stats(ctx context.Context) (*services.DashboardStats, error)
	Revenue(ctx context.Context) (*services.RevenueSummary, error)
	RecentStudents(ctx context.Context) ([]entities.Student, error)
	UpcomingFees(ctx context.Context) ([]services.UpcomingFee, error)
	StudentsWithFees(ctx context.Context) ([]services.StudentFeeSummary, error)
}

// Renewals projects upcoming subscription renewals.
type Renewals interface {
	Upcoming(ctx context.Context) ([]services.RenewalReminder, error)
}

// ReminderTrigger runs the fee reminder sweep on demand.
type ReminderTrigger interface {
	RunNow() (*services.ReminderRunResult, error)
	LastRun() *scheduler.SweepStatus
	GetNextRunTime() *time.Time
}

// TaskStatusReader reports the state of queued tasks.
type TaskStatusReader interface {
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// AuditReader lists recorded audit events.
type AuditReader interface {
	GetEvents(ctx context.Context, filter audit.EventFilter, limit, offset int) ([]entities.AuditEvent, int64, error)
}
