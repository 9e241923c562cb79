package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mrlokans/libraryhub/internal/entities"
)

const (
	upcomingFeesWindow = 7 * 24 * time.Hour
	upcomingFeesLimit  = 5
	recentStudentLimit = 5
)

// DashboardStats is the canonical dashboard summary.
type DashboardStats struct {
	TotalStudents       int    `json:"totalStudents"`
	ActiveSubscriptions int    `json:"activeSubscriptions"`
	TotalRevenue        string `json:"totalRevenue"`
	TotalBooks          int    `json:"totalBooks"`
	ActiveCheckouts     int    `json:"activeCheckouts"`
	OverdueCheckouts    int    `json:"overdueCheckouts"`
	PendingFees         string `json:"pendingFees"`
}

// RevenueSummary aggregates payments by completion.
type RevenueSummary struct {
	TotalStudents   int    `json:"totalStudents"`
	PendingPayments string `json:"pendingPayments"`
	PaidPayments    string `json:"paidPayments"`
	TotalReceived   string `json:"totalReceived"`
}

// UpcomingFee is an outstanding fee due soon.
type UpcomingFee struct {
	ID          string    `json:"id"`
	StudentName string    `json:"studentName"`
	Amount      string    `json:"amount"`
	DueDate     time.Time `json:"dueDate"`
	Type        string    `json:"type"`
}

// StudentFeeSummary is one row of the students-with-fees report.
type StudentFeeSummary struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	PlanName       string     `json:"planName"`
	Amount         string     `json:"amount"`
	PaymentStatus  string     `json:"paymentStatus"`
	PaymentDate    *time.Time `json:"paymentDate"`
	EnrollmentDate time.Time  `json:"enrollmentDate"`
}

// DashboardService computes read-side aggregates. Nothing is cached; every
// call reflects the current rows.
type DashboardService struct {
	db  UnitOfWork
	now func() time.Time
}

func NewDashboardService(db UnitOfWork) *DashboardService {
	return &DashboardService{db: db, now: time.Now}
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	store := s.db.Store()
	now := s.now()

	students, err := store.Students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	subs, err := store.Subscriptions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	bookCount, err := store.Books.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}
	loans, err := store.Checkouts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkouts: %w", err)
	}
	fees, err := store.Fees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fees: %w", err)
	}

	stats := &DashboardStats{
		TotalStudents: len(students),
		TotalBooks:    int(bookCount),
	}

	amounts := make([]string, 0, len(subs))
	for _, sub := range subs {
		amounts = append(amounts, sub.Amount)
		if sub.Status == entities.SubscriptionStatusActive {
			stats.ActiveSubscriptions++
		}
	}
	stats.TotalRevenue = formatAmount(sumAmounts(amounts))

	for _, c := range loans {
		if c.Status != entities.CheckoutStatusActive {
			continue
		}
		stats.ActiveCheckouts++
		if c.IsOverdue(now) {
			stats.OverdueCheckouts++
		}
	}

	stats.PendingFees = formatAmount(sumFees(fees))
	return stats, nil
}

// Revenue summarises payments: completed ones count as received, anything
// else as pending.
func (s *DashboardService) Revenue(ctx context.Context) (*RevenueSummary, error) {
	store := s.db.Store()

	students, err := store.Students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	payments, err := store.Payments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	var received, pending []string
	for _, p := range payments {
		if p.IsCompleted() {
			received = append(received, p.Amount)
		} else {
			pending = append(pending, p.Amount)
		}
	}

	paid := formatAmount(sumAmounts(received))
	return &RevenueSummary{
		TotalStudents:   len(students),
		PendingPayments: formatAmount(sumAmounts(pending)),
		PaidPayments:    paid,
		TotalReceived:   paid,
	}, nil
}

// RecentStudents returns the most recently enrolled students.
func (s *DashboardService) RecentStudents(ctx context.Context) ([]entities.Student, error) {
	students, err := s.db.Store().Students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	sort.SliceStable(students, func(i, j int) bool {
		return students[i].EnrollmentDate.After(students[j].EnrollmentDate)
	})
	if len(students) > recentStudentLimit {
		students = students[:recentStudentLimit]
	}
	return students, nil
}

// UpcomingFees lists outstanding fees due within the next week, in storage
// order, capped at five.
func (s *DashboardService) UpcomingFees(ctx context.Context) ([]UpcomingFee, error) {
	store := s.db.Store()
	horizon := s.now().Add(upcomingFeesWindow)

	fees, err := store.Fees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fees: %w", err)
	}
	students, err := store.Students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	names := studentNames(students)

	upcoming := make([]UpcomingFee, 0, upcomingFeesLimit)
	for _, f := range fees {
		if !f.IsOutstanding() || f.DueDate.After(horizon) {
			continue
		}
		upcoming = append(upcoming, UpcomingFee{
			ID:          f.ID,
			StudentName: valueOr(names, f.StudentID, "Unknown"),
			Amount:      f.Amount,
			DueDate:     f.DueDate,
			Type:        f.Type,
		})
		if len(upcoming) == upcomingFeesLimit {
			break
		}
	}
	return upcoming, nil
}

// StudentsWithFees reports each student's latest subscription and whether a
// completed payment exists.
func (s *DashboardService) StudentsWithFees(ctx context.Context) ([]StudentFeeSummary, error) {
	store := s.db.Store()

	students, err := store.Students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	subs, err := store.Subscriptions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	plans, err := store.Plans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	payments, err := store.Payments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	planNames := make(map[string]string, len(plans))
	for _, p := range plans {
		planNames[p.ID] = p.Name
	}

	latestSub := make(map[string]entities.Subscription)
	for _, sub := range subs {
		if current, ok := latestSub[sub.StudentID]; !ok || sub.StartDate.After(current.StartDate) {
			latestSub[sub.StudentID] = sub
		}
	}

	latestPayment := make(map[string]entities.Payment)
	for _, p := range payments {
		if !p.IsCompleted() {
			continue
		}
		if current, ok := latestPayment[p.StudentID]; !ok || p.PaymentDate.After(current.PaymentDate) {
			latestPayment[p.StudentID] = p
		}
	}

	rows := make([]StudentFeeSummary, 0, len(students))
	for _, st := range students {
		row := StudentFeeSummary{
			ID:             st.ID,
			Name:           st.Name,
			Email:          st.Email,
			Phone:          st.Phone,
			PlanName:       "N/A",
			Amount:         "0",
			PaymentStatus:  "pending",
			EnrollmentDate: st.EnrollmentDate,
		}
		if sub, ok := latestSub[st.ID]; ok {
			row.PlanName = valueOr(planNames, sub.PlanID, "N/A")
			row.Amount = sub.Amount
		}
		if p, ok := latestPayment[st.ID]; ok {
			row.PaymentStatus = "paid"
			paidAt := p.PaymentDate
			row.PaymentDate = &paidAt
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func sumFees(fees []entities.Fee) decimal.Decimal {
	amounts := make([]string, 0, len(fees))
	for _, f := range fees {
		if f.IsOutstanding() {
			amounts = append(amounts, f.Amount)
		}
	}
	return sumAmounts(amounts)
}
