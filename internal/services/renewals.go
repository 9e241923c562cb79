package services

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// RenewalReminder is an active subscription approaching its end date.
type RenewalReminder struct {
	ID               string    `json:"id"`
	StudentName      string    `json:"studentName"`
	Email            string    `json:"email"`
	PlanName         string    `json:"planName"`
	Amount           string    `json:"amount"`
	RenewalDate      time.Time `json:"renewalDate"`
	DaysUntilRenewal int       `json:"daysUntilRenewal"`
}

type RenewalService struct {
	db  UnitOfWork
	now func() time.Time
}

func NewRenewalService(db UnitOfWork) *RenewalService {
	return &RenewalService{db: db, now: time.Now}
}

// Upcoming projects active subscriptions onto their renewal dates. Rows whose
// end date has passed are dropped; the rest are ordered soonest first.
func (s *RenewalService) Upcoming(ctx context.Context) ([]RenewalReminder, error) {
	store := s.db.Store()
	now := s.now()

	subs, err := store.Subscriptions.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscriptions: %w", err)
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
	emails := make(map[string]string, len(students))
	for _, st := range students {
		emails[st.ID] = st.Email
	}
	planNames := make(map[string]string, len(plans))
	for _, p := range plans {
		planNames[p.ID] = p.Name
	}

	reminders := make([]RenewalReminder, 0, len(subs))
	for _, sub := range subs {
		days := ceilDays(sub.EndDate.Sub(now))
		if days <= 0 {
			continue
		}
		reminders = append(reminders, RenewalReminder{
			ID:               sub.ID,
			StudentName:      valueOr(names, sub.StudentID, "Unknown"),
			Email:            valueOr(emails, sub.StudentID, "N/A"),
			PlanName:         valueOr(planNames, sub.PlanID, "Unknown"),
			Amount:           sub.Amount,
			RenewalDate:      sub.EndDate,
			DaysUntilRenewal: days,
		})
	}

	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].DaysUntilRenewal < reminders[j].DaysUntilRenewal
	})
	return reminders, nil
}
