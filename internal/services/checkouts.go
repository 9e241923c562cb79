package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mrlokans/libraryhub/internal/database"
	"github.com/mrlokans/libraryhub/internal/database/checkouts"
	"github.com/mrlokans/libraryhub/internal/entities"
)

// LateFeeGracePeriod is how long a student has to pay a late fee.
const LateFeeGracePeriod = 7 * 24 * time.Hour

// CreateCheckoutInput is the request to lend a book.
type CreateCheckoutInput struct {
	BookID    string `json:"bookId" validate:"required"`
	StudentID string `json:"studentId" validate:"required"`
	DueDate   string `json:"dueDate" validate:"required"`
}

// CheckoutView is a checkout joined with the book title and student name.
type CheckoutView struct {
	ID           string                  `json:"id"`
	BookTitle    string                  `json:"bookTitle"`
	StudentName  string                  `json:"studentName"`
	CheckoutDate time.Time               `json:"checkoutDate"`
	DueDate      time.Time               `json:"dueDate"`
	ReturnDate   *time.Time              `json:"returnDate"`
	Status       entities.CheckoutStatus `json:"status"`
}

// CheckoutService runs the lending workflow: checkout, return and late fees.
type CheckoutService struct {
	db            UnitOfWork
	audit         AuditRecorder
	lateFeePerDay decimal.Decimal
	now           func() time.Time
}

func NewCheckoutService(db UnitOfWork, audit AuditRecorder, lateFeePerDay decimal.Decimal) *CheckoutService {
	return &CheckoutService{
		db:            db,
		audit:         auditOrNoop(audit),
		lateFeePerDay: lateFeePerDay,
		now:           time.Now,
	}
}

// List returns every checkout with its book title and student name.
func (s *CheckoutService) List(ctx context.Context) ([]CheckoutView, error) {
	store := s.db.Store()

	all, err := store.Checkouts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkouts: %w", err)
	}
	books, err := store.Books.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	students, err := store.Students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	titles := make(map[string]string, len(books))
	for _, b := range books {
		titles[b.ID] = b.Title
	}
	names := studentNames(students)

	views := make([]CheckoutView, 0, len(all))
	for _, c := range all {
		views = append(views, CheckoutView{
			ID:           c.ID,
			BookTitle:    valueOr(titles, c.BookID, "Unknown"),
			StudentName:  valueOr(names, c.StudentID, "Unknown"),
			CheckoutDate: c.CheckoutDate,
			DueDate:      c.DueDate,
			ReturnDate:   c.ReturnDate,
			Status:       c.Status,
		})
	}
	return views, nil
}

// Create lends a copy of a book. The copy count is decremented with a
// conditional update in the same transaction as the insert, so two
// concurrent requests can never take the last copy twice.
func (s *CheckoutService) Create(ctx context.Context, input CreateCheckoutInput) (*entities.Checkout, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	dueDate, err := parseDate("dueDate", input.DueDate)
	if err != nil {
		return nil, err
	}

	store := s.db.Store()
	book, err := store.Books.GetByID(ctx, input.BookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnavailable
		}
		return nil, err
	}
	if !book.HasAvailableCopy() {
		return nil, ErrUnavailable
	}
	if _, err := store.Students.GetByID(ctx, input.StudentID); err != nil {
		return nil, notFound(err, "student")
	}

	checkout := &entities.Checkout{
		BookID:       input.BookID,
		StudentID:    input.StudentID,
		CheckoutDate: s.now(),
		DueDate:      dueDate,
		Status:       entities.CheckoutStatusActive,
	}

	err = s.db.WithinTransaction(ctx, func(tx *database.Store) error {
		ok, err := tx.Books.DecrementAvailable(ctx, input.BookID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnavailable
		}
		return tx.Checkouts.Create(ctx, checkout)
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogCheckout(checkout.ID, checkout.BookID, checkout.StudentID)
	return checkout, nil
}

// Return records the return of a checkout, puts the copy back on the shelf
// and charges a late fee when the book came back after its due date.
func (s *CheckoutService) Return(ctx context.Context, checkoutID string) (*entities.Checkout, error) {
	store := s.db.Store()

	checkout, err := store.Checkouts.GetByID(ctx, checkoutID)
	if err != nil {
		return nil, notFound(err, "checkout")
	}
	if _, err := store.Books.GetByID(ctx, checkout.BookID); err != nil {
		return nil, notFound(err, "book")
	}
	if checkout.Status == entities.CheckoutStatusReturned {
		return nil, ErrAlreadyReturned
	}

	now := s.now()
	var (
		returned *entities.Checkout
		fee      *entities.Fee
		daysLate int
	)

	err = s.db.WithinTransaction(ctx, func(tx *database.Store) error {
		var err error
		returned, err = tx.Checkouts.MarkReturned(ctx, checkoutID, now)
		if errors.Is(err, checkouts.ErrNotActive) {
			return ErrAlreadyReturned
		}
		if err != nil {
			return err
		}

		restored, err := tx.Books.IncrementAvailable(ctx, checkout.BookID)
		if err != nil {
			return err
		}
		if !restored {
			log.Printf("Book %s already has all copies on the shelf, not incrementing", checkout.BookID)
		}

		if !checkout.DueDate.Before(now) {
			return nil
		}

		daysLate = ceilDays(now.Sub(checkout.DueDate))
		fee = &entities.Fee{
			StudentID:   checkout.StudentID,
			Amount:      formatAmount(s.lateFeePerDay.Mul(decimal.NewFromInt(int64(daysLate)))),
			Type:        entities.FeeTypeLate,
			Description: fmt.Sprintf("Late return fee for %d days", daysLate),
			Status:      entities.FeeStatusPending,
			DueDate:     now.Add(LateFeeGracePeriod),
		}
		return tx.Fees.Create(ctx, fee)
	})
	if err != nil {
		return nil, err
	}

	lateFee := ""
	if fee != nil {
		lateFee = fee.Amount
	}
	s.audit.LogReturn(checkoutID, daysLate, lateFee)

	return returned, nil
}

func studentNames(students []entities.Student) map[string]string {
	names := make(map[string]string, len(students))
	for _, st := range students {
		names[st.ID] = st.Name
	}
	return names
}

func valueOr(values map[string]string, key, fallback string) string {
	if v, ok := values[key]; ok {
		return v
	}
	return fallback
}
