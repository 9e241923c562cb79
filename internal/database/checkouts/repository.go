// Package checkouts provides database operations for book loans.
package checkouts

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/libraryhub/internal/entities"
)

// ErrNotActive is returned when a return is recorded for a checkout that is
// no longer active.
var ErrNotActive = errors.New("checkout is not active")

// Repository handles all checkout database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new checkouts repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all checkouts, most recent first.
func (r *Repository) List(ctx context.Context) ([]entities.Checkout, error) {
	var checkouts []entities.Checkout
	err := r.db.WithContext(ctx).Order("checkout_date DESC").Find(&checkouts).Error
	return checkouts, err
}

// ListActiveByStudent returns checkouts a student has not returned yet.
func (r *Repository) ListActiveByStudent(ctx context.Context, studentID string) ([]entities.Checkout, error) {
	var checkouts []entities.Checkout
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND status = ?", studentID, entities.CheckoutStatusActive).
		Order("due_date ASC").
		Find(&checkouts).Error
	return checkouts, err
}

// GetByID retrieves a checkout by ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Checkout, error) {
	var checkout entities.Checkout
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&checkout).Error
	if err != nil {
		return nil, err
	}
	return &checkout, nil
}

// Create inserts a new checkout.
func (r *Repository) Create(ctx context.Context, checkout *entities.Checkout) error {
	return r.db.WithContext(ctx).Create(checkout).Error
}

// MarkReturned sets the return date and flips the status to returned. Only
// active checkouts are updated; anything else yields ErrNotActive.
func (r *Repository) MarkReturned(ctx context.Context, id string, returnDate time.Time) (*entities.Checkout, error) {
	result := r.db.WithContext(ctx).Model(&entities.Checkout{}).
		Where("id = ? AND status = ?", id, entities.CheckoutStatusActive).
		Updates(map[string]any{
			"return_date": returnDate,
			"status":      entities.CheckoutStatusReturned,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotActive
	}
	return r.GetByID(ctx, id)
}
