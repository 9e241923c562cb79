// Package payments provides database operations for received payments.
package payments

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/libraryhub/internal/entities"
)

// Repository handles all payment database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new payments repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all payments, most recent first.
func (r *Repository) List(ctx context.Context) ([]entities.Payment, error) {
	var payments []entities.Payment
	err := r.db.WithContext(ctx).Order("payment_date DESC").Find(&payments).Error
	return payments, err
}

// GetByID retrieves a payment by ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Payment, error) {
	var payment entities.Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Create inserts a new payment.
func (r *Repository) Create(ctx context.Context, payment *entities.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// UpdateStatus changes a payment's status.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status entities.PaymentStatus) (*entities.Payment, error) {
	result := r.db.WithContext(ctx).Model(&entities.Payment{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}
