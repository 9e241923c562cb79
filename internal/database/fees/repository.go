// Package fees provides database operations for student fees.
package fees

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/libraryhub/internal/entities"
)

// Repository handles all fee database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new fees repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all fees in storage order.
func (r *Repository) List(ctx context.Context) ([]entities.Fee, error) {
	var fees []entities.Fee
	err := r.db.WithContext(ctx).Find(&fees).Error
	return fees, err
}

// ListByStudent returns all fees charged to a student.
func (r *Repository) ListByStudent(ctx context.Context, studentID string) ([]entities.Fee, error) {
	var fees []entities.Fee
	err := r.db.WithContext(ctx).Where("student_id = ?", studentID).Find(&fees).Error
	return fees, err
}

// ListByStatus returns fees in any of the given statuses.
func (r *Repository) ListByStatus(ctx context.Context, statuses ...entities.FeeStatus) ([]entities.Fee, error) {
	var fees []entities.Fee
	err := r.db.WithContext(ctx).Where("status IN ?", statuses).Find(&fees).Error
	return fees, err
}

// GetByID retrieves a fee by ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Fee, error) {
	var fee entities.Fee
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&fee).Error
	if err != nil {
		return nil, err
	}
	return &fee, nil
}

// Create inserts a new fee. PaidDate is always cleared on insert.
func (r *Repository) Create(ctx context.Context, fee *entities.Fee) error {
	fee.PaidDate = nil
	return r.db.WithContext(ctx).Create(fee).Error
}

// UpdateStatus sets the fee status and paid date. A nil paidDate clears it.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status entities.FeeStatus, paidDate *time.Time) (*entities.Fee, error) {
	result := r.db.WithContext(ctx).Model(&entities.Fee{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":    status,
			"paid_date": paidDate,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// MarkOverdue flips pending fees whose due date is before now to overdue and
// returns how many were changed.
func (r *Repository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	pending, err := r.ListByStatus(ctx, entities.FeeStatusPending)
	if err != nil {
		return 0, err
	}

	var ids []string
	for _, fee := range pending {
		if fee.DueDate.Before(now) {
			ids = append(ids, fee.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Model(&entities.Fee{}).
		Where("id IN ? AND status = ?", ids, entities.FeeStatusPending).
		Update("status", entities.FeeStatusOverdue)
	return result.RowsAffected, result.Error
}
