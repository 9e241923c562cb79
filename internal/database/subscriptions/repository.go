// Package subscriptions provides database operations for student subscriptions.
package subscriptions

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/libraryhub/internal/entities"
)

// Repository handles all subscription database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new subscriptions repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all subscriptions, newest first.
func (r *Repository) List(ctx context.Context) ([]entities.Subscription, error) {
	var subs []entities.Subscription
	err := r.db.WithContext(ctx).Order("start_date DESC").Find(&subs).Error
	return subs, err
}

// ListActive returns subscriptions with status active.
func (r *Repository) ListActive(ctx context.Context) ([]entities.Subscription, error) {
	var subs []entities.Subscription
	err := r.db.WithContext(ctx).
		Where("status = ?", entities.SubscriptionStatusActive).
		Find(&subs).Error
	return subs, err
}

// ListByStudent returns a student's subscriptions, newest first.
func (r *Repository) ListByStudent(ctx context.Context, studentID string) ([]entities.Subscription, error) {
	var subs []entities.Subscription
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("start_date DESC").
		Find(&subs).Error
	return subs, err
}

// GetActiveByStudent returns the most recently started active subscription.
func (r *Repository) GetActiveByStudent(ctx context.Context, studentID string) (*entities.Subscription, error) {
	var sub entities.Subscription
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND status = ?", studentID, entities.SubscriptionStatusActive).
		Order("start_date DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create inserts a new subscription. Amount and end date must already be
// snapshotted by the caller.
func (r *Repository) Create(ctx context.Context, sub *entities.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}
