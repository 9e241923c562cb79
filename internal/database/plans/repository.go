// Package plans provides database operations for subscription plans.
package plans

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/libraryhub/internal/entities"
)

// Repository handles all subscription plan database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new plans repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every plan, cheapest duration first.
func (r *Repository) List(ctx context.Context) ([]entities.SubscriptionPlan, error) {
	var plans []entities.SubscriptionPlan
	err := r.db.WithContext(ctx).Order("duration ASC, name ASC").Find(&plans).Error
	return plans, err
}

// GetByID retrieves a plan by ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.SubscriptionPlan, error) {
	var plan entities.SubscriptionPlan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// Create inserts a new plan.
func (r *Repository) Create(ctx context.Context, plan *entities.SubscriptionPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

// Count returns the number of plans.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.SubscriptionPlan{}).Count(&count).Error
	return count, err
}
