// Package students provides database operations for library members.
package students

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/libraryhub/internal/entities"
)

// Repository handles all student database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new students repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all students in enrollment order.
func (r *Repository) List(ctx context.Context) ([]entities.Student, error) {
	var students []entities.Student
	err := r.db.WithContext(ctx).Order("enrollment_date ASC").Find(&students).Error
	return students, err
}

// GetByID retrieves a student by ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Student, error) {
	var student entities.Student
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// GetByEmail retrieves a student by email address.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*entities.Student, error) {
	var student entities.Student
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// GetByCode retrieves a student by the external student code.
func (r *Repository) GetByCode(ctx context.Context, code string) (*entities.Student, error) {
	var student entities.Student
	err := r.db.WithContext(ctx).Where("student_code = ?", code).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student.
func (r *Repository) Create(ctx context.Context, student *entities.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

// UpdateBillingRefs stores the billing gateway customer and subscription references.
func (r *Repository) UpdateBillingRefs(ctx context.Context, id, customerRef, subscriptionRef string) (*entities.Student, error) {
	result := r.db.WithContext(ctx).Model(&entities.Student{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"billing_customer_ref":     customerRef,
			"billing_subscription_ref": subscriptionRef,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// DeleteCascade removes a student together with every dependent row.
//
// Copies held by the student's active checkouts are returned to the shelf
// first. Payments go before fees because payments reference fees; any other
// student's payment that points at one of these fees is detached.
// Returns gorm.ErrRecordNotFound when the student does not exist.
func (r *Repository) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student entities.Student
		if err := tx.Where("id = ?", id).First(&student).Error; err != nil {
			return err
		}

		var active []entities.Checkout
		if err := tx.Where("student_id = ? AND status = ?", id, entities.CheckoutStatusActive).Find(&active).Error; err != nil {
			return err
		}
		for _, checkout := range active {
			err := tx.Model(&entities.Book{}).
				Where("id = ? AND available_copies < total_copies", checkout.BookID).
				Update("available_copies", gorm.Expr("available_copies + 1")).Error
			if err != nil {
				return err
			}
		}

		studentFees := tx.Model(&entities.Fee{}).Select("id").Where("student_id = ?", id)
		if err := tx.Model(&entities.Payment{}).
			Where("fee_id IN (?) AND student_id <> ?", studentFees, id).
			Update("fee_id", nil).Error; err != nil {
			return err
		}

		dependents := []any{
			&entities.Payment{},
			&entities.Fee{},
			&entities.Checkout{},
			&entities.Subscription{},
		}
		for _, model := range dependents {
			if err := tx.Where("student_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&student).Error
	})
}
