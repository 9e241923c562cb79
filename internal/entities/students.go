package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Student struct {
	ID    string `gorm:"primaryKey;size:36" json:"id"`
	Name  string `gorm:"size:256;not null" json:"name"`
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone string `gorm:"size:32;not null" json:"phone"`

	// National ID, exactly 12 digits when present
	AadharNumber *string `gorm:"size:12" json:"aadharNumber"`
	// External code printed on the membership card
	StudentCode    string    `gorm:"column:student_code;uniqueIndex;size:64;not null" json:"studentId"`
	SeatNumber     *string   `gorm:"size:32" json:"seatNumber"`
	EnrollmentDate time.Time `gorm:"not null" json:"enrollmentDate"`

	// Billing gateway references
	BillingCustomerRef     *string `gorm:"size:255" json:"stripeCustomerId"`
	BillingSubscriptionRef *string `gorm:"size:255" json:"stripeSubscriptionId"`
}

func (Student) TableName() string {
	return "students"
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.EnrollmentDate.IsZero() {
		s.EnrollmentDate = time.Now()
	}
	return nil
}
