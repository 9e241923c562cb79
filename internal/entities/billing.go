package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeeStatus string

const (
	FeeStatusPending FeeStatus = "pending"
	FeeStatusOverdue FeeStatus = "overdue"
	FeeStatusPaid    FeeStatus = "paid"
)

// FeeTypeLate marks fees generated by late returns.
const FeeTypeLate = "late-fee"

type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusPending   PaymentStatus = "pending"
)

type Fee struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	StudentID   string     `gorm:"index;size:36;not null" json:"studentId"`
	Amount      string     `gorm:"size:20;not null" json:"amount"`
	Type        string     `gorm:"size:50;not null" json:"type"`
	Description string     `gorm:"size:500;not null" json:"description"`
	Status      FeeStatus  `gorm:"size:20;not null;index" json:"status"`
	DueDate     time.Time  `gorm:"not null" json:"dueDate"`
	PaidDate    *time.Time `json:"paidDate"` // Set iff Status is paid

	Student *Student `gorm:"foreignKey:StudentID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Fee) TableName() string {
	return "fees"
}

func (f *Fee) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Status == "" {
		f.Status = FeeStatusPending
	}
	return nil
}

// IsOutstanding reports whether the fee still has to be paid.
func (f *Fee) IsOutstanding() bool {
	return f.Status == FeeStatusPending || f.Status == FeeStatusOverdue
}

type Payment struct {
	ID                string        `gorm:"primaryKey;size:36" json:"id"`
	StudentID         string        `gorm:"index;size:36;not null" json:"studentId"`
	FeeID             *string       `gorm:"index;size:36" json:"feeId"`
	Amount            string        `gorm:"size:20;not null" json:"amount"`
	PaymentDate       time.Time     `gorm:"not null" json:"paymentDate"`
	PaymentMethod     string        `gorm:"size:50;not null" json:"paymentMethod"`
	GatewayPaymentRef *string       `gorm:"size:255" json:"stripePaymentIntentId"`
	Status            PaymentStatus `gorm:"size:20;not null;index" json:"status"`

	Student *Student `gorm:"foreignKey:StudentID;constraint:OnDelete:RESTRICT" json:"-"`
	Fee     *Fee     `gorm:"foreignKey:FeeID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = time.Now()
	}
	if p.Status == "" {
		p.Status = PaymentStatusCompleted
	}
	return nil
}

// IsCompleted reports whether the payment has been received.
func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}
