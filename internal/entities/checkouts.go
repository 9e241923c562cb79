package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CheckoutStatus string

const (
	CheckoutStatusActive   CheckoutStatus = "active"
	CheckoutStatusReturned CheckoutStatus = "returned"
)

type Checkout struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	BookID       string         `gorm:"index;size:36;not null" json:"bookId"`
	StudentID    string         `gorm:"index;size:36;not null" json:"studentId"`
	CheckoutDate time.Time      `gorm:"not null" json:"checkoutDate"`
	DueDate      time.Time      `gorm:"not null" json:"dueDate"`
	ReturnDate   *time.Time     `json:"returnDate"` // Set iff Status is returned
	Status       CheckoutStatus `gorm:"size:20;not null;index" json:"status"`

	Book    *Book    `gorm:"foreignKey:BookID;constraint:OnDelete:RESTRICT" json:"-"`
	Student *Student `gorm:"foreignKey:StudentID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Checkout) TableName() string {
	return "checkouts"
}

func (c *Checkout) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CheckoutDate.IsZero() {
		c.CheckoutDate = time.Now()
	}
	if c.Status == "" {
		c.Status = CheckoutStatusActive
	}
	return nil
}

// IsOverdue reports whether an active checkout is past its due date at now.
func (c *Checkout) IsOverdue(now time.Time) bool {
	return c.Status == CheckoutStatusActive && c.DueDate.Before(now)
}
