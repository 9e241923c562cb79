package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive  SubscriptionStatus = "active"
	SubscriptionStatusExpired SubscriptionStatus = "expired"
)

type SubscriptionPlan struct {
	ID              string         `gorm:"primaryKey;size:36" json:"id"`
	Name            string         `gorm:"size:100;not null" json:"name"`
	Price           string         `gorm:"size:20;not null" json:"price"`
	Duration        int            `gorm:"not null" json:"duration"` // Months
	Features        datatypes.JSON `json:"features"`
	BillingPriceRef *string        `gorm:"size:255" json:"stripePriceId"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

func (p *SubscriptionPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if len(p.Features) == 0 {
		p.Features = NewFeatureList(nil)
	}
	return nil
}

// FeatureList decodes the ordered feature descriptions.
func (p *SubscriptionPlan) FeatureList() []string {
	var features []string
	if len(p.Features) == 0 {
		return features
	}
	if err := json.Unmarshal(p.Features, &features); err != nil {
		return nil
	}
	return features
}

// NewFeatureList encodes feature descriptions for the JSON column.
func NewFeatureList(features []string) datatypes.JSON {
	if features == nil {
		features = []string{}
	}
	b, err := json.Marshal(features)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(b)
}

type Subscription struct {
	ID        string             `gorm:"primaryKey;size:36" json:"id"`
	StudentID string             `gorm:"index;size:36;not null" json:"studentId"`
	PlanID    string             `gorm:"index;size:36;not null" json:"planId"`
	StartDate time.Time          `gorm:"not null" json:"startDate"`
	EndDate   time.Time          `gorm:"not null" json:"endDate"`
	Status    SubscriptionStatus `gorm:"size:20;not null;index" json:"status"`
	Amount    string             `gorm:"size:20;not null" json:"amount"` // Snapshot of the plan price

	Student *Student          `gorm:"foreignKey:StudentID;constraint:OnDelete:RESTRICT" json:"-"`
	Plan    *SubscriptionPlan `gorm:"foreignKey:PlanID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.StartDate.IsZero() {
		s.StartDate = time.Now()
	}
	return nil
}
