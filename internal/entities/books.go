package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Book struct {
	ID              string `gorm:"primaryKey;size:36" json:"id"`
	Title           string `gorm:"index;size:512;not null" json:"title"`
	Author          string `gorm:"index;size:256;not null" json:"author"`
	ISBN            string `gorm:"uniqueIndex;size:20;not null" json:"isbn"`
	Category        string `gorm:"size:100;not null" json:"category"`
	TotalCopies     int    `gorm:"not null" json:"totalCopies"`
	AvailableCopies int    `gorm:"not null" json:"availableCopies"`
	PublishedYear   *int   `json:"publishedYear"`
}

func (Book) TableName() string {
	return "books"
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// HasAvailableCopy reports whether at least one copy can be checked out.
func (b *Book) HasAvailableCopy() bool {
	return b.AvailableCopies > 0
}
