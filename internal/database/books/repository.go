// Package books provides database operations for the book catalogue.
//
// Copy counts are only ever changed through conditional single-statement
// updates so that 0 <= available_copies <= total_copies holds under
// concurrent checkouts and returns.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	ok, err := repo.DecrementAvailable(ctx, bookID)
package books

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/libraryhub/internal/entities"
)

// ErrCopiesOutOfRange is returned when a copy count would leave 0..total_copies.
var ErrCopiesOutOfRange = errors.New("available copies out of range")

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every book ordered by title.
func (r *Repository) List(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).Order("title ASC").Find(&books).Error
	return books, err
}

// GetByID retrieves a book by ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByISBN retrieves a book by ISBN.
func (r *Repository) GetByISBN(ctx context.Context, isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Where("isbn = ?", isbn).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Create inserts a new book.
func (r *Repository) Create(ctx context.Context, book *entities.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// Count returns the number of books in the catalogue.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// UpdateAvailableCopies sets the available copy count. The update is rejected
// with ErrCopiesOutOfRange when the count is outside 0..total_copies.
func (r *Repository) UpdateAvailableCopies(ctx context.Context, id string, availableCopies int) error {
	if availableCopies < 0 {
		return ErrCopiesOutOfRange
	}
	result := r.db.WithContext(ctx).Model(&entities.Book{}).
		Where("id = ? AND total_copies >= ?", id, availableCopies).
		Update("available_copies", availableCopies)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrCopiesOutOfRange
	}
	return nil
}

// DecrementAvailable takes one copy if any is left. It reports false when the
// book is missing or has no copies available.
func (r *Repository) DecrementAvailable(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entities.Book{}).
		Where("id = ? AND available_copies > 0", id).
		Update("available_copies", gorm.Expr("available_copies - 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// IncrementAvailable puts one copy back unless the book is already at its
// total. It reports false when nothing was changed.
func (r *Repository) IncrementAvailable(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entities.Book{}).
		Where("id = ? AND available_copies < total_copies", id).
		Update("available_copies", gorm.Expr("available_copies + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
