package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable is returned when a book has no copies left to lend.
	ErrUnavailable = errors.New("book not available")
	// ErrAlreadyReturned is returned when a return is recorded twice.
	ErrAlreadyReturned = errors.New("book already returned")
	// ErrConflict is returned when a unique field is already taken.
	ErrConflict = errors.New("already exists")
)

// ValidationError describes input that failed validation.
type ValidationError struct {
	Fields []string
	Err    error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 && e.Err != nil {
		return "invalid input: " + e.Err.Error()
	}
	return "invalid input: " + strings.Join(e.Fields, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalidField(format string, args ...any) *ValidationError {
	return &ValidationError{Fields: []string{fmt.Sprintf(format, args...)}}
}

func newValidationError(err error) *ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Err: err}
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, describeFieldError(fe))
	}
	return &ValidationError{Fields: fields, Err: err}
}

func describeFieldError(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", name, fe.Param())
	case "amount":
		return name + " must be a positive decimal amount"
	case "national_id":
		return name + " must be exactly 12 digits"
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	default:
		return name + " is invalid"
	}
}

// notFound maps gorm's missing-row error onto ErrNotFound for the named entity.
func notFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", entity, ErrNotFound)
	}
	return err
}

// conflict maps unique constraint violations onto ErrConflict.
func conflict(err error, entity string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s %w", entity, ErrConflict)
	}
	return err
}
