package services

import (
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names so messages match the request body.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		_, err := parseAmount(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("national_id", func(fl validator.FieldLevel) bool {
		id := stripSpaces(fl.Field().String())
		if len(id) != 12 {
			return false
		}
		for _, r := range id {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})

	return v
}

func validateInput(input any) error {
	if err := validate.Struct(input); err != nil {
		return newValidationError(err)
	}
	return nil
}

// parseAmount accepts a positive decimal amount.
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, err
	}
	if !amount.IsPositive() {
		return decimal.Zero, invalidField("amount must be greater than zero")
	}
	return amount, nil
}

// formatAmount renders money with two fractional digits.
func formatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// normalizeAmount re-renders an already validated amount with two fractional digits.
func normalizeAmount(raw string) string {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return formatAmount(amount)
}

// sumAmounts adds stored amounts, skipping values that do not parse.
func sumAmounts(amounts []string) decimal.Decimal {
	total := decimal.Zero
	for _, raw := range amounts {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		total = total.Add(amount)
	}
	return total
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalidField("%s must be a date (YYYY-MM-DD or RFC 3339)", field)
}

// parseOptionalDate returns fallback when raw is empty.
func parseOptionalDate(field, raw string, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return parseDate(field, raw)
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ceilDays rounds a duration up to whole days.
func ceilDays(d time.Duration) int {
	const day = int64(24 * time.Hour)
	n := int64(d)
	if n <= 0 {
		return int(n / day)
	}
	return int((n + day - 1) / day)
}

func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
