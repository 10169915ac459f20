package utils

import (
	"errors"
	"fmt"
	"math"
	"regexp"
)

// ErrInvalidInput is wrapped by every validation failure
var ErrInvalidInput = errors.New("invalid input")

var (
	expenseIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)
	unsafeFileRune = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	controlRunes   = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// ValidateExpenseID validates an expense identifier taken from a URL or flag
func ValidateExpenseID(id string) error {
	if !expenseIDRegex.MatchString(id) {
		return fmt.Errorf("%w: expense ID %q", ErrInvalidInput, id)
	}
	return nil
}

// ValidateAmount validates an amount used as evaluation context
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: amount must be a finite number", ErrInvalidInput)
	}
	if amount < 0 {
		return fmt.Errorf("%w: amount must not be negative: %.2f", ErrInvalidInput, amount)
	}
	return nil
}

// SanitizeString removes control characters
func SanitizeString(s string) string {
	return controlRunes.ReplaceAllString(s, "")
}

// SafeFileName turns s into a name usable in a download header or on disk
func SafeFileName(s string) string {
	name := unsafeFileRune.ReplaceAllString(SanitizeString(s), "_")
	if name == "" || name == "." || name == ".." {
		return "export"
	}
	return name
}
