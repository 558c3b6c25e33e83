package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrInvalidUUID  = fmt.Errorf("invalid UUID format")
	ErrInvalidScrip = fmt.Errorf("invalid scrip symbol")
)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}

// NormalizeScrip trims and upper-cases a scrip symbol. Returns an error when
// the result is empty or longer than the 20 characters the ledger stores.
func NormalizeScrip(scrip string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(scrip))
	if normalized == "" || len(normalized) > 20 {
		return "", fmt.Errorf("%w: %q", ErrInvalidScrip, scrip)
	}
	return normalized, nil
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(date string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(date))
}
