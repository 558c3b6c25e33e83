package validation

import (
	"strings"

	"github.com/sharehub/nepse-ledger-backend/internal/api/request"
)

// ValidateCreateLot validates a lot creation request.
// Checks all required fields and validates their formats and constraints.
//
// Required fields:
//   - scrip: Non-empty symbol, at most 20 characters after normalization
//   - units: Must be a positive integer
//   - price: Must be a positive decimal
//   - date: Must be in YYYY-MM-DD format
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateLot(req request.CreateLotRequest) error {
	errors := make(map[string]string)

	if _, err := NormalizeScrip(req.Scrip); err != nil {
		errors["scrip"] = err.Error()
	}

	if req.Units <= 0 {
		errors["units"] = "units must be positive"
	}

	if !req.Price.IsPositive() {
		errors["price"] = "price must be positive"
	}

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	} else if _, err := ParseDate(req.Date); err != nil {
		errors["date"] = err.Error()
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateLot validates a lot edit request.
// All fields are optional, but if provided, they must meet the same constraints as create.
// The already-sold-units guard is a business rule and is enforced by the ledger, not here.
func ValidateUpdateLot(req request.UpdateLotRequest) error {
	errors := make(map[string]string)

	if req.Units != nil && *req.Units <= 0 {
		errors["units"] = "units must be positive"
	}

	if req.Price != nil && !req.Price.IsPositive() {
		errors["price"] = "price must be positive"
	}

	if req.Date != nil {
		if strings.TrimSpace(*req.Date) == "" {
			errors["date"] = "date is required"
		} else if _, err := ParseDate(*req.Date); err != nil {
			errors["date"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
