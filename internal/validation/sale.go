package validation

import (
	"strings"

	"github.com/sharehub/nepse-ledger-backend/internal/api/request"
)

// ValidateCreateSale validates a sale request.
//
// Required fields:
//   - scrip: Non-empty symbol
//   - units: Must be a positive integer
//   - price: Must be a positive decimal (uniform across the whole sale)
//   - date: Must be in YYYY-MM-DD format
//
// Whether enough units are available is decided by the allocator, not here.
func ValidateCreateSale(req request.CreateSaleRequest) error {
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
