package request

import "github.com/shopspring/decimal"

// CreateLotRequest represents the JSON request body for creating a purchase lot.
type CreateLotRequest struct {
	Scrip string          `json:"scrip"`
	Units int64           `json:"units"`
	Price decimal.Decimal `json:"price"`
	Date  string          `json:"date"`
}

// UpdateLotRequest represents the JSON request body for editing a lot.
// All fields are optional; absent fields keep their current values.
type UpdateLotRequest struct {
	Units *int64           `json:"units,omitempty"`
	Price *decimal.Decimal `json:"price,omitempty"`
	Date  *string          `json:"date,omitempty"`
}
