package request

import "github.com/shopspring/decimal"

// CreateSaleRequest represents the JSON request body for one user sale action.
// The whole request sells at a single uniform price; the engine splits it
// across lots internally.
type CreateSaleRequest struct {
	Scrip string          `json:"scrip"`
	Units int64           `json:"units"`
	Price decimal.Decimal `json:"price"`
	Date  string          `json:"date"`
}
