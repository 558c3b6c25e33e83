package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/sharehub/nepse-ledger-backend/internal/api/response"
	"github.com/sharehub/nepse-ledger-backend/internal/fees"
)

// FeeHandler handles HTTP requests for the fee schedule endpoint.
// The schedule is pure so the handler has no service dependency.
type FeeHandler struct{}

// NewFeeHandler creates a new FeeHandler.
func NewFeeHandler() *FeeHandler {
	return &FeeHandler{}
}

// FeeResponse represents the fee breakdown for a gross transaction amount.
type FeeResponse struct {
	Gross decimal.Decimal `json:"gross"`
	fees.Fees
	Total decimal.Decimal `json:"total"`
}

// GetFees handles GET requests to preview the fee breakdown for a gross
// transaction amount without recording anything.
//
// Endpoint: GET /api/fees?amount=20000
// Response: 200 OK with FeeResponse
// Error: 400 Bad Request if the amount is missing, malformed, or not positive
func (h *FeeHandler) GetFees(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("amount")
	if raw == "" {
		response.RespondError(w, http.StatusBadRequest, "amount query parameter is required", "")
		return
	}

	gross, err := decimal.NewFromString(raw)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}
	if !gross.IsPositive() {
		response.RespondError(w, http.StatusBadRequest, "invalid amount", "amount must be positive")
		return
	}

	breakdown := fees.Calculate(gross)
	response.RespondJSON(w, http.StatusOK, FeeResponse{
		Gross: gross,
		Fees:  breakdown,
		Total: breakdown.Total(),
	})
}
