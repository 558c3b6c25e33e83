package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sharehub/nepse-ledger-backend/internal/api/middleware"
	"github.com/sharehub/nepse-ledger-backend/internal/api/response"
	"github.com/sharehub/nepse-ledger-backend/internal/apperrors"
	"github.com/sharehub/nepse-ledger-backend/internal/service"
	"github.com/sharehub/nepse-ledger-backend/internal/validation"
)

// HoldingHandler handles HTTP requests for portfolio holding endpoints.
type HoldingHandler struct {
	holdingsService *service.HoldingsService
}

// NewHoldingHandler creates a new HoldingHandler with the provided service dependency.
func NewHoldingHandler(holdingsService *service.HoldingsService) *HoldingHandler {
	return &HoldingHandler{
		holdingsService: holdingsService,
	}
}

// Portfolio handles GET requests for the consolidated portfolio summary.
// Every scrip the user ever bought is included, fully sold positions too.
//
// Endpoint: GET /api/holding
// Response: 200 OK with PortfolioSummary
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	summary, err := h.holdingsService.PortfolioSummary(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// HoldingDetail handles GET requests for the drill-down view of one scrip:
// the position, its lots, and its sale events.
//
// Endpoint: GET /api/holding/{scrip}
// Response: 200 OK with HoldingDetail
// Error: 400 Bad Request if the scrip is malformed
// Error: 404 Not Found if the user has no lots for the scrip
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingHandler) HoldingDetail(w http.ResponseWriter, r *http.Request) {
	scrip, err := validation.NormalizeScrip(chi.URLParam(r, "scrip"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid scrip", err.Error())
		return
	}

	detail, err := h.holdingsService.HoldingDetail(r.Context(), middleware.UserID(r.Context()), scrip)
	if err != nil {
		if errors.Is(err, apperrors.ErrLotNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrLotNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, detail)
}
