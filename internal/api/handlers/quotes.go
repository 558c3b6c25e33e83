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

// QuoteHandler handles HTTP requests for market quote endpoints.
type QuoteHandler struct {
	holdingsService *service.HoldingsService
	quoteService    *service.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler with the provided service dependencies.
func NewQuoteHandler(holdingsService *service.HoldingsService, quoteService *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		holdingsService: holdingsService,
		quoteService:    quoteService,
	}
}

// GetQuote handles GET requests for the price of one scrip: the cached live
// quote when available, otherwise an estimate derived from the caller's
// average cost. The source field tells the two apart.
//
// Endpoint: GET /api/quote/{scrip}
// Response: 200 OK with QuoteResponse
// Error: 400 Bad Request if the scrip is malformed
// Error: 404 Not Found if there is no quote and nothing to estimate from
// Error: 500 Internal Server Error if retrieval fails
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	scrip, err := validation.NormalizeScrip(chi.URLParam(r, "scrip"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid scrip", err.Error())
		return
	}

	quote, err := h.holdingsService.CurrentQuote(r.Context(), middleware.UserID(r.Context()), scrip)
	if err != nil {
		if errors.Is(err, apperrors.ErrQuoteNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrQuoteNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveQuote.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, quote)
}

// RefreshQuotes handles POST requests to refresh the quote cache from the
// market-data API immediately, outside the scheduled refresh.
//
// Endpoint: POST /api/quote/refresh
// Response: 200 OK with a status message
// Error: 500 Internal Server Error if the refresh fails
func (h *QuoteHandler) RefreshQuotes(w http.ResponseWriter, r *http.Request) {
	if err := h.quoteService.RefreshAll(r.Context()); err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRefreshQuotes.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}
