package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sharehub/nepse-ledger-backend/internal/api/middleware"
	"github.com/sharehub/nepse-ledger-backend/internal/api/request"
	"github.com/sharehub/nepse-ledger-backend/internal/api/response"
	"github.com/sharehub/nepse-ledger-backend/internal/apperrors"
	"github.com/sharehub/nepse-ledger-backend/internal/model"
	"github.com/sharehub/nepse-ledger-backend/internal/service"
	"github.com/sharehub/nepse-ledger-backend/internal/validation"
)

// SaleHandler handles HTTP requests for sale endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the ledgerService.
type SaleHandler struct {
	ledgerService *service.LedgerService
}

// NewSaleHandler creates a new SaleHandler with the provided service dependency.
func NewSaleHandler(ledgerService *service.LedgerService) *SaleHandler {
	return &SaleHandler{
		ledgerService: ledgerService,
	}
}

// CreateSale handles POST requests to record a sale. The requested units are
// drawn from the oldest open lots first, and the sale report (fees, cost
// basis, tax, receivable) is computed for the event as a whole.
//
// Endpoint: POST /api/sale
// Request Body: CreateSaleRequest (scrip, units, price, date)
// Response: 201 Created with SaleEventResponse
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 409 Conflict if the user does not hold enough units
// Error: 500 Internal Server Error if the sale fails
func (h *SaleHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateSaleRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateSale(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	event, err := h.ledgerService.Sell(middleware.UserID(r.Context()), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientInventory) {
			response.RespondError(w, http.StatusConflict, apperrors.ErrInsufficientInventory.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to record sale", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, event)
}

// AllSales handles GET requests to retrieve the caller's sale events.
// An optional scrip query parameter restricts the listing to one security.
//
// Endpoint: GET /api/sale?scrip=NABIL
// Response: 200 OK with array of SaleEventResponse
// Error: 500 Internal Server Error if retrieval fails
func (h *SaleHandler) AllSales(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	scrip := r.URL.Query().Get("scrip")

	var events []model.SaleEventResponse
	var err error
	if scrip != "" {
		events, err = h.ledgerService.ListSaleEventsByScrip(userID, scrip)
	} else {
		events, err = h.ledgerService.ListSaleEvents(userID)
	}
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSales.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, events)
}

// GetSale handles GET requests to retrieve a single sale event by its group ID.
//
// Endpoint: GET /api/sale/{uuid}
// Response: 200 OK with SaleEventResponse
// Error: 400 Bad Request if sale ID is invalid (validated by middleware)
// Error: 404 Not Found if sale not found
// Error: 500 Internal Server Error if retrieval fails
func (h *SaleHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "uuid")

	event, err := h.ledgerService.GetSaleEvent(middleware.UserID(r.Context()), groupID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSaleNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrSaleNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSale.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, event)
}

// DeleteSale handles DELETE requests to reverse a sale event.
// All units the event consumed are restored to their source lots.
//
// Endpoint: DELETE /api/sale/{uuid}
// Response: 204 No Content on successful reversal
// Error: 400 Bad Request if sale ID is invalid (validated by middleware)
// Error: 404 Not Found if sale not found
// Error: 500 Internal Server Error if reversal fails
func (h *SaleHandler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "uuid")

	err := h.ledgerService.ReverseSale(middleware.UserID(r.Context()), groupID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSaleNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrSaleNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to reverse sale", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
