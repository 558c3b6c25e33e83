package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sharehub/nepse-ledger-backend/internal/api/middleware"
	"github.com/sharehub/nepse-ledger-backend/internal/api/request"
	"github.com/sharehub/nepse-ledger-backend/internal/api/response"
	"github.com/sharehub/nepse-ledger-backend/internal/apperrors"
	"github.com/sharehub/nepse-ledger-backend/internal/service"
	"github.com/sharehub/nepse-ledger-backend/internal/validation"
)

// LotHandler handles HTTP requests for purchase lot endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the ledgerService.
type LotHandler struct {
	ledgerService *service.LedgerService
}

// NewLotHandler creates a new LotHandler with the provided service dependency.
func NewLotHandler(ledgerService *service.LedgerService) *LotHandler {
	return &LotHandler{
		ledgerService: ledgerService,
	}
}

// CreateLot handles POST requests to record a new purchase lot.
// Validates the request body and computes the lot's acquisition costs.
//
// Endpoint: POST /api/lot
// Request Body: CreateLotRequest (scrip, units, price, date)
// Response: 201 Created with LotResponse
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *LotHandler) CreateLot(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateLotRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateLot(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	lot, err := h.ledgerService.CreateLot(middleware.UserID(r.Context()), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create lot", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, lot)
}

// AllLots handles GET requests to retrieve the caller's purchase lots.
// An optional scrip query parameter restricts the listing to one security.
//
// Endpoint: GET /api/lot?scrip=NABIL
// Response: 200 OK with array of LotResponse
// Error: 500 Internal Server Error if retrieval fails
func (h *LotHandler) AllLots(w http.ResponseWriter, r *http.Request) {
	scrip := r.URL.Query().Get("scrip")

	lots, err := h.ledgerService.ListLots(middleware.UserID(r.Context()), scrip)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveLots.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, lots)
}

// GetLot handles GET requests to retrieve a single lot by ID.
// Returns the lot with its acquisition cost breakdown.
//
// Endpoint: GET /api/lot/{uuid}
// Response: 200 OK with LotResponse
// Error: 400 Bad Request if lot ID is invalid (validated by middleware)
// Error: 404 Not Found if lot not found
// Error: 500 Internal Server Error if retrieval fails
func (h *LotHandler) GetLot(w http.ResponseWriter, r *http.Request) {
	lotID := chi.URLParam(r, "uuid")

	lot, err := h.ledgerService.GetLot(middleware.UserID(r.Context()), lotID)
	if err != nil {
		if errors.Is(err, apperrors.ErrLotNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrLotNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveLot.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, lot)
}

// UpdateLot handles PUT requests to edit an existing lot.
// Edits are rejected when they would shrink the lot below what has
// already been sold out of it.
//
// Endpoint: PUT /api/lot/{uuid}
// Request Body: UpdateLotRequest (all fields optional)
// Response: 200 OK with updated LotResponse
// Error: 400 Bad Request if validation fails or the edit conflicts with recorded sales
// Error: 404 Not Found if lot not found
// Error: 500 Internal Server Error if update fails
func (h *LotHandler) UpdateLot(w http.ResponseWriter, r *http.Request) {
	lotID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateLotRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateLot(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	lot, err := h.ledgerService.EditLot(middleware.UserID(r.Context()), lotID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrLotNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrLotNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInvalidEdit):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidEdit.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to update lot", err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, lot)
}

// DeleteLot handles DELETE requests to remove a lot.
// Lots with recorded sale allocations cannot be deleted.
//
// Endpoint: DELETE /api/lot/{uuid}
// Response: 204 No Content on successful deletion
// Error: 400 Bad Request if lot ID is invalid (validated by middleware)
// Error: 404 Not Found if lot not found
// Error: 409 Conflict if sales have been allocated against the lot
// Error: 500 Internal Server Error if deletion fails
func (h *LotHandler) DeleteLot(w http.ResponseWriter, r *http.Request) {
	lotID := chi.URLParam(r, "uuid")

	err := h.ledgerService.DeleteLot(middleware.UserID(r.Context()), lotID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrLotNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrLotNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrLotInUse):
			response.RespondError(w, http.StatusConflict, apperrors.ErrLotInUse.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to delete lot", err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
