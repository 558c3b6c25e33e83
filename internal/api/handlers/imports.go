package handlers

import (
	"errors"
	"net/http"

	"github.com/sharehub/nepse-ledger-backend/internal/api/middleware"
	"github.com/sharehub/nepse-ledger-backend/internal/api/request"
	"github.com/sharehub/nepse-ledger-backend/internal/api/response"
	"github.com/sharehub/nepse-ledger-backend/internal/apperrors"
	"github.com/sharehub/nepse-ledger-backend/internal/service"
	"github.com/sharehub/nepse-ledger-backend/internal/validation"
)

// ImportHandler handles HTTP requests for the broker import endpoints.
type ImportHandler struct {
	importService *service.ImportService
}

// NewImportHandler creates a new ImportHandler with the provided service dependency.
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: importService,
	}
}

// ImportCandidates handles POST requests to import scraped purchase
// candidates. Candidates matching an existing lot on scrip, units, price,
// and date are skipped; re-running the same import changes nothing.
//
// Endpoint: POST /api/import
// Request Body: ImportRequest (candidates array)
// Response: 200 OK with ImportResult (found, imported, skipped)
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if the import fails
func (h *ImportHandler) ImportCandidates(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.ImportRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateImportRequest(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.importService.ImportCandidates(middleware.UserID(r.Context()), req.Candidates)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToImportCandidates.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// GetConfig handles GET requests for the caller's import configuration.
// The stored access token is never returned, only whether one is set.
//
// Endpoint: GET /api/import/config
// Response: 200 OK with ImportConfig
// Error: 404 Not Found if the user has no import configuration
// Error: 500 Internal Server Error if retrieval fails
func (h *ImportHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	config, err := h.importService.GetConfig(middleware.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, apperrors.ErrImportConfigNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrImportConfigNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve import config", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, config)
}

// UpdateConfig handles PUT requests to create or update the caller's import
// configuration. A supplied access token is encrypted before storage.
//
// Endpoint: PUT /api/import/config
// Request Body: UpdateImportConfigRequest (all fields optional)
// Response: 200 OK with updated ImportConfig
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if the update fails
func (h *ImportHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateImportConfigRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateImportConfig(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	config, err := h.importService.UpdateConfig(middleware.UserID(r.Context()), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to update import config", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, config)
}
