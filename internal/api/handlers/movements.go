package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/portfoliodb/backend/internal/api/request"
	"github.com/portfoliodb/backend/internal/api/response"
	"github.com/portfoliodb/backend/internal/model"
	"github.com/portfoliodb/backend/internal/service"
	"github.com/portfoliodb/backend/internal/validation"
)

// MovementHandler handles HTTP requests for movement endpoints.
type MovementHandler struct {
	ledgerService *service.LedgerService
}

// NewMovementHandler creates a new MovementHandler with the provided service dependency.
func NewMovementHandler(ledgerService *service.LedgerService) *MovementHandler {
	return &MovementHandler{ledgerService: ledgerService}
}

// GetMovements handles GET requests to retrieve movements, optionally
// filtered by investment.
//
// Endpoint: GET /api/movements?investment_id=...
func (h *MovementHandler) GetMovements(w http.ResponseWriter, r *http.Request) {
	investmentID := r.URL.Query().Get("investment_id")

	movements, err := h.ledgerService.GetMovements(investmentID)
	if err != nil {
		respondServiceError(w, err, "failed to retrieve movements")
		return
	}
	response.RespondJSON(w, http.StatusOK, movements)
}

// GetMovement handles GET requests for a single movement.
//
// Endpoint: GET /api/movements/{id}
func (h *MovementHandler) GetMovement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	movement, err := h.ledgerService.GetMovement(id)
	if err != nil {
		respondServiceError(w, err, "failed to retrieve movement")
		return
	}
	response.RespondJSON(w, http.StatusOK, movement)
}

// CreateMovement handles POST requests to enter a ledger movement.
//
// Endpoint: POST /api/movements
func (h *MovementHandler) CreateMovement(w http.ResponseWriter, r *http.Request) {
	var req request.MovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	date, err := validation.ParseDate(req.Date)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	created, err := h.ledgerService.CreateMovement(model.Movement{
		Date:         date,
		ActionCode:   req.ActionCode,
		InvestmentID: req.InvestmentID,
		Quantity:     req.Quantity,
		Amount:       req.Amount,
		Fee:          req.Fee,
	})
	if err != nil {
		respondServiceError(w, err, "failed to create movement")
		return
	}
	response.RespondJSON(w, http.StatusCreated, created)
}

// DeleteMovement handles DELETE requests to remove a movement.
//
// Endpoint: DELETE /api/movements/{id}
func (h *MovementHandler) DeleteMovement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.ledgerService.DeleteMovement(id); err != nil {
		respondServiceError(w, err, "failed to delete movement")
		return
	}
	response.RespondJSON(w, http.StatusNoContent, nil)
}
