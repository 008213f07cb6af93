package handlers

import (
	"net/http"

	"github.com/portfoliodb/backend/internal/api/response"
	"github.com/portfoliodb/backend/internal/service"
)

// ActionTypeHandler handles HTTP requests for the action type lookup.
type ActionTypeHandler struct {
	ledgerService *service.LedgerService
}

// NewActionTypeHandler creates a new ActionTypeHandler with the provided service dependency.
func NewActionTypeHandler(ledgerService *service.LedgerService) *ActionTypeHandler {
	return &ActionTypeHandler{ledgerService: ledgerService}
}

// GetActionTypes handles GET requests to list the seeded action types.
//
// Endpoint: GET /api/actiontypes
// Response: 200 OK with array of ActionType
func (h *ActionTypeHandler) GetActionTypes(w http.ResponseWriter, r *http.Request) {
	actionTypes, err := h.ledgerService.GetActionTypes()
	if err != nil {
		respondServiceError(w, err, "failed to retrieve action types")
		return
	}
	response.RespondJSON(w, http.StatusOK, actionTypes)
}
