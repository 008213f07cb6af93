package handlers

import (
	"net/http"

	"github.com/portfoliodb/backend/internal/api/response"
	"github.com/portfoliodb/backend/internal/service"
	"github.com/portfoliodb/backend/internal/validation"
)

// DevelopmentHandler handles HTTP requests for the derived valuation series.
type DevelopmentHandler struct {
	valuationService *service.ValuationService
}

// NewDevelopmentHandler creates a new DevelopmentHandler with the provided service dependency.
func NewDevelopmentHandler(valuationService *service.ValuationService) *DevelopmentHandler {
	return &DevelopmentHandler{valuationService: valuationService}
}

// GetDevelopments handles GET requests for the development series: one
// record per (investment, date) with quantity held, resolved price and value.
//
// Endpoint: GET /api/developments?start_date=...&end_date=...
// Response: 200 OK with array of Development, sorted by investment then date
func (h *DevelopmentHandler) GetDevelopments(w http.ResponseWriter, r *http.Request) {
	startDate, ok := parseDateParam(w, r, "start_date")
	if !ok {
		return
	}
	endDate, ok := parseDateParam(w, r, "end_date")
	if !ok {
		return
	}

	if err := validation.ValidateDateRange(startDate, endDate); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	developments, err := h.valuationService.GetDevelopments(startDate, endDate)
	if err != nil {
		respondServiceError(w, err, "failed to compute developments")
		return
	}
	response.RespondJSON(w, http.StatusOK, developments)
}
