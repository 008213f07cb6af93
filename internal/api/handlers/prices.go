package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/portfoliodb/backend/internal/api/request"
	"github.com/portfoliodb/backend/internal/api/response"
	"github.com/portfoliodb/backend/internal/model"
	"github.com/portfoliodb/backend/internal/service"
	"github.com/portfoliodb/backend/internal/validation"
)

// PriceHandler handles HTTP requests for stored investment prices.
type PriceHandler struct {
	priceService *service.PriceService
}

// NewPriceHandler creates a new PriceHandler with the provided service dependency.
func NewPriceHandler(priceService *service.PriceService) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

// GetPrices handles GET requests to list price facts.
// Without start_date and end_date the window defaults to the last 3 years.
//
// Endpoint: GET /api/investmentprices?investment_id=...&start_date=...&end_date=...
func (h *PriceHandler) GetPrices(w http.ResponseWriter, r *http.Request) {
	startDate, ok := parseDateParam(w, r, "start_date")
	if !ok {
		return
	}
	endDate, ok := parseDateParam(w, r, "end_date")
	if !ok {
		return
	}

	prices, err := h.priceService.GetPrices(r.URL.Query().Get("investment_id"), startDate, endDate)
	if err != nil {
		respondServiceError(w, err, "failed to retrieve investment prices")
		return
	}
	response.RespondJSON(w, http.StatusOK, prices)
}

// UpsertPrice handles PUT requests to manually store a price fact.
// Writing an existing (investment, date) key overwrites it.
//
// Endpoint: PUT /api/investmentprices
func (h *PriceHandler) UpsertPrice(w http.ResponseWriter, r *http.Request) {
	var req request.PriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	date, err := validation.ParseDate(req.Date)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	err = h.priceService.UpsertPrice(r.Context(), model.InvestmentPrice{
		InvestmentID: req.InvestmentID,
		Date:         date,
		Price:        req.Price,
		Source:       req.Source,
	})
	if err != nil {
		respondServiceError(w, err, "failed to store investment price")
		return
	}
	response.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
