package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/portfoliodb/backend/internal/api/request"
	"github.com/portfoliodb/backend/internal/api/response"
	"github.com/portfoliodb/backend/internal/model"
	"github.com/portfoliodb/backend/internal/service"
)

// InvestmentHandler handles HTTP requests for investment endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the ledger service.
type InvestmentHandler struct {
	ledgerService *service.LedgerService
}

// NewInvestmentHandler creates a new InvestmentHandler with the provided service dependency.
func NewInvestmentHandler(ledgerService *service.LedgerService) *InvestmentHandler {
	return &InvestmentHandler{ledgerService: ledgerService}
}

// GetInvestments handles GET requests to retrieve all investments.
//
// Endpoint: GET /api/investments
func (h *InvestmentHandler) GetInvestments(w http.ResponseWriter, r *http.Request) {
	investments, err := h.ledgerService.GetInvestments()
	if err != nil {
		respondServiceError(w, err, "failed to retrieve investments")
		return
	}
	response.RespondJSON(w, http.StatusOK, investments)
}

// GetInvestment handles GET requests for a single investment.
//
// Endpoint: GET /api/investments/{id}
func (h *InvestmentHandler) GetInvestment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	investment, err := h.ledgerService.GetInvestment(id)
	if err != nil {
		respondServiceError(w, err, "failed to retrieve investment")
		return
	}
	response.RespondJSON(w, http.StatusOK, investment)
}

// CreateInvestment handles POST requests to create an investment.
//
// Endpoint: POST /api/investments
func (h *InvestmentHandler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	var req request.InvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	created, err := h.ledgerService.CreateInvestment(model.Investment{
		Name:          req.Name,
		Isin:          req.Isin,
		ShortName:     req.ShortName,
		TickerSymbol:  req.TickerSymbol,
		QuoteProvider: req.QuoteProvider,
	})
	if err != nil {
		respondServiceError(w, err, "failed to create investment")
		return
	}
	response.RespondJSON(w, http.StatusCreated, created)
}

// UpdateInvestment handles PUT requests to update an investment.
//
// Endpoint: PUT /api/investments/{id}
func (h *InvestmentHandler) UpdateInvestment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req request.InvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	investment := model.Investment{
		ID:            id,
		Name:          req.Name,
		Isin:          req.Isin,
		ShortName:     req.ShortName,
		TickerSymbol:  req.TickerSymbol,
		QuoteProvider: req.QuoteProvider,
	}
	if err := h.ledgerService.UpdateInvestment(investment); err != nil {
		respondServiceError(w, err, "failed to update investment")
		return
	}
	response.RespondJSON(w, http.StatusOK, investment)
}

// DeleteInvestment handles DELETE requests to remove an investment.
//
// Endpoint: DELETE /api/investments/{id}
func (h *InvestmentHandler) DeleteInvestment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.ledgerService.DeleteInvestment(id); err != nil {
		respondServiceError(w, err, "failed to delete investment")
		return
	}
	response.RespondJSON(w, http.StatusNoContent, nil)
}
