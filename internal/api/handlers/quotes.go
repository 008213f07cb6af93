package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/portfoliodb/backend/internal/api/request"
	"github.com/portfoliodb/backend/internal/api/response"
	"github.com/portfoliodb/backend/internal/service"
	"github.com/portfoliodb/backend/internal/validation"
)

// QuoteHandler handles HTTP requests for quote fetching operations.
type QuoteHandler struct {
	quoteService *service.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler with the provided service dependency.
func NewQuoteHandler(quoteService *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// GetProviders handles GET requests to list registered quote providers.
//
// Endpoint: GET /api/quotes/providers
// Response: 200 OK with array of {id, name}
func (h *QuoteHandler) GetProviders(w http.ResponseWriter, r *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.quoteService.Providers())
}

// FetchQuotes handles POST requests to trigger a quote fetch run.
//
// Endpoint: POST /api/quotes/fetch
// Body: {"investment_ids": [...], "date": "YYYY-MM-DD", "historical": false},
// all fields optional; an empty body fetches the latest quote for every
// quote-configured investment.
// Response: 200 OK with {total, successful, failed, results}
func (h *QuoteHandler) FetchQuotes(w http.ResponseWriter, r *http.Request) {
	var req request.FetchQuotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUUIDs(req.InvestmentIDs); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid investment ids", err.Error())
		return
	}

	var date time.Time
	if req.Date != "" {
		var err error
		date, err = validation.ParseDate(req.Date)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid date", err.Error())
			return
		}
	}

	report, err := h.quoteService.Fetch(r.Context(), service.FetchRequest{
		InvestmentIDs: req.InvestmentIDs,
		Date:          date,
		Historical:    req.Historical,
	})
	if err != nil {
		respondServiceError(w, err, "failed to fetch quotes")
		return
	}
	response.RespondJSON(w, http.StatusOK, report)
}
