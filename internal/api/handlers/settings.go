package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/portfoliodb/backend/internal/api/request"
	"github.com/portfoliodb/backend/internal/api/response"
	"github.com/portfoliodb/backend/internal/service"
)

// SettingsHandler handles HTTP requests for the settings singleton.
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler with the provided service dependency.
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings handles GET requests for the current settings.
//
// Endpoint: GET /api/settings
// Response: 200 OK with {baseCurrency}
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.GetSettings()
	if err != nil {
		respondServiceError(w, err, "failed to retrieve settings")
		return
	}
	response.RespondJSON(w, http.StatusOK, settings)
}

// UpdateSettings handles PUT requests to change the base currency.
//
// Endpoint: PUT /api/settings
// Body: {"baseCurrency": "EUR"}
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req request.SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	settings, err := h.settingsService.UpdateBaseCurrency(req.BaseCurrency)
	if err != nil {
		respondServiceError(w, err, "failed to update settings")
		return
	}
	response.RespondJSON(w, http.StatusOK, settings)
}
