package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/portfoliodb/backend/internal/apperrors"
	"github.com/portfoliodb/backend/internal/api/response"
	"github.com/portfoliodb/backend/internal/validation"
)

// parseDateParam reads an optional date query parameter. A missing parameter
// yields a zero time; a malformed one reports 400 and returns false.
func parseDateParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}, true
	}

	parsed, err := validation.ParseDate(value)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid "+name, err.Error())
		return time.Time{}, false
	}
	return parsed, true
}

// respondServiceError maps service-layer errors to HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, apperrors.ErrInvestmentNotFound),
		errors.Is(err, apperrors.ErrMovementNotFound),
		errors.Is(err, apperrors.ErrPriceNotFound),
		errors.Is(err, apperrors.ErrActionTypeNotFound):
		response.RespondError(w, http.StatusNotFound, message, err.Error())
	case errors.Is(err, apperrors.ErrInvalidUUID),
		errors.Is(err, apperrors.ErrEmptyID),
		errors.Is(err, apperrors.ErrInvalidDateRange),
		errors.Is(err, apperrors.ErrInvalidActionCode),
		errors.Is(err, apperrors.ErrInvalidCurrency),
		errors.Is(err, apperrors.ErrMissingRequiredField):
		response.RespondError(w, http.StatusBadRequest, message, err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, message, err.Error())
	}
}
