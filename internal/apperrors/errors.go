package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrInvestmentNotFound indicates that an investment with the given ID does not exist.
	ErrInvestmentNotFound = errors.New("investment not found")

	// ErrMovementNotFound indicates that a movement with the given ID does not exist.
	ErrMovementNotFound = errors.New("movement not found")

	// ErrPriceNotFound indicates no price record for a specific investment and date combination.
	ErrPriceNotFound = errors.New("investment price not found")

	// ErrActionTypeNotFound indicates that an action type with the given code does not exist.
	ErrActionTypeNotFound = errors.New("action type not found")
)

// Quote pipeline errors classify per-investment failures during a fetch run.
// They are surfaced per item in the fetch report and never abort the batch.
var (
	// ErrNoTickerConfigured indicates the investment has no ticker symbol set.
	ErrNoTickerConfigured = errors.New("no ticker symbol configured")

	// ErrNoProviderConfigured indicates the investment has no quote provider set.
	ErrNoProviderConfigured = errors.New("no quote provider configured")

	// ErrUnknownProvider indicates the configured provider id is not registered.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrNoQuoteData indicates the provider returned no usable data for the ticker.
	ErrNoQuoteData = errors.New("no quote data returned from provider")

	// ErrConversionFailed indicates the rate source could not produce a rate,
	// blocking storage of that specific price point.
	ErrConversionFailed = errors.New("currency conversion failed")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrInvalidActionCode indicates a movement references an unknown action code.
	ErrInvalidActionCode = errors.New("invalid action code")

	// ErrInvalidCurrency indicates a currency code is missing or malformed.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)
