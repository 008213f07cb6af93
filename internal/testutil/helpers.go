package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/portfoliodb/backend/internal/currency"
	"github.com/portfoliodb/backend/internal/quotes"
	"github.com/portfoliodb/backend/internal/repository"
	"github.com/portfoliodb/backend/internal/service"
)

func NewTestLedgerService(t *testing.T, db *sql.DB) *service.LedgerService {
	t.Helper()

	actionTypeRepo := repository.NewActionTypeRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)
	movementRepo := repository.NewMovementRepository(db)

	return service.NewLedgerService(
		actionTypeRepo,
		investmentRepo,
		movementRepo,
	)
}

func NewTestValuationService(t *testing.T, db *sql.DB) *service.ValuationService {
	t.Helper()

	movementRepo := repository.NewMovementRepository(db)
	priceRepo := repository.NewPriceRepository(db)

	return service.NewValuationService(
		movementRepo,
		priceRepo,
	)
}

func NewTestPriceService(t *testing.T, db *sql.DB) *service.PriceService {
	t.Helper()

	return service.NewPriceService(repository.NewPriceRepository(db))
}

func NewTestSettingsService(t *testing.T, db *sql.DB) *service.SettingsService {
	t.Helper()

	return service.NewSettingsService(repository.NewSettingsRepository(db))
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// NewTestQuoteService creates a QuoteService wired to the given converter and
// provider registry. This is the entry point for orchestrator tests that need
// mock providers instead of real HTTP calls.
func NewTestQuoteService(t *testing.T, db *sql.DB, converter currency.Converter, registry quotes.Registry) *service.QuoteService {
	t.Helper()

	investmentRepo := repository.NewInvestmentRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	return service.NewQuoteService(
		db,
		investmentRepo,
		priceRepo,
		settingsRepo,
		converter,
		registry,
		5*time.Second,
	)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeISIN generates a realistic ISIN code for testing.
//
// Example usage:
//
//	isin := testutil.MakeISIN("US")
//	// Returns: "US1A2B3C4D5E"
func MakeISIN(prefix string) string {
	if prefix == "" {
		prefix = "US"
	}
	return prefix + randomAlphanumeric(10)
}

func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
