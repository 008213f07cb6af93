package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/portfoliodb/backend/internal/model"
)

// InvestmentBuilder provides a fluent interface for creating test investments.
//
// Example usage:
//
//	// Simple creation with defaults
//	investment := testutil.NewInvestment().Build(t, db)
//
//	// Customized investment with quote configuration
//	investment := testutil.NewInvestment().
//	    WithName("World ETF").
//	    WithQuoteConfig("IWDA.AS", "yahoo").
//	    Build(t, db)
type InvestmentBuilder struct {
	ID            string
	Name          string
	Isin          string
	ShortName     string
	TickerSymbol  string
	QuoteProvider string
}

// NewInvestment creates an InvestmentBuilder with sensible defaults.
func NewInvestment() *InvestmentBuilder {
	return &InvestmentBuilder{
		ID:        MakeID(),
		Name:      "Test Investment",
		Isin:      MakeISIN("US"),
		ShortName: "TEST",
	}
}

// WithID sets a custom ID.
func (b *InvestmentBuilder) WithID(id string) *InvestmentBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *InvestmentBuilder) WithName(name string) *InvestmentBuilder {
	b.Name = name
	return b
}

// WithIsin sets a custom ISIN.
func (b *InvestmentBuilder) WithIsin(isin string) *InvestmentBuilder {
	b.Isin = isin
	return b
}

// WithShortName sets a custom short name.
func (b *InvestmentBuilder) WithShortName(shortName string) *InvestmentBuilder {
	b.ShortName = shortName
	return b
}

// WithQuoteConfig sets the ticker symbol and quote provider, making the
// investment eligible for automated quote fetching.
func (b *InvestmentBuilder) WithQuoteConfig(ticker, provider string) *InvestmentBuilder {
	b.TickerSymbol = ticker
	b.QuoteProvider = provider
	return b
}

// Build creates the investment in the database and returns it.
func (b *InvestmentBuilder) Build(t *testing.T, db *sql.DB) model.Investment {
	t.Helper()

	query := `
		INSERT INTO investment (id, name, isin, short_name, ticker_symbol, quote_provider)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.Isin, b.ShortName, b.TickerSymbol, b.QuoteProvider)
	if err != nil {
		t.Fatalf("Failed to create test investment: %v", err)
	}

	return model.Investment{
		ID:            b.ID,
		Name:          b.Name,
		Isin:          b.Isin,
		ShortName:     b.ShortName,
		TickerSymbol:  b.TickerSymbol,
		QuoteProvider: b.QuoteProvider,
	}
}

// MovementBuilder provides a fluent interface for creating test movements.
//
// Example usage:
//
//	movement := testutil.NewMovement(investment.ID).
//	    WithDate("2024-01-15").
//	    Buy("5", "50").
//	    Build(t, db)
type MovementBuilder struct {
	ID           string
	Date         string
	ActionCode   int
	InvestmentID string
	Quantity     string
	Amount       string
	Fee          string
}

// NewMovement creates a MovementBuilder with sensible defaults:
// a buy of 1 unit for 100 on 2024-01-01.
func NewMovement(investmentID string) *MovementBuilder {
	return &MovementBuilder{
		ID:           MakeID(),
		Date:         "2024-01-01",
		ActionCode:   model.ActionBuy,
		InvestmentID: investmentID,
		Quantity:     "1",
		Amount:       "-100",
		Fee:          "0",
	}
}

// WithID sets a custom ID.
func (b *MovementBuilder) WithID(id string) *MovementBuilder {
	b.ID = id
	return b
}

// WithDate sets the movement date (YYYY-MM-DD).
func (b *MovementBuilder) WithDate(date string) *MovementBuilder {
	b.Date = date
	return b
}

// Buy makes the movement a buy of the given quantity for the given cash
// outlay. The stored amount is negated, matching the cash perspective.
func (b *MovementBuilder) Buy(quantity, amount string) *MovementBuilder {
	b.ActionCode = model.ActionBuy
	b.Quantity = quantity
	b.Amount = "-" + amount
	return b
}

// Sell makes the movement a sell of the given quantity for the given proceeds.
func (b *MovementBuilder) Sell(quantity, amount string) *MovementBuilder {
	b.ActionCode = model.ActionSell
	b.Quantity = quantity
	b.Amount = amount
	return b
}

// Payout makes the movement a zero-quantity cash payout.
func (b *MovementBuilder) Payout(amount string) *MovementBuilder {
	b.ActionCode = model.ActionPayout
	b.Quantity = "0"
	b.Amount = amount
	return b
}

// WithQuantity overrides the quantity.
func (b *MovementBuilder) WithQuantity(quantity string) *MovementBuilder {
	b.Quantity = quantity
	return b
}

// WithAmount overrides the signed amount.
func (b *MovementBuilder) WithAmount(amount string) *MovementBuilder {
	b.Amount = amount
	return b
}

// WithFee sets the fee.
func (b *MovementBuilder) WithFee(fee string) *MovementBuilder {
	b.Fee = fee
	return b
}

// Build creates the movement in the database and returns it.
func (b *MovementBuilder) Build(t *testing.T, db *sql.DB) model.Movement {
	t.Helper()

	query := `
		INSERT INTO movement (id, date, action_code, investment_id, quantity, amount, fee)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Date, b.ActionCode, b.InvestmentID, b.Quantity, b.Amount, b.Fee)
	if err != nil {
		t.Fatalf("Failed to create test movement: %v", err)
	}

	return model.Movement{
		ID:           b.ID,
		Date:         MustParseDate(t, b.Date),
		ActionCode:   b.ActionCode,
		InvestmentID: b.InvestmentID,
		Quantity:     MustParseDecimal(t, b.Quantity),
		Amount:       MustParseDecimal(t, b.Amount),
		Fee:          MustParseDecimal(t, b.Fee),
	}
}

// PriceBuilder provides a fluent interface for creating test investment prices.
//
// Example usage:
//
//	price := testutil.NewPrice(investment.ID).
//	    WithDate("2024-01-15").
//	    WithPrice("10.5").
//	    Build(t, db)
type PriceBuilder struct {
	ID           string
	InvestmentID string
	Date         string
	Price        string
	Source       string
}

// NewPrice creates a PriceBuilder with sensible defaults.
func NewPrice(investmentID string) *PriceBuilder {
	return &PriceBuilder{
		ID:           MakeID(),
		InvestmentID: investmentID,
		Date:         "2024-01-01",
		Price:        "100",
		Source:       "yahoo",
	}
}

// WithDate sets the price date (YYYY-MM-DD).
func (b *PriceBuilder) WithDate(date string) *PriceBuilder {
	b.Date = date
	return b
}

// WithPrice sets the price value.
func (b *PriceBuilder) WithPrice(price string) *PriceBuilder {
	b.Price = price
	return b
}

// WithSource sets the price source.
func (b *PriceBuilder) WithSource(source string) *PriceBuilder {
	b.Source = source
	return b
}

// Build creates the price in the database and returns it.
func (b *PriceBuilder) Build(t *testing.T, db *sql.DB) model.InvestmentPrice {
	t.Helper()

	query := `
		INSERT INTO investment_price (id, investment_id, date, price, source)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.InvestmentID, b.Date, b.Price, b.Source)
	if err != nil {
		t.Fatalf("Failed to create test price: %v", err)
	}

	return model.InvestmentPrice{
		ID:           b.ID,
		InvestmentID: b.InvestmentID,
		Date:         MustParseDate(t, b.Date),
		Price:        MustParseDecimal(t, b.Price),
		Source:       b.Source,
	}
}

// Convenience functions

// CreateInvestment creates an investment with the given name and default values.
func CreateInvestment(t *testing.T, db *sql.DB, name string) model.Investment {
	t.Helper()
	return NewInvestment().WithName(name).Build(t, db)
}

// SeedSettings inserts the settings row with the given base currency.
func SeedSettings(t *testing.T, db *sql.DB, baseCurrency string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO settings (id, base_currency) VALUES (1, ?)`, baseCurrency)
	if err != nil {
		t.Fatalf("Failed to seed settings: %v", err)
	}
}

// MustParseDate parses a YYYY-MM-DD string or fails the test.
func MustParseDate(t *testing.T, date string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatalf("Failed to parse date %q: %v", date, err)
	}
	return parsed
}

// MustParseDecimal parses a decimal string or fails the test.
func MustParseDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("Failed to parse decimal %q: %v", value, err)
	}
	return parsed
}
