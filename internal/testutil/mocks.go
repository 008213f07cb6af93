package testutil

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/portfoliodb/backend/internal/model"
	"github.com/portfoliodb/backend/internal/quotes"
)

// MockProvider is a configurable quote provider for orchestrator tests.
// Quotes are keyed by ticker; call counts are recorded for cache assertions.
type MockProvider struct {
	ID     string
	Quotes map[string][]model.Quote
	Err    error

	GetQuoteCalls  int
	GetQuotesCalls int
}

// NewMockProvider creates a MockProvider with the given id and no quotes.
func NewMockProvider(id string) *MockProvider {
	return &MockProvider{
		ID:     id,
		Quotes: make(map[string][]model.Quote),
	}
}

// AddQuote registers a quote for a ticker on a date.
func (p *MockProvider) AddQuote(ticker, date, price, currencyCode string) *MockProvider {
	parsed, _ := time.Parse("2006-01-02", date)
	p.Quotes[ticker] = append(p.Quotes[ticker], model.Quote{
		Ticker:   ticker,
		Date:     parsed,
		Price:    decimal.RequireFromString(price),
		Currency: currencyCode,
		Source:   p.ID,
	})
	return p
}

// Name implements quotes.Provider.
func (p *MockProvider) Name() string {
	return p.ID
}

// GetQuote implements quotes.Provider. A zero date returns the last
// registered quote for the ticker; otherwise the quote whose date matches.
func (p *MockProvider) GetQuote(ctx context.Context, ticker string, date time.Time) (model.Quote, bool, error) {
	p.GetQuoteCalls++
	if p.Err != nil {
		return model.Quote{}, false, p.Err
	}

	series := p.Quotes[ticker]
	if len(series) == 0 {
		return model.Quote{}, false, nil
	}
	if date.IsZero() {
		return series[len(series)-1], true, nil
	}
	for _, q := range series {
		if q.Date.Equal(date) {
			return q, true, nil
		}
	}
	return model.Quote{}, false, nil
}

// GetQuotes implements quotes.Provider.
func (p *MockProvider) GetQuotes(ctx context.Context, ticker string) ([]model.Quote, error) {
	p.GetQuotesCalls++
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Quotes[ticker], nil
}

// RegistryWith builds a provider registry whose factories hand back the given
// mock providers, keyed by their IDs.
func RegistryWith(providers ...*MockProvider) quotes.Registry {
	registry := make(quotes.Registry, len(providers))
	for _, p := range providers {
		provider := p
		registry[provider.ID] = func(httpClient *http.Client) quotes.Provider {
			return provider
		}
	}
	return registry
}

// MockConverter is a configurable currency converter. Rates are keyed by
// "FROM->TO"; conversions for pairs without a rate fail. Requested dates are
// recorded so tests can assert the quote's own date was used.
type MockConverter struct {
	Rates map[string]decimal.Decimal

	Calls          int
	RequestedDates []time.Time
}

// NewMockConverter creates a MockConverter with no rates.
func NewMockConverter() *MockConverter {
	return &MockConverter{Rates: make(map[string]decimal.Decimal)}
}

// WithRate registers a conversion rate for a currency pair.
func (c *MockConverter) WithRate(from, to, rate string) *MockConverter {
	c.Rates[from+"->"+to] = decimal.RequireFromString(rate)
	return c
}

// Convert implements currency.Converter.
func (c *MockConverter) Convert(ctx context.Context, amount decimal.Decimal, from, to string, date time.Time) (decimal.Decimal, bool) {
	c.Calls++
	c.RequestedDates = append(c.RequestedDates, date)

	if from == to {
		return amount, true
	}
	rate, ok := c.Rates[from+"->"+to]
	if !ok {
		return decimal.Decimal{}, false
	}
	return amount.Mul(rate), true
}
