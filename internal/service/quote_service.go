package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/portfoliodb/backend/internal/apperrors"
	"github.com/portfoliodb/backend/internal/currency"
	"github.com/portfoliodb/backend/internal/model"
	"github.com/portfoliodb/backend/internal/quotes"
	"github.com/portfoliodb/backend/internal/repository"
)

// QuoteService orchestrates quote acquisition: it selects the configured
// provider per investment, fetches raw quotes, normalizes them to the base
// currency and upserts the results into the investment_price table.
//
// Investments are processed in a sequential loop. Each investment's
// fetch-then-upsert runs in its own SQL transaction; one investment's failure
// never aborts the batch.
type QuoteService struct {
	db             *sql.DB
	investmentRepo *repository.InvestmentRepository
	priceRepo      *repository.PriceRepository
	settingsRepo   *repository.SettingsRepository
	converter      currency.Converter
	registry       quotes.Registry
	httpTimeout    time.Duration
}

// NewQuoteService creates a new QuoteService with the provided dependencies.
func NewQuoteService(
	db *sql.DB,
	investmentRepo *repository.InvestmentRepository,
	priceRepo *repository.PriceRepository,
	settingsRepo *repository.SettingsRepository,
	converter currency.Converter,
	registry quotes.Registry,
	httpTimeout time.Duration,
) *QuoteService {
	return &QuoteService{
		db:             db,
		investmentRepo: investmentRepo,
		priceRepo:      priceRepo,
		settingsRepo:   settingsRepo,
		converter:      converter,
		registry:       registry,
		httpTimeout:    httpTimeout,
	}
}

// FetchRequest selects what a quote fetch run covers. An empty InvestmentIDs
// slice means every quote-configured investment. A non-zero Date requests that
// specific day's quote; a zero Date requests the latest. Historical switches
// to bulk backfill of every date the provider can supply.
type FetchRequest struct {
	InvestmentIDs []string
	Date          time.Time
	Historical    bool
}

// Providers lists the registered quote providers.
func (s *QuoteService) Providers() []model.ProviderInfo {
	return s.registry.Providers()
}

// Fetch runs one quote fetch over the requested investments and reports the
// per-investment outcome. Provider instances, and with them the per-ticker
// response caches, are created fresh for the run and discarded with it.
func (s *QuoteService) Fetch(ctx context.Context, req FetchRequest) (model.FetchReport, error) {
	var investments []model.Investment
	var err error

	if len(req.InvestmentIDs) > 0 {
		investments, err = s.investmentRepo.GetInvestmentsByIDs(req.InvestmentIDs)
	} else {
		investments, err = s.investmentRepo.GetQuoteConfiguredInvestments()
	}
	if err != nil {
		return model.FetchReport{}, err
	}

	settings, err := s.settingsRepo.GetSettings()
	if err != nil {
		return model.FetchReport{}, err
	}

	run := &fetchRun{
		service:      s,
		baseCurrency: settings.BaseCurrency,
		httpClient:   &http.Client{Timeout: s.httpTimeout},
		providers:    make(map[string]quotes.Provider),
	}

	report := model.FetchReport{Results: make([]model.FetchResult, 0, len(investments))}
	for _, investment := range investments {
		result := run.fetchInvestment(ctx, investment, req)
		if result.Success {
			report.Successful++
		} else {
			report.Failed++
		}
		report.Results = append(report.Results, result)
	}
	report.Total = len(report.Results)

	log.Printf("quote fetch completed: %d/%d successful", report.Successful, report.Total)

	return report, nil
}

// fetchRun holds the state scoped to a single orchestrator invocation: the
// resolved base currency and the provider instances with their response
// caches. It must not outlive the run.
type fetchRun struct {
	service      *QuoteService
	baseCurrency string
	httpClient   *http.Client
	providers    map[string]quotes.Provider
}

func (r *fetchRun) provider(id string) (quotes.Provider, bool) {
	if p, ok := r.providers[id]; ok {
		return p, true
	}
	factory, ok := r.service.registry[id]
	if !ok {
		return nil, false
	}
	p := factory(r.httpClient)
	r.providers[id] = p
	return p, true
}

// fetchInvestment processes one investment and always returns a result,
// translating every failure into a per-item error message.
func (r *fetchRun) fetchInvestment(ctx context.Context, investment model.Investment, req FetchRequest) model.FetchResult {
	failure := func(message string) model.FetchResult {
		log.Printf("quote fetch failed for %s (%s): %s", investment.Name, investment.ID, message)
		return model.FetchResult{InvestmentID: investment.ID, Success: false, Error: message}
	}

	if investment.TickerSymbol == "" {
		return failure(apperrors.ErrNoTickerConfigured.Error())
	}
	if investment.QuoteProvider == "" {
		return failure(apperrors.ErrNoProviderConfigured.Error())
	}

	provider, ok := r.provider(investment.QuoteProvider)
	if !ok {
		return failure(fmt.Sprintf("%s: %s", apperrors.ErrUnknownProvider, investment.QuoteProvider))
	}

	var stored int
	var err error
	if req.Historical {
		stored, err = r.backfillInvestment(ctx, provider, investment)
	} else {
		stored, err = r.fetchSingleQuote(ctx, provider, investment, req.Date)
	}
	if err != nil {
		return failure(err.Error())
	}

	log.Printf("stored %d quote(s) for %s (%s)", stored, investment.Name, investment.TickerSymbol)
	return model.FetchResult{InvestmentID: investment.ID, Success: true, QuotesStored: stored}
}

// fetchSingleQuote fetches one quote (a specific date, or the latest) and
// upserts it. A conversion failure fails the whole per-investment operation.
func (r *fetchRun) fetchSingleQuote(ctx context.Context, provider quotes.Provider, investment model.Investment, date time.Time) (int, error) {
	quote, found, err := provider.GetQuote(ctx, investment.TickerSymbol, date)
	if err != nil {
		return 0, fmt.Errorf("provider error: %w", err)
	}
	if !found {
		return 0, apperrors.ErrNoQuoteData
	}

	price, ok := r.convert(ctx, quote)
	if !ok {
		return 0, fmt.Errorf("%w: %s to %s", apperrors.ErrConversionFailed, quote.Currency, r.baseCurrency)
	}

	err = r.storePrices(ctx, []model.InvestmentPrice{{
		InvestmentID: investment.ID,
		Date:         quote.Date,
		Price:        price,
		Source:       quote.Source,
	}})
	if err != nil {
		return 0, err
	}
	return 1, nil
}

// backfillInvestment fetches the provider's full history and upserts every
// convertible price. A conversion failure skips that single date only.
func (r *fetchRun) backfillInvestment(ctx context.Context, provider quotes.Provider, investment model.Investment) (int, error) {
	quoteSeries, err := provider.GetQuotes(ctx, investment.TickerSymbol)
	if err != nil {
		return 0, fmt.Errorf("provider error: %w", err)
	}
	if len(quoteSeries) == 0 {
		return 0, apperrors.ErrNoQuoteData
	}

	prices := make([]model.InvestmentPrice, 0, len(quoteSeries))
	for _, quote := range quoteSeries {
		price, ok := r.convert(ctx, quote)
		if !ok {
			log.Printf("skipping %s on %s: %v (%s to %s)",
				investment.TickerSymbol, repository.FormatDate(quote.Date),
				apperrors.ErrConversionFailed, quote.Currency, r.baseCurrency)
			continue
		}
		prices = append(prices, model.InvestmentPrice{
			InvestmentID: investment.ID,
			Date:         quote.Date,
			Price:        price,
			Source:       quote.Source,
		})
	}
	if len(prices) == 0 {
		return 0, fmt.Errorf("%w: %s", apperrors.ErrConversionFailed, r.baseCurrency)
	}

	if err := r.storePrices(ctx, prices); err != nil {
		return 0, err
	}
	return len(prices), nil
}

// convert normalizes a quote into the base currency using the rate for the
// quote's own date, never the latest rate for historical quotes.
func (r *fetchRun) convert(ctx context.Context, quote model.Quote) (price decimal.Decimal, ok bool) {
	if quote.Currency == r.baseCurrency {
		return quote.Price, true
	}
	return r.service.converter.Convert(ctx, quote.Price, quote.Currency, r.baseCurrency, quote.Date)
}

// storePrices upserts the prices for one investment inside a single
// transaction, so a crash mid-fetch never leaves a partial write visible.
func (r *fetchRun) storePrices(ctx context.Context, prices []model.InvestmentPrice) error {
	tx, err := r.service.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	txRepo := r.service.priceRepo.WithTx(tx)
	for _, price := range prices {
		if err := txRepo.Upsert(ctx, price); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
