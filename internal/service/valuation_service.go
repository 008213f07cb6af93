package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/portfoliodb/backend/internal/model"
	"github.com/portfoliodb/backend/internal/repository"
)

// ValuationService derives the development series: one (quantity, price,
// value) record per investment per date that carries either a movement or a
// quote. The series is recomputed on demand from the movement and
// investment_price tables and is never persisted.
type ValuationService struct {
	movementRepo *repository.MovementRepository
	priceRepo    *repository.PriceRepository
}

// NewValuationService creates a new ValuationService with the provided repository dependencies.
func NewValuationService(
	movementRepo *repository.MovementRepository,
	priceRepo *repository.PriceRepository,
) *ValuationService {
	return &ValuationService{
		movementRepo: movementRepo,
		priceRepo:    priceRepo,
	}
}

// GetDevelopments loads the full ledger and price history and computes the
// development series, windowed to [startDate, endDate] when given.
//
// The full history is always loaded: carried-forward prices and cumulative
// quantities depend on events before the window start, so filtering happens
// on the emitted series, not on the inputs.
func (s *ValuationService) GetDevelopments(startDate, endDate time.Time) ([]model.Development, error) {
	movements, err := s.movementRepo.GetMovements("")
	if err != nil {
		return nil, err
	}

	prices, err := s.priceRepo.GetPrices("", time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	return ComputeDevelopments(movements, prices, startDate, endDate), nil
}

// priceResolution tags which tier produced a resolved price.
type priceResolution int

const (
	// resolutionNone: no tier produced a price; the date is dropped.
	resolutionNone priceResolution = iota
	// resolutionQuote: an externally observed price exists for the date.
	resolutionQuote
	// resolutionImplied: the simple mean of the day's trade-implied prices.
	resolutionImplied
	// resolutionCarried: the last previously resolved price, carried forward.
	resolutionCarried
)

// devKey identifies one candidate (investment, date) pair.
type devKey struct {
	investmentID string
	date         string // 2006-01-02, lexicographic order == chronological order
}

// ComputeDevelopments is the valuation engine: a pure function over the
// movement and price relations.
//
// Candidate dates per investment are the union of movement dates and quote
// dates. For each candidate date the cumulative quantity is the sum of buy
// quantities minus sell quantities up to and including that date (payouts
// never change quantity). The price resolves through three tiers in strict
// order: an observed quote for the date, else the simple mean of the day's
// trade-implied prices abs(amount/quantity), else the last resolved price
// carried forward. A date none of the tiers can price is dropped.
//
// All arithmetic is decimal; value = quantity * price exactly. Results are
// sorted by (investment, date) ascending and windowed to [startDate, endDate]
// after full-history resolution, so a window start does not discard the
// carried price state built before it.
func ComputeDevelopments(movements []model.Movement, prices []model.InvestmentPrice, startDate, endDate time.Time) []model.Development {
	quoteByDay := make(map[devKey]decimal.Decimal)
	for _, p := range prices {
		quoteByDay[devKey{p.InvestmentID, repository.FormatDate(p.Date)}] = p.Price
	}

	impliedByDay := impliedPrices(movements)
	netByDay := netQuantities(movements)

	// Candidate dates: every date bearing a movement or a quote.
	candidates := make(map[devKey]struct{})
	for _, m := range movements {
		candidates[devKey{m.InvestmentID, repository.FormatDate(m.Date)}] = struct{}{}
	}
	for key := range quoteByDay {
		candidates[key] = struct{}{}
	}

	ordered := make([]devKey, 0, len(candidates))
	for key := range candidates {
		ordered = append(ordered, key)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].investmentID != ordered[j].investmentID {
			return ordered[i].investmentID < ordered[j].investmentID
		}
		return ordered[i].date < ordered[j].date
	})

	quantityHeld := make(map[string]decimal.Decimal)
	lastPrice := make(map[string]decimal.Decimal)

	developments := []model.Development{}
	for _, key := range ordered {
		if net, ok := netByDay[key]; ok {
			quantityHeld[key.investmentID] = quantityHeld[key.investmentID].Add(net)
		}

		price, resolution := resolvePrice(key, quoteByDay, impliedByDay, lastPrice)
		if resolution == resolutionNone {
			continue
		}
		lastPrice[key.investmentID] = price

		date, err := repository.ParseTime(key.date)
		if err != nil {
			continue
		}
		if !startDate.IsZero() && date.Before(startDate) {
			continue
		}
		if !endDate.IsZero() && date.After(endDate) {
			continue
		}

		quantity := quantityHeld[key.investmentID]
		developments = append(developments, model.Development{
			InvestmentID: key.investmentID,
			Date:         date,
			Price:        price,
			Quantity:     quantity,
			Value:        quantity.Mul(price),
		})
	}

	return developments
}

// resolvePrice applies the three-tier fallback in strict priority order and
// reports which tier matched.
func resolvePrice(
	key devKey,
	quoteByDay, impliedByDay map[devKey]decimal.Decimal,
	lastPrice map[string]decimal.Decimal,
) (decimal.Decimal, priceResolution) {
	if price, ok := quoteByDay[key]; ok {
		return price, resolutionQuote
	}
	if price, ok := impliedByDay[key]; ok {
		return price, resolutionImplied
	}
	if price, ok := lastPrice[key.investmentID]; ok {
		return price, resolutionCarried
	}
	return decimal.Decimal{}, resolutionNone
}

// impliedPrices computes the trade-implied price per (investment, date): the
// simple mean of abs(amount/quantity) over that day's buy and sell movements.
// Zero-quantity movements carry no implied price and are excluded rather than
// dividing by zero; payouts never contribute.
func impliedPrices(movements []model.Movement) map[devKey]decimal.Decimal {
	perDay := make(map[devKey][]decimal.Decimal)
	for _, m := range movements {
		if m.ActionCode != model.ActionBuy && m.ActionCode != model.ActionSell {
			continue
		}
		implied, ok := m.ImpliedPrice()
		if !ok {
			continue
		}
		key := devKey{m.InvestmentID, repository.FormatDate(m.Date)}
		perDay[key] = append(perDay[key], implied)
	}

	means := make(map[devKey]decimal.Decimal, len(perDay))
	for key, dayPrices := range perDay {
		means[key] = decimal.Avg(dayPrices[0], dayPrices[1:]...)
	}
	return means
}

// netQuantities aggregates the net quantity change per (investment, date):
// buys add, sells subtract, payouts leave quantity untouched.
func netQuantities(movements []model.Movement) map[devKey]decimal.Decimal {
	nets := make(map[devKey]decimal.Decimal)
	for _, m := range movements {
		key := devKey{m.InvestmentID, repository.FormatDate(m.Date)}
		switch m.ActionCode {
		case model.ActionBuy:
			nets[key] = nets[key].Add(m.Quantity)
		case model.ActionSell:
			nets[key] = nets[key].Sub(m.Quantity)
		}
	}
	return nets
}
