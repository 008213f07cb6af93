package service

import (
	"context"
	"time"

	"github.com/portfoliodb/backend/internal/model"
	"github.com/portfoliodb/backend/internal/repository"
	"github.com/portfoliodb/backend/internal/validation"
)

// SourceComputed tags prices entered or derived locally rather than fetched
// from a quote provider.
const SourceComputed = "computed"

// defaultPriceWindowYears is the default lookback when a price listing names
// no explicit window.
const defaultPriceWindowYears = 3

// PriceService handles reading and manual maintenance of stored price facts.
type PriceService struct {
	priceRepo *repository.PriceRepository
}

// NewPriceService creates a new PriceService with the provided repository dependency.
func NewPriceService(priceRepo *repository.PriceRepository) *PriceService {
	return &PriceService{priceRepo: priceRepo}
}

// GetPrices retrieves price facts. When neither date is given the window
// defaults to the last three years.
func (s *PriceService) GetPrices(investmentID string, startDate, endDate time.Time) ([]model.InvestmentPrice, error) {
	if investmentID != "" {
		if err := validation.ValidateUUID(investmentID); err != nil {
			return nil, err
		}
	}
	if err := validation.ValidateDateRange(startDate, endDate); err != nil {
		return nil, err
	}

	if startDate.IsZero() && endDate.IsZero() {
		startDate = time.Now().UTC().AddDate(-defaultPriceWindowYears, 0, 0)
	}

	return s.priceRepo.GetPrices(investmentID, startDate, endDate)
}

// UpsertPrice stores a manually entered price fact. An empty source is tagged
// as computed. Writing an existing (investment, date) key overwrites it.
func (s *PriceService) UpsertPrice(ctx context.Context, price model.InvestmentPrice) error {
	if err := validation.ValidateUUID(price.InvestmentID); err != nil {
		return err
	}
	if price.Source == "" {
		price.Source = SourceComputed
	}
	return s.priceRepo.Upsert(ctx, price)
}

// DeletePrice removes the price fact for one investment on one date.
func (s *PriceService) DeletePrice(investmentID string, date time.Time) error {
	if err := validation.ValidateUUID(investmentID); err != nil {
		return err
	}
	return s.priceRepo.DeletePrice(investmentID, date)
}
