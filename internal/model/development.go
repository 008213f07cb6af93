package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Development is a derived valuation record for one investment on one date:
// the cumulative quantity held, the resolved price and their product. It is
// recomputed on demand from movements and prices and is never persisted as
// ledger truth.
type Development struct {
	InvestmentID string          `json:"investment"`
	Date         time.Time       `json:"date"`
	Price        decimal.Decimal `json:"price"`
	Quantity     decimal.Decimal `json:"quantity"`
	Value        decimal.Decimal `json:"value"`
}
