package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentPrice is one observed price fact per (investment, date), stored in
// the base currency. Source records where the price came from: a provider name
// or "computed". Re-fetching the same date overwrites the row.
type InvestmentPrice struct {
	ID           string          `json:"id"`
	InvestmentID string          `json:"investmentId"`
	Date         time.Time       `json:"date"`
	Price        decimal.Decimal `json:"price"`
	Source       string          `json:"source"`
}
