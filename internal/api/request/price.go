package request

import "github.com/shopspring/decimal"

// PriceRequest is the payload for manually storing a price fact.
type PriceRequest struct {
	InvestmentID string          `json:"investmentId"`
	Date         string          `json:"date"`
	Price        decimal.Decimal `json:"price"`
	Source       string          `json:"source"`
}
