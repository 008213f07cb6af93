package request

import "github.com/shopspring/decimal"

// MovementRequest is the payload for entering a ledger movement.
// Amount is signed from the cash perspective: a buy is negative.
type MovementRequest struct {
	Date         string          `json:"date"`
	ActionCode   int             `json:"actionCode"`
	InvestmentID string          `json:"investmentId"`
	Quantity     decimal.Decimal `json:"quantity"`
	Amount       decimal.Decimal `json:"amount"`
	Fee          decimal.Decimal `json:"fee"`
}
