package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement is an immutable ledger event for one investment: a buy, sell or
// payout on a date. Amount is signed from the cash perspective (a buy is a
// negative amount). Movements are created by transaction entry and never
// mutated afterwards.
type Movement struct {
	ID           string          `json:"id"`
	Date         time.Time       `json:"date"`
	ActionCode   int             `json:"actionCode"`
	InvestmentID string          `json:"investmentId"`
	Quantity     decimal.Decimal `json:"quantity"`
	Amount       decimal.Decimal `json:"amount"`
	Fee          decimal.Decimal `json:"fee"`
}

// ImpliedPrice returns the unit price implied by the movement,
// abs(amount / quantity). The second return value is false for
// zero-quantity movements, which carry no implied price.
func (m Movement) ImpliedPrice() (decimal.Decimal, bool) {
	if m.Quantity.IsZero() {
		return decimal.Decimal{}, false
	}
	return m.Amount.Div(m.Quantity).Abs(), true
}
