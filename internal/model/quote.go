package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a raw price observation for a ticker on a date, as returned by a
// quote provider before currency normalization.
type Quote struct {
	Ticker   string          `json:"ticker"`
	Date     time.Time       `json:"date"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	Source   string          `json:"source"`
}

// ProviderInfo describes a registered quote provider.
type ProviderInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FetchResult is the per-investment outcome of a quote fetch run.
type FetchResult struct {
	InvestmentID string `json:"investment_id"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
	QuotesStored int    `json:"quotesStored"`
}

// FetchReport aggregates the results of one quote fetch run. One investment's
// failure never aborts the batch, so Results always covers every requested
// investment.
type FetchReport struct {
	Total      int           `json:"total"`
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Results    []FetchResult `json:"results"`
}
