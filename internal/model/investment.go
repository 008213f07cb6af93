package model

// Investment identifies a single holding. TickerSymbol and QuoteProvider must
// both be set for automated quote fetching to apply to the investment.
type Investment struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Isin          string `json:"isin"`
	ShortName     string `json:"shortName"`
	TickerSymbol  string `json:"tickerSymbol,omitempty"`
	QuoteProvider string `json:"quoteProvider,omitempty"`
}

// HasQuoteConfig reports whether the investment is configured for
// automated quote fetching.
func (i Investment) HasQuoteConfig() bool {
	return i.TickerSymbol != "" && i.QuoteProvider != ""
}
