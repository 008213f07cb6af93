package request

// InvestmentRequest is the payload for creating or updating an investment.
type InvestmentRequest struct {
	Name          string `json:"name"`
	Isin          string `json:"isin"`
	ShortName     string `json:"shortName"`
	TickerSymbol  string `json:"tickerSymbol"`
	QuoteProvider string `json:"quoteProvider"`
}
