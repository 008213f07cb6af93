package request

// FetchQuotesRequest triggers a quote fetch run. An empty InvestmentIDs list
// means every quote-configured investment; an empty Date means the latest
// quote; Historical switches to full-history backfill.
type FetchQuotesRequest struct {
	InvestmentIDs []string `json:"investment_ids"`
	Date          string   `json:"date"`
	Historical    bool     `json:"historical"`
}
