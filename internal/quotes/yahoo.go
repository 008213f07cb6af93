package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/portfoliodb/backend/internal/model"
)

// ProviderYahoo is the registry id of the Yahoo Finance chart provider.
const ProviderYahoo = "yahoo"

const yahooBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooProvider fetches quotes from the Yahoo Finance v8 chart API.
//
// The full daily history (range=max) is fetched at most once per ticker per
// provider instance; latest, dated and bulk lookups are all served from that
// cached series.
type YahooProvider struct {
	httpClient *http.Client
	baseURL    string
	cache      map[string][]model.Quote
}

// NewYahooProvider creates a provider using the given HTTP client.
func NewYahooProvider(httpClient *http.Client) *YahooProvider {
	return &YahooProvider{
		httpClient: httpClient,
		baseURL:    yahooBaseURL,
		cache:      make(map[string][]model.Quote),
	}
}

// NewYahooProviderWithBaseURL creates a provider against an alternate
// endpoint. Used by tests to point at a local fake.
func NewYahooProviderWithBaseURL(httpClient *http.Client, baseURL string) *YahooProvider {
	p := NewYahooProvider(httpClient)
	p.baseURL = baseURL
	return p
}

// yahooResponse mirrors the chart API response structure. Close prices are
// decoded as json.Number to keep their exact decimal representation; null
// entries (non-trading days) decode as nil.
type yahooResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency string `json:"currency"`
				Symbol   string `json:"symbol"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*json.Number `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *string `json:"error"`
	} `json:"chart"`
}

// Name returns the provider identifier.
func (p *YahooProvider) Name() string {
	return ProviderYahoo
}

// GetQuote fetches a single quote for the ticker. A zero date returns the
// most recent quote; otherwise the history is searched for the exact date.
func (p *YahooProvider) GetQuote(ctx context.Context, ticker string, date time.Time) (model.Quote, bool, error) {
	series, err := p.fetchSeries(ctx, ticker)
	if err != nil {
		return model.Quote{}, false, err
	}
	if len(series) == 0 {
		return model.Quote{}, false, nil
	}

	if date.IsZero() {
		// Series is chronological; the last entry is the latest close.
		return series[len(series)-1], true, nil
	}

	target := date.UTC().Truncate(24 * time.Hour)
	for _, quote := range series {
		if quote.Date.Equal(target) {
			return quote, true, nil
		}
	}

	return model.Quote{}, false, nil
}

// GetQuotes fetches the full available daily history for the ticker.
func (p *YahooProvider) GetQuotes(ctx context.Context, ticker string) ([]model.Quote, error) {
	return p.fetchSeries(ctx, ticker)
}

// fetchSeries retrieves and caches the full daily close series for a ticker.
func (p *YahooProvider) fetchSeries(ctx context.Context, ticker string) ([]model.Quote, error) {
	if series, ok := p.cache[ticker]; ok {
		return series, nil
	}

	url := fmt.Sprintf("%s/%s?interval=1d&range=max", p.baseURL, ticker)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read yahoo response: %w", err)
	}

	var response yahooResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse yahoo response: %w", err)
	}

	if response.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo error: %s", *response.Chart.Error)
	}
	if len(response.Chart.Result) == 0 {
		return nil, fmt.Errorf("no results returned for symbol %s", ticker)
	}

	result := response.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no close prices returned for symbol %s", ticker)
	}

	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return nil, fmt.Errorf("mismatched data lengths for symbol %s", ticker)
	}

	series := make([]model.Quote, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		price, err := decimal.NewFromString(closes[i].String())
		if err != nil {
			return nil, fmt.Errorf("yahoo returned malformed close %q: %w", closes[i], err)
		}
		series = append(series, model.Quote{
			Ticker:   ticker,
			Date:     time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Price:    price,
			Currency: result.Meta.Currency,
			Source:   ProviderYahoo,
		})
	}

	p.cache[ticker] = series
	return series, nil
}
