package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/portfoliodb/backend/internal/model"
)

// ProviderJustETF is the registry id of the justETF performance-chart provider.
const ProviderJustETF = "justetf"

const justETFBaseURL = "https://www.justetf.com/api/etfs"

// JustETFProvider fetches ETF quotes from the justETF performance-chart API.
// The ticker is the fund's ISIN. All quotes are requested in EUR.
//
// The full chart payload is fetched at most once per ISIN per provider
// instance; both single and bulk lookups are served from that cached payload.
type JustETFProvider struct {
	httpClient *http.Client
	baseURL    string
	currency   string
	cache      map[string]*justETFChart
}

// NewJustETFProvider creates a provider using the given HTTP client.
func NewJustETFProvider(httpClient *http.Client) *JustETFProvider {
	return &JustETFProvider{
		httpClient: httpClient,
		baseURL:    justETFBaseURL,
		currency:   "EUR",
		cache:      make(map[string]*justETFChart),
	}
}

// NewJustETFProviderWithBaseURL creates a provider against an alternate
// endpoint. Used by tests to point at a local fake.
func NewJustETFProviderWithBaseURL(httpClient *http.Client, baseURL string) *JustETFProvider {
	p := NewJustETFProvider(httpClient)
	p.baseURL = baseURL
	return p
}

// justETFChart mirrors the fields of the performance-chart payload the
// provider reads. Values are decoded as json.Number to keep their exact
// decimal representation.
type justETFChart struct {
	LatestQuote struct {
		Raw json.Number `json:"raw"`
	} `json:"latestQuote"`
	LatestQuoteDate string `json:"latestQuoteDate"`
	Series          []struct {
		Date  string `json:"date"`
		Value struct {
			Raw json.Number `json:"raw"`
		} `json:"value"`
	} `json:"series"`
}

// Name returns the provider identifier.
func (p *JustETFProvider) Name() string {
	return ProviderJustETF
}

// GetQuote fetches a single quote for the ISIN. A zero date returns the
// latest quote; otherwise the series is searched for the exact date.
func (p *JustETFProvider) GetQuote(ctx context.Context, ticker string, date time.Time) (model.Quote, bool, error) {
	chart, err := p.fetchChart(ctx, ticker)
	if err != nil {
		return model.Quote{}, false, err
	}

	if date.IsZero() {
		if chart.LatestQuote.Raw == "" || chart.LatestQuoteDate == "" {
			return model.Quote{}, false, nil
		}
		return p.makeQuote(ticker, chart.LatestQuoteDate, chart.LatestQuote.Raw)
	}

	target := date.UTC().Format("2006-01-02")
	for _, entry := range chart.Series {
		if entry.Date == target && entry.Value.Raw != "" {
			return p.makeQuote(ticker, entry.Date, entry.Value.Raw)
		}
	}

	return model.Quote{}, false, nil
}

// GetQuotes fetches the full available history for the ISIN.
func (p *JustETFProvider) GetQuotes(ctx context.Context, ticker string) ([]model.Quote, error) {
	chart, err := p.fetchChart(ctx, ticker)
	if err != nil {
		return nil, err
	}

	quotes := make([]model.Quote, 0, len(chart.Series))
	for _, entry := range chart.Series {
		if entry.Date == "" || entry.Value.Raw == "" {
			continue
		}
		quote, ok, err := p.makeQuote(ticker, entry.Date, entry.Value.Raw)
		if err != nil {
			return nil, err
		}
		if ok {
			quotes = append(quotes, quote)
		}
	}

	return quotes, nil
}

func (p *JustETFProvider) makeQuote(ticker, dateStr string, raw json.Number) (model.Quote, bool, error) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return model.Quote{}, false, fmt.Errorf("justetf returned malformed date %q: %w", dateStr, err)
	}

	price, err := decimal.NewFromString(raw.String())
	if err != nil {
		return model.Quote{}, false, fmt.Errorf("justetf returned malformed value %q: %w", raw, err)
	}

	return model.Quote{
		Ticker:   ticker,
		Date:     date.UTC(),
		Price:    price,
		Currency: p.currency,
		Source:   ProviderJustETF,
	}, true, nil
}

// fetchChart retrieves and caches the performance-chart payload for an ISIN.
func (p *JustETFProvider) fetchChart(ctx context.Context, isin string) (*justETFChart, error) {
	if chart, ok := p.cache[isin]; ok {
		return chart, nil
	}

	params := url.Values{}
	params.Set("locale", "en")
	params.Set("currency", p.currency)
	params.Set("valuesType", "MARKET_VALUE")
	params.Set("reduceData", "false")
	params.Set("includeDividends", "false")
	params.Set("features", "DIVIDENDS")

	requestURL := fmt.Sprintf("%s/%s/performance-chart?%s", p.baseURL, url.PathEscape(isin), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	// Browser-like headers; the API rejects requests without them.
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", fmt.Sprintf("https://www.justetf.com/en/etf-profile.html?isin=%s", url.QueryEscape(isin)))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("justetf request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("justetf returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read justetf response: %w", err)
	}

	var chart justETFChart
	if err := json.Unmarshal(data, &chart); err != nil {
		return nil, fmt.Errorf("failed to parse justetf response: %w", err)
	}

	p.cache[isin] = &chart
	return &chart, nil
}
