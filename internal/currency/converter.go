// Package currency converts amounts between currency codes using the
// frankfurter.app exchange-rate API (free, no API key required).
package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
)

// Converter converts an amount between two currency codes on a given date.
// A zero date means the latest available rate. The boolean result reports
// whether a rate was available; conversion never returns an error to the
// caller.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string, date time.Time) (decimal.Decimal, bool)
}

const frankfurterBaseURL = "https://api.frankfurter.app"

// FrankfurterConverter is a stateless Converter backed by frankfurter.app.
type FrankfurterConverter struct {
	httpClient *http.Client
	baseURL    string
}

// NewFrankfurterConverter creates a converter with the given request timeout.
func NewFrankfurterConverter(timeout time.Duration) *FrankfurterConverter {
	return &FrankfurterConverter{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    frankfurterBaseURL,
	}
}

// NewFrankfurterConverterWithBaseURL creates a converter against an alternate
// endpoint. Used by tests to point at a local fake.
func NewFrankfurterConverterWithBaseURL(timeout time.Duration, baseURL string) *FrankfurterConverter {
	c := NewFrankfurterConverter(timeout)
	c.baseURL = baseURL
	return c
}

// rateResponse holds the fields of a frankfurter response the converter reads.
// Rates are decoded as json.Number so the string representation reaches
// decimal.NewFromString without a float64 round trip.
type rateResponse struct {
	Rates map[string]json.Number `json:"rates"`
}

// Convert converts amount from one currency to another. Identical currency
// codes short-circuit without any external call. A historical rate is used
// when date is non-zero, otherwise the latest rate. Transport errors, non-2xx
// statuses and missing target currencies all yield (zero, false).
func (c *FrankfurterConverter) Convert(ctx context.Context, amount decimal.Decimal, from, to string, date time.Time) (decimal.Decimal, bool) {
	if from == to {
		return amount, true
	}

	url := fmt.Sprintf("%s/latest?from=%s&to=%s", c.baseURL, from, to)
	if !date.IsZero() {
		url = fmt.Sprintf("%s/%s?from=%s&to=%s", c.baseURL, date.UTC().Format("2006-01-02"), from, to)
	}

	body, err := c.fetch(ctx, url)
	if err != nil {
		log.Printf("currency conversion request failed (%s to %s): %v", from, to, err)
		return decimal.Decimal{}, false
	}

	var response rateResponse
	if err := json.Unmarshal(body, &response); err != nil {
		log.Printf("failed to parse rate response (%s to %s): %v", from, to, err)
		return decimal.Decimal{}, false
	}

	rateStr, found := response.Rates[to]
	if !found {
		log.Printf("no conversion rate found for %s to %s", from, to)
		return decimal.Decimal{}, false
	}

	rate, err := decimal.NewFromString(rateStr.String())
	if err != nil {
		log.Printf("malformed rate %q for %s to %s: %v", rateStr, from, to, err)
		return decimal.Decimal{}, false
	}

	return amount.Mul(rate), true
}

// fetch executes the rate lookup, retrying transient failures with a capped
// fibonacci backoff.
func (c *FrankfurterConverter) fetch(ctx context.Context, url string) ([]byte, error) {
	backoff := retry.WithMaxRetries(2, retry.NewFibonacci(500*time.Millisecond))

	var body []byte
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("rate source returned status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("rate source returned status %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, err
	}

	return body, nil
}
