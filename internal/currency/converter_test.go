package currency_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/portfoliodb/backend/internal/currency"
)

func newRateServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int) {
	t.Helper()

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

// TestFrankfurterConverter_Convert tests rate lookup and application.
//
// WHY: Every stored foreign-currency quote passes through this converter.
// Rates must reach the decimal multiply as strings, never through float64,
// and an identical currency pair must not touch the network at all.
func TestFrankfurterConverter_Convert(t *testing.T) {
	t.Run("identical currencies short-circuit without a request", func(t *testing.T) {
		server, calls := newRateServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"rates":{"EUR":"1"}}`)
		})
		converter := currency.NewFrankfurterConverterWithBaseURL(time.Second, server.URL)

		amount := decimal.RequireFromString("42.5")
		result, ok := converter.Convert(context.Background(), amount, "EUR", "EUR", time.Time{})

		if !ok {
			t.Fatal("Expected conversion to succeed")
		}
		if !result.Equal(amount) {
			t.Errorf("Expected amount unchanged, got %s", result)
		}
		if *calls != 0 {
			t.Errorf("Expected no HTTP requests, got %d", *calls)
		}
	})

	t.Run("applies the returned rate with exact decimal arithmetic", func(t *testing.T) {
		server, _ := newRateServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/latest" {
				t.Errorf("Expected /latest for zero date, got %s", r.URL.Path)
			}
			// A rate that is not exactly representable in binary floating point.
			fmt.Fprint(w, `{"amount":1.0,"base":"USD","rates":{"EUR":0.9123}}`)
		})
		converter := currency.NewFrankfurterConverterWithBaseURL(time.Second, server.URL)

		result, ok := converter.Convert(context.Background(),
			decimal.RequireFromString("200"), "USD", "EUR", time.Time{})

		if !ok {
			t.Fatal("Expected conversion to succeed")
		}
		if !result.Equal(decimal.RequireFromString("182.46")) {
			t.Errorf("Expected 182.46, got %s", result)
		}
	})

	t.Run("historical date selects the dated endpoint", func(t *testing.T) {
		server, _ := newRateServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/2024-03-01" {
				t.Errorf("Expected dated path /2024-03-01, got %s", r.URL.Path)
			}
			if r.URL.Query().Get("from") != "USD" || r.URL.Query().Get("to") != "EUR" {
				t.Errorf("Unexpected query: %s", r.URL.RawQuery)
			}
			fmt.Fprint(w, `{"rates":{"EUR":0.9}}`)
		})
		converter := currency.NewFrankfurterConverterWithBaseURL(time.Second, server.URL)

		date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		result, ok := converter.Convert(context.Background(),
			decimal.RequireFromString("100"), "USD", "EUR", date)

		if !ok {
			t.Fatal("Expected conversion to succeed")
		}
		if !result.Equal(decimal.RequireFromString("90")) {
			t.Errorf("Expected 90, got %s", result)
		}
	})

	t.Run("missing target currency yields not ok", func(t *testing.T) {
		server, _ := newRateServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"rates":{"GBP":"0.85"}}`)
		})
		converter := currency.NewFrankfurterConverterWithBaseURL(time.Second, server.URL)

		_, ok := converter.Convert(context.Background(),
			decimal.RequireFromString("100"), "USD", "EUR", time.Time{})

		if ok {
			t.Error("Expected conversion to fail for missing rate")
		}
	})

	t.Run("client error status yields not ok without retry", func(t *testing.T) {
		server, calls := newRateServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		converter := currency.NewFrankfurterConverterWithBaseURL(time.Second, server.URL)

		_, ok := converter.Convert(context.Background(),
			decimal.RequireFromString("100"), "USD", "EUR", time.Time{})

		if ok {
			t.Error("Expected conversion to fail on 404")
		}
		if *calls != 1 {
			t.Errorf("Expected exactly 1 request for a 4xx, got %d", *calls)
		}
	})

	t.Run("server errors are retried", func(t *testing.T) {
		server, calls := newRateServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		converter := currency.NewFrankfurterConverterWithBaseURL(time.Second, server.URL)

		_, ok := converter.Convert(context.Background(),
			decimal.RequireFromString("100"), "USD", "EUR", time.Time{})

		if ok {
			t.Error("Expected conversion to fail after retries")
		}
		if *calls != 3 {
			t.Errorf("Expected initial attempt plus 2 retries, got %d requests", *calls)
		}
	})
}
