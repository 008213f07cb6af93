// Package quotes fetches raw market quotes from external providers.
//
// Each provider implements the same capability set: a single quote for a
// ticker and date (or the latest), the full available history for a ticker,
// and a stable provider name. Providers are selected per investment through a
// registry keyed by provider id.
package quotes

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/portfoliodb/backend/internal/model"
)

// Provider fetches quotes for a ticker from one upstream source.
type Provider interface {
	// Name returns the stable provider identifier, also used as the
	// source tag on stored prices.
	Name() string

	// GetQuote fetches a single quote. A zero date requests the latest
	// available quote. The boolean result is false when the provider has
	// no quote for the ticker/date.
	GetQuote(ctx context.Context, ticker string, date time.Time) (model.Quote, bool, error)

	// GetQuotes fetches every historical quote the provider can supply.
	GetQuotes(ctx context.Context, ticker string) ([]model.Quote, error)
}

// Factory builds a fresh provider instance. Providers cache upstream
// responses keyed by ticker for their own lifetime, so a fetch run builds its
// providers through factories and discards them afterwards; the cache never
// outlives the run.
type Factory func(httpClient *http.Client) Provider

// Registry maps provider ids to factories.
type Registry map[string]Factory

// DefaultRegistry returns the registry of built-in providers.
func DefaultRegistry() Registry {
	return Registry{
		ProviderJustETF: func(httpClient *http.Client) Provider { return NewJustETFProvider(httpClient) },
		ProviderYahoo:   func(httpClient *http.Client) Provider { return NewYahooProvider(httpClient) },
	}
}

// Providers lists the registered providers sorted by id.
func (r Registry) Providers() []model.ProviderInfo {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	infos := make([]model.ProviderInfo, 0, len(ids))
	for _, id := range ids {
		infos = append(infos, model.ProviderInfo{ID: id, Name: id})
	}
	return infos
}
