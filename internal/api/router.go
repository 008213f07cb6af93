package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/portfoliodb/backend/internal/api/handlers"
	custommiddleware "github.com/portfoliodb/backend/internal/api/middleware"
	"github.com/portfoliodb/backend/internal/config"
	"github.com/portfoliodb/backend/internal/service"
)

// Services bundles the service dependencies the router needs.
type Services struct {
	System    *service.SystemService
	Ledger    *service.LedgerService
	Price     *service.PriceService
	Valuation *service.ValuationService
	Quote     *service.QuoteService
	Settings  *service.SettingsService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(services.System)
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/actiontypes", func(r chi.Router) {
			actionTypeHandler := handlers.NewActionTypeHandler(services.Ledger)
			r.Get("/", actionTypeHandler.GetActionTypes)
		})

		r.Route("/investments", func(r chi.Router) {
			investmentHandler := handlers.NewInvestmentHandler(services.Ledger)
			r.Get("/", investmentHandler.GetInvestments)
			r.Post("/", investmentHandler.CreateInvestment)
			r.Get("/{id}", investmentHandler.GetInvestment)
			r.Put("/{id}", investmentHandler.UpdateInvestment)
			r.Delete("/{id}", investmentHandler.DeleteInvestment)
		})

		r.Route("/movements", func(r chi.Router) {
			movementHandler := handlers.NewMovementHandler(services.Ledger)
			r.Get("/", movementHandler.GetMovements)
			r.Post("/", movementHandler.CreateMovement)
			r.Get("/{id}", movementHandler.GetMovement)
			r.Delete("/{id}", movementHandler.DeleteMovement)
		})

		r.Route("/investmentprices", func(r chi.Router) {
			priceHandler := handlers.NewPriceHandler(services.Price)
			r.Get("/", priceHandler.GetPrices)
			r.Put("/", priceHandler.UpsertPrice)
		})

		r.Route("/developments", func(r chi.Router) {
			developmentHandler := handlers.NewDevelopmentHandler(services.Valuation)
			r.Get("/", developmentHandler.GetDevelopments)
		})

		r.Route("/quotes", func(r chi.Router) {
			quoteHandler := handlers.NewQuoteHandler(services.Quote)
			r.Get("/providers", quoteHandler.GetProviders)
			r.Post("/fetch", quoteHandler.FetchQuotes)
		})

		r.Route("/settings", func(r chi.Router) {
			settingsHandler := handlers.NewSettingsHandler(services.Settings)
			r.Get("/", settingsHandler.GetSettings)
			r.Put("/", settingsHandler.UpdateSettings)
		})
	})

	return r
}
