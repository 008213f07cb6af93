package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/portfoliodb/backend/internal/api"
	"github.com/portfoliodb/backend/internal/config"
	"github.com/portfoliodb/backend/internal/currency"
	"github.com/portfoliodb/backend/internal/database"
	"github.com/portfoliodb/backend/internal/quotes"
	"github.com/portfoliodb/backend/internal/repository"
	"github.com/portfoliodb/backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection and bring the schema up to date
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	actionTypeRepo := repository.NewActionTypeRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// An existing settings row wins over the configured default.
	if err := settingsRepo.SeedIfEmpty(cfg.Quotes.BaseCurrency); err != nil {
		log.Fatalf("Failed to seed settings: %v", err)
	}

	// Create services
	converter := currency.NewFrankfurterConverter(cfg.Quotes.HTTPTimeout)

	services := api.Services{
		System:    service.NewSystemService(db),
		Ledger:    service.NewLedgerService(actionTypeRepo, investmentRepo, movementRepo),
		Price:     service.NewPriceService(priceRepo),
		Valuation: service.NewValuationService(movementRepo, priceRepo),
		Quote: service.NewQuoteService(
			db,
			investmentRepo,
			priceRepo,
			settingsRepo,
			converter,
			quotes.DefaultRegistry(),
			cfg.Quotes.HTTPTimeout,
		),
		Settings: service.NewSettingsService(settingsRepo),
	}

	// Create router
	router := api.NewRouter(services, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// Scheduled quote fetch, disabled when no schedule is configured
	if cfg.Quotes.FetchSchedule != "" {
		scheduler := cron.New()
		_, err := scheduler.AddFunc(cfg.Quotes.FetchSchedule, func() {
			report, err := services.Quote.Fetch(context.Background(), service.FetchRequest{})
			if err != nil {
				log.Printf("Scheduled quote fetch failed: %v", err)
				return
			}
			log.Printf("Scheduled quote fetch: %d/%d successful", report.Successful, report.Total)
		})
		if err != nil {
			log.Fatalf("Invalid quote fetch schedule %q: %v", cfg.Quotes.FetchSchedule, err)
		}

		group.Go(func() error {
			scheduler.Start()
			<-ctx.Done()
			<-scheduler.Stop().Done()
			return nil
		})

		log.Printf("Quote fetch scheduled: %s", cfg.Quotes.FetchSchedule)
	}

	group.Go(func() error {
		<-ctx.Done()

		log.Println("Shutting down server...")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server exited")
}
