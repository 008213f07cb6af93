package repository_test

import (
	"testing"

	"github.com/portfoliodb/backend/internal/model"
	"github.com/portfoliodb/backend/internal/repository"
	"github.com/portfoliodb/backend/internal/testutil"
)

// TestSettingsRepository tests the base-currency singleton.
//
// WHY: SeedIfEmpty runs on every startup with the configured default. It must
// never clobber a base currency the operator already chose, because changing
// it reinterprets every stored price.
func TestSettingsRepository(t *testing.T) {
	t.Run("missing row falls back to the default", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewSettingsRepository(db)

		settings, err := repo.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings() returned unexpected error: %v", err)
		}
		if settings.BaseCurrency != model.DefaultBaseCurrency {
			t.Errorf("Expected default %s, got %s", model.DefaultBaseCurrency, settings.BaseCurrency)
		}
	})

	t.Run("seed populates an empty table", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewSettingsRepository(db)

		if err := repo.SeedIfEmpty("USD"); err != nil {
			t.Fatalf("SeedIfEmpty() returned unexpected error: %v", err)
		}

		settings, err := repo.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings() returned unexpected error: %v", err)
		}
		if settings.BaseCurrency != "USD" {
			t.Errorf("Expected USD, got %s", settings.BaseCurrency)
		}
	})

	t.Run("seed never overwrites an existing row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewSettingsRepository(db)
		testutil.SeedSettings(t, db, "GBP")

		if err := repo.SeedIfEmpty("EUR"); err != nil {
			t.Fatalf("SeedIfEmpty() returned unexpected error: %v", err)
		}

		settings, err := repo.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings() returned unexpected error: %v", err)
		}
		if settings.BaseCurrency != "GBP" {
			t.Errorf("Expected GBP preserved, got %s", settings.BaseCurrency)
		}
	})

	t.Run("update inserts or overwrites the singleton", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewSettingsRepository(db)

		if err := repo.UpdateSettings(model.Settings{BaseCurrency: "USD"}); err != nil {
			t.Fatalf("UpdateSettings() returned unexpected error: %v", err)
		}
		if err := repo.UpdateSettings(model.Settings{BaseCurrency: "CHF"}); err != nil {
			t.Fatalf("UpdateSettings() returned unexpected error: %v", err)
		}

		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM settings`).Scan(&count); err != nil {
			t.Fatalf("Failed to count settings rows: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected a single settings row, got %d", count)
		}

		settings, err := repo.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings() returned unexpected error: %v", err)
		}
		if settings.BaseCurrency != "CHF" {
			t.Errorf("Expected CHF, got %s", settings.BaseCurrency)
		}
	})
}
