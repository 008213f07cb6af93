package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/portfoliodb/backend/internal/model"
)

// SettingsRepository provides data access methods for the settings table.
// The table is a process-wide singleton: the first row wins and a missing row
// falls back to the default base currency.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository with the provided database connection.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSettings retrieves the settings singleton. When no row exists the
// default base currency is returned.
func (r *SettingsRepository) GetSettings() (model.Settings, error) {
	var s model.Settings
	err := r.db.QueryRow(`SELECT base_currency FROM settings ORDER BY id ASC LIMIT 1`).
		Scan(&s.BaseCurrency)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Settings{BaseCurrency: model.DefaultBaseCurrency}, nil
	}
	if err != nil {
		return model.Settings{}, fmt.Errorf("failed to query settings table: %w", err)
	}
	return s, nil
}

// SeedIfEmpty inserts the singleton row with the given base currency when the
// table is empty. An existing row always wins over the configured default.
func (r *SettingsRepository) SeedIfEmpty(baseCurrency string) error {
	_, err := r.db.Exec(`
		INSERT INTO settings (id, base_currency)
		SELECT 1, ?
		WHERE NOT EXISTS (SELECT 1 FROM settings)
	`, baseCurrency)
	if err != nil {
		return fmt.Errorf("failed to seed settings table: %w", err)
	}
	return nil
}

// UpdateSettings writes the base currency, inserting the singleton row when
// it does not exist yet.
func (r *SettingsRepository) UpdateSettings(s model.Settings) error {
	_, err := r.db.Exec(`
		INSERT INTO settings (id, base_currency)
		VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET base_currency = excluded.base_currency
	`, s.BaseCurrency)
	if err != nil {
		return fmt.Errorf("failed to upsert into settings table: %w", err)
	}
	return nil
}
