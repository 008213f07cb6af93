package service

import (
	"github.com/portfoliodb/backend/internal/model"
	"github.com/portfoliodb/backend/internal/repository"
	"github.com/portfoliodb/backend/internal/validation"
)

// SettingsService handles the base-currency singleton.
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService with the provided repository dependency.
func NewSettingsService(settingsRepo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetSettings retrieves the current settings, defaulting the base currency
// when no row exists.
func (s *SettingsService) GetSettings() (model.Settings, error) {
	return s.settingsRepo.GetSettings()
}

// UpdateBaseCurrency validates and stores a new base currency code.
func (s *SettingsService) UpdateBaseCurrency(code string) (model.Settings, error) {
	if err := validation.ValidateCurrency(code); err != nil {
		return model.Settings{}, err
	}
	settings := model.Settings{BaseCurrency: code}
	if err := s.settingsRepo.UpdateSettings(settings); err != nil {
		return model.Settings{}, err
	}
	return settings, nil
}
