// File: internal/services/settings_service.go
package services

import (
	"context"

	"github.com/tafara-ai/tafara/internal/repository/settings"
)

// SettingsService is the explicit application-settings context that replaces
// the original's ambient browser globals (dark-mode flag, cached username).
type SettingsService struct {
	repo   settings.SettingsRepository
	logger Logger
}

func NewSettingsService(repo settings.SettingsRepository, logger Logger) *SettingsService {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &SettingsService{repo: repo, logger: logger}
}

// Load returns the user's settings, falling back to defaults.
func (s *SettingsService) Load(ctx context.Context, username string) (*settings.AppSettings, error) {
	return s.repo.Load(ctx, username)
}

// Save persists the settings, last write wins.
func (s *SettingsService) Save(ctx context.Context, username string, appSettings *settings.AppSettings) error {
	return s.repo.Save(ctx, username, appSettings)
}
