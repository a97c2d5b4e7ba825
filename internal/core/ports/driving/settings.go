package driving

import "github.com/custodia-labs/qapairs/internal/core/domain"

// SettingsService manages extraction settings.
type SettingsService interface {
	// Get retrieves the current settings, filling gaps with defaults.
	Get() (*domain.Settings, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// Validate checks that configured policies and patterns are usable.
	Validate() error

	// Set stores a single configuration key.
	Set(key string, value any) error
}
