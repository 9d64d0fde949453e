package config

import (
	"fmt"

	"github.com/cryptomator/cryptomator-tray/internal/models"
)

// LoadSettings loads the global settings from settings.yaml.
// If the file doesn't exist, returns default settings.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	settings, err := LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		return nil, err
	}
	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return settings, nil
}

// SaveSettings saves the global settings to settings.yaml.
func SaveSettings(settings *models.Settings) error {
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}

// ValidateSettings fills empty fields with defaults and rejects unknown values.
func ValidateSettings(s *models.Settings) error {
	defaults := models.NewSettings()

	switch s.Appearance.Theme {
	case "":
		s.Appearance.Theme = defaults.Appearance.Theme
	case models.ThemeSystem, models.ThemeLight, models.ThemeDark:
	default:
		return fmt.Errorf("unknown appearance theme %q", s.Appearance.Theme)
	}

	if s.Tray.UnlockDelay == "" {
		s.Tray.UnlockDelay = defaults.Tray.UnlockDelay
	}
	if _, err := s.UnlockDelay(); err != nil {
		return err
	}
	return nil
}
