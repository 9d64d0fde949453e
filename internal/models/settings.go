package models

import (
	"fmt"
	"time"
)

// Appearance themes accepted in settings.yaml.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// AppearanceConfig holds appearance settings.
type AppearanceConfig struct {
	Theme string `yaml:"theme"` // "system" | "light" | "dark"
}

// TrayConfig holds tray-only settings.
type TrayConfig struct {
	// UnlockDelay is how long the standalone workflows keep a vault in the
	// processing state, e.g. "750ms".
	UnlockDelay string `yaml:"unlock_delay"`
}

// Settings represents global application settings.
// This corresponds to ~/.cryptomator/settings.yaml.
type Settings struct {
	Version    int              `yaml:"version"`
	Locale     string           `yaml:"locale"` // empty = use $LANG
	Appearance AppearanceConfig `yaml:"appearance"`
	Tray       TrayConfig       `yaml:"tray"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Locale:  "",
		Appearance: AppearanceConfig{
			Theme: ThemeSystem,
		},
		Tray: TrayConfig{
			UnlockDelay: "750ms",
		},
	}
}

// UnlockDelay parses Tray.UnlockDelay.
func (s *Settings) UnlockDelay() (time.Duration, error) {
	d, err := time.ParseDuration(s.Tray.UnlockDelay)
	if err != nil {
		return 0, fmt.Errorf("invalid tray unlock delay %q: %w", s.Tray.UnlockDelay, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid tray unlock delay %q: negative", s.Tray.UnlockDelay)
	}
	return d, nil
}
