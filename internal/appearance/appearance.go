// Package appearance reports the desktop's light/dark theme and notifies
// listeners when it changes.
package appearance

import (
	"errors"
	"sync"

	"github.com/cryptomator/cryptomator-tray/internal/models"
)

// Theme is the interface theme of the desktop.
type Theme int

// Themes.
const (
	Light Theme = iota
	Dark
)

func (t Theme) String() string {
	if t == Dark {
		return "dark"
	}
	return "light"
}

// ErrUnsupported is returned when the platform offers no theme integration.
var ErrUnsupported = errors.New("appearance: theme detection not supported on this platform")

// Provider reports the current theme and delivers changes. Listeners are
// called on an unspecified goroutine.
type Provider interface {
	CurrentTheme() Theme
	AddListener(fn func(Theme)) error
}

// Manual is a Provider whose theme is set explicitly, e.g. from settings.yaml.
type Manual struct {
	mu        sync.RWMutex
	theme     Theme
	listeners []func(Theme)
}

// NewManual creates a provider fixed to theme until SetTheme is called.
func NewManual(theme Theme) *Manual {
	return &Manual{theme: theme}
}

// CurrentTheme returns the configured theme.
func (m *Manual) CurrentTheme() Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.theme
}

// AddListener registers fn. It never fails.
func (m *Manual) AddListener(fn func(Theme)) error {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
	return nil
}

// SetTheme changes the theme and notifies listeners if it differs.
func (m *Manual) SetTheme(theme Theme) {
	m.mu.Lock()
	if m.theme == theme {
		m.mu.Unlock()
		return
	}
	m.theme = theme
	listeners := make([]func(Theme), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(theme)
	}
}

// ThemeFromSetting maps a settings.yaml theme to a Theme. ok is false for
// "system", which must be resolved by a system provider.
func ThemeFromSetting(s string) (theme Theme, ok bool) {
	switch s {
	case models.ThemeDark:
		return Dark, true
	case models.ThemeLight:
		return Light, true
	default:
		return Light, false
	}
}
