// Package tray keeps the system tray icon and its menu in sync with the vault
// list and the desktop theme.
package tray

import (
	"github.com/cryptomator/cryptomator-tray/internal/app"
	"github.com/cryptomator/cryptomator-tray/internal/launcher"
)

// AppName is the tray icon name and tooltip.
const AppName = "Cryptomator"

// ImageProvider renders the tray icon for the current theme.
type ImageProvider interface {
	LoadImage() []byte
}

// Strings resolves localized menu labels.
type Strings interface {
	Get(key string) string
}

// Lifecycle terminates the application.
type Lifecycle interface {
	Quit()
}

// AppStarter gives access to the application once it has started.
type AppStarter interface {
	Get() *launcher.Future[app.Application]
}
