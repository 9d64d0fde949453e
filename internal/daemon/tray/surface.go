package tray

import "errors"

// ErrTrayUnavailable is returned by Host.Acquire when the desktop has no
// system tray.
var ErrTrayUnavailable = errors.New("system tray is not supported")

// Surface is the tray icon handle. It is acquired once and passed to every
// component that changes the icon or the menu.
type Surface interface {
	SetIcon(img []byte)
	SetTooltip(text string)
	// SetMenu replaces the whole menu. Entries of the previous menu stop
	// delivering clicks.
	SetMenu(m Menu)
}

// Activatable is implemented by surfaces that report a primary click on the
// icon itself.
type Activatable interface {
	SetOnActivate(fn func())
}

// Host runs the tray event loop.
type Host interface {
	// Run blocks until Quit. onReady is called once the tray can be used.
	Run(onReady, onExit func())
	Quit()
	// Acquire returns the tray surface or ErrTrayUnavailable.
	Acquire() (Surface, error)
}

type nopSurface struct{}

func (nopSurface) SetIcon([]byte)    {}
func (nopSurface) SetTooltip(string) {}
func (nopSurface) SetMenu(Menu)      {}
