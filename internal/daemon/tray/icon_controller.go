package tray

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/cryptomator/cryptomator-tray/internal/appearance"
)

// ErrAlreadyInitialized is returned when the tray icon is initialized twice.
var ErrAlreadyInitialized = errors.New("tray icon already initialized")

type surfaceRef struct{ Surface }

// IconController owns the tray icon. It registers the icon once and repaints
// it when the desktop theme changes.
type IconController struct {
	host       Host
	images     ImageProvider
	appearance appearance.Provider
	menu       *MenuController
	logger     *zap.SugaredLogger
	// activateShowsMainWindow opens the main window when the icon is clicked.
	activateShowsMainWindow bool

	mu          sync.Mutex
	initialized atomic.Bool
	surface     atomic.Pointer[surfaceRef]
}

// NewIconController creates an icon controller. provider may be nil when the
// desktop theme cannot be observed.
func NewIconController(host Host, images ImageProvider, provider appearance.Provider, menu *MenuController, logger *zap.SugaredLogger) *IconController {
	return &IconController{
		host:       host,
		images:     images,
		appearance: provider,
		menu:       menu,
		logger:     logger,

		activateShowsMainWindow: runtime.GOOS == "windows",
	}
}

// Initialize registers the tray icon and renders the menu. Calling it again
// returns ErrAlreadyInitialized.
func (c *IconController) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized.Load() {
		return ErrAlreadyInitialized
	}

	if c.appearance != nil {
		if err := c.appearance.AddListener(c.themeChanged); err != nil {
			c.logger.Errorw("Failed to enable automatic tray icon theme switching", "error", err)
		}
	}

	surface, err := c.host.Acquire()
	if err != nil {
		c.logger.Errorw("Tray icon unavailable, continuing without it", "error", err)
		surface = nopSurface{}
	}
	c.surface.Store(&surfaceRef{surface})

	surface.SetIcon(c.images.LoadImage())
	surface.SetTooltip(AppName)
	if a, ok := surface.(Activatable); ok && c.activateShowsMainWindow {
		a.SetOnActivate(c.menu.ShowMainWindow)
	}
	c.menu.InitTrayMenu(ctx, surface)

	c.initialized.Store(true)
	c.logger.Info("Tray icon initialized")
	return nil
}

// IsInitialized reports whether Initialize has completed.
func (c *IconController) IsInitialized() bool {
	return c.initialized.Load()
}

// themeChanged ignores theme and lets the image provider query the current
// theme.
func (c *IconController) themeChanged(theme appearance.Theme) {
	ref := c.surface.Load()
	if ref == nil {
		return
	}
	c.logger.Debugw("Theme changed, repainting tray icon", "theme", theme)
	ref.SetIcon(c.images.LoadImage())
}
