package tray

import (
	"runtime"
	"sync"

	"fyne.io/systray"
	"go.uber.org/zap"
)

// SystrayHost runs the native system tray.
type SystrayHost struct {
	logger *zap.SugaredLogger
}

// NewSystrayHost creates the native tray host.
func NewSystrayHost(logger *zap.SugaredLogger) *SystrayHost {
	return &SystrayHost{logger: logger}
}

// Run starts the tray event loop. This blocks the calling goroutine, which
// must be the main goroutine.
func (h *SystrayHost) Run(onReady, onExit func()) {
	systray.Run(onReady, onExit)
}

// Quit signals the tray to exit.
func (h *SystrayHost) Quit() {
	systray.Quit()
}

// Acquire checks that the desktop provides a tray and returns its surface.
func (h *SystrayHost) Acquire() (Surface, error) {
	if err := probeTray(); err != nil {
		return nil, err
	}
	if runtime.GOOS != "darwin" {
		systray.SetTitle(AppName)
	}
	return &systraySurface{logger: h.logger}, nil
}

type systraySurface struct {
	logger *zap.SugaredLogger

	mu   sync.Mutex
	done chan struct{}
}

func (s *systraySurface) SetIcon(img []byte) {
	if runtime.GOOS == "darwin" {
		systray.SetTemplateIcon(img, img)
		return
	}
	systray.SetIcon(img)
}

func (s *systraySurface) SetTooltip(text string) {
	systray.SetTooltip(text)
}

func (s *systraySurface) SetOnActivate(fn func()) {
	systray.SetOnTapped(fn)
}

// SetMenu removes every native item and installs m. Click watchers of the
// previous menu exit when its done channel closes.
func (s *systraySurface) SetMenu(m Menu) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		close(s.done)
	}
	done := make(chan struct{})
	s.done = done

	systray.ResetMenu()
	for _, e := range m {
		s.add(nil, e, done)
	}
}

func (s *systraySurface) add(parent *systray.MenuItem, e Entry, done <-chan struct{}) {
	switch e.Kind {
	case KindSeparator:
		if parent != nil {
			s.logger.Debugw("Skipping separator inside submenu", "parent", e.Key)
			return
		}
		systray.AddSeparator()
	case KindSubmenu:
		item := newItem(parent, e.Label)
		for _, child := range e.Children {
			s.add(item, child, done)
		}
	case KindAction:
		item := newItem(parent, e.Label)
		if !e.Enabled {
			item.Disable()
		}
		go watchClicks(item, e, done)
	}
}

func newItem(parent *systray.MenuItem, label string) *systray.MenuItem {
	if parent == nil {
		return systray.AddMenuItem(label, "")
	}
	return parent.AddSubMenuItem(label, "")
}

// watchClicks dispatches clicks on item until its menu is replaced. Remove
// closes ClickedCh, so a closed channel ends the watcher without a click.
func watchClicks(item *systray.MenuItem, e Entry, done <-chan struct{}) {
	for {
		select {
		case _, ok := <-item.ClickedCh:
			if !ok {
				return
			}
			select {
			case <-done:
				return
			default:
			}
			e.Click()
		case <-done:
			return
		}
	}
}
