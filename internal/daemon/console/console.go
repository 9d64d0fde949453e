// Package console renders the tray menu in a terminal for desktops without a
// system tray.
package console

import (
	"errors"
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/cryptomator/cryptomator-tray/internal/daemon/tray"
)

// ErrNotTerminal is returned by NewHost when stdin or stdout is not a terminal.
var ErrNotTerminal = errors.New("console mode requires a terminal")

// programRef is a shared reference to the tea.Program for goroutine sends.
// It's set after tea.NewProgram but before p.Run().
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func (r *programRef) Quit() {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

// Clear nils out the program reference, preventing post-exit sends.
func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

// Host is a tray.Host backed by a terminal UI.
type Host struct {
	ref    *programRef
	logger *zap.SugaredLogger
}

// NewHost creates a console host.
func NewHost(logger *zap.SugaredLogger) (*Host, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, ErrNotTerminal
	}
	return &Host{ref: &programRef{}, logger: logger}, nil
}

// Run shows the console until Quit or Ctrl+C.
func (h *Host) Run(onReady, onExit func()) {
	p := tea.NewProgram(newModel(), tea.WithAltScreen())
	h.ref.Set(p)

	go onReady()
	if _, err := p.Run(); err != nil {
		h.logger.Errorw("Console stopped with error", "error", err)
	}
	h.ref.Clear()
	onExit()
}

// Quit stops the console.
func (h *Host) Quit() {
	h.ref.Quit()
}

// Acquire returns the console surface.
func (h *Host) Acquire() (tray.Surface, error) {
	return &surface{ref: h.ref}, nil
}

type surface struct {
	ref *programRef
}

func (s *surface) SetIcon(img []byte) {
	s.ref.Send(iconMsg{size: len(img)})
}

func (s *surface) SetTooltip(text string) {
	s.ref.Send(tooltipMsg(text))
}

func (s *surface) SetMenu(m tray.Menu) {
	s.ref.Send(menuMsg(m))
}

type (
	iconMsg    struct{ size int }
	tooltipMsg string
	menuMsg    tray.Menu
)

func formatSize(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f KB", float64(n)/1024)
}
