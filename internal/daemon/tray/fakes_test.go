package tray

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cryptomator/cryptomator-tray/internal/app"
	"github.com/cryptomator/cryptomator-tray/internal/launcher"
	"github.com/cryptomator/cryptomator-tray/internal/vault"
)

const waitTimeout = 2 * time.Second

type fakeSurface struct {
	mu       sync.Mutex
	icons    [][]byte
	tooltips []string
	menus    []Menu
	updated  chan struct{}
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{updated: make(chan struct{}, 256)}
}

func (s *fakeSurface) SetIcon(img []byte) {
	s.mu.Lock()
	s.icons = append(s.icons, img)
	s.mu.Unlock()
	s.notify()
}

func (s *fakeSurface) SetTooltip(text string) {
	s.mu.Lock()
	s.tooltips = append(s.tooltips, text)
	s.mu.Unlock()
}

func (s *fakeSurface) SetMenu(m Menu) {
	s.mu.Lock()
	s.menus = append(s.menus, m)
	s.mu.Unlock()
	s.notify()
}

func (s *fakeSurface) notify() {
	select {
	case s.updated <- struct{}{}:
	default:
	}
}

func (s *fakeSurface) menuCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.menus)
}

func (s *fakeSurface) iconCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.icons)
}

func (s *fakeSurface) lastMenu() Menu {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.menus) == 0 {
		return nil
	}
	return s.menus[len(s.menus)-1]
}

// waitMenu waits until the latest menu satisfies want.
func (s *fakeSurface) waitMenu(t *testing.T, want string) {
	t.Helper()
	deadline := time.After(waitTimeout)
	for {
		if got := describe(s.lastMenu()); got == want {
			return
		}
		select {
		case <-s.updated:
		case <-deadline:
			t.Fatalf("menu: got %q, want %q", describe(s.lastMenu()), want)
		}
	}
}

type fakeHost struct {
	surface Surface
	err     error
}

func (h *fakeHost) Run(onReady, onExit func()) {
	onReady()
	onExit()
}

func (h *fakeHost) Quit() {}

func (h *fakeHost) Acquire() (Surface, error) {
	if h.err != nil {
		return nil, h.err
	}
	return h.surface, nil
}

type keyStrings struct{}

func (keyStrings) Get(key string) string { return key }

type fakeLifecycle struct {
	quits atomic.Int32
}

func (l *fakeLifecycle) Quit() { l.quits.Add(1) }

type lockAllCall struct {
	vaults []*vault.Vault
	force  bool
}

type fakeApp struct {
	calls   chan string
	lockAll chan lockAllCall
}

func newFakeApp() *fakeApp {
	return &fakeApp{
		calls:   make(chan string, 16),
		lockAll: make(chan lockAllCall, 16),
	}
}

func (a *fakeApp) StartUnlockWorkflow(v *vault.Vault, opts *app.WorkflowOptions) {
	a.calls <- "unlock " + v.ID()
}

func (a *fakeApp) StartLockWorkflow(v *vault.Vault, opts *app.WorkflowOptions) {
	a.calls <- "lock " + v.ID()
}

func (a *fakeApp) ShowMainWindow() {
	a.calls <- "main window"
}

func (a *fakeApp) ShowPreferencesWindow(tab app.PreferencesTab) {
	a.calls <- "preferences " + tab.String()
}

func (a *fakeApp) VaultService() app.VaultService {
	return a
}

func (a *fakeApp) LockAll(ctx context.Context, vaults []*vault.Vault, force bool) error {
	a.lockAll <- lockAllCall{vaults: vaults, force: force}
	return nil
}

func (a *fakeApp) Reveal(v *vault.Vault) error {
	a.calls <- "reveal " + v.ID()
	return nil
}

func (a *fakeApp) nextCall(t *testing.T) string {
	t.Helper()
	select {
	case c := <-a.calls:
		return c
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for application call")
		return ""
	}
}

type futureStarter struct {
	future *launcher.Future[app.Application]
	gets   atomic.Int32
}

func readyStarter(a app.Application) *futureStarter {
	f := launcher.NewFuture[app.Application]()
	f.Complete(a)
	return &futureStarter{future: f}
}

func (s *futureStarter) Get() *launcher.Future[app.Application] {
	s.gets.Add(1)
	return s.future
}

// describe renders a menu compactly for comparisons.
func describe(m Menu) string {
	parts := make([]string, 0, len(m))
	for _, e := range m {
		parts = append(parts, describeEntry(e))
	}
	return strings.Join(parts, " | ")
}

func describeEntry(e Entry) string {
	switch e.Kind {
	case KindSeparator:
		return "---"
	case KindSubmenu:
		children := make([]string, 0, len(e.Children))
		for _, c := range e.Children {
			children = append(children, describeEntry(c))
		}
		return e.Label + "{" + strings.Join(children, ", ") + "}"
	default:
		if !e.Enabled {
			return e.Key + "(disabled)"
		}
		return e.Key
	}
}

// find returns the entry at path, where each element is a key or a submenu
// label.
func find(t *testing.T, m Menu, path ...string) Entry {
	t.Helper()
	entries := []Entry(m)
	var found Entry
	for _, p := range path {
		ok := false
		for _, e := range entries {
			if e.Key == p || (e.Kind == KindSubmenu && e.Label == p) {
				found, entries, ok = e, e.Children, true
				break
			}
		}
		if !ok {
			t.Fatalf("menu entry %v not found in %q", path, describe(m))
		}
	}
	return found
}
