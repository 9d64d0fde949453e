package tray

import (
	"context"

	"go.uber.org/zap"

	"github.com/cryptomator/cryptomator-tray/internal/app"
	"github.com/cryptomator/cryptomator-tray/internal/i18n"
	"github.com/cryptomator/cryptomator-tray/internal/vault"
)

const menuOrigin = "tray"

// MenuController owns the tray menu. It rebuilds the menu from a snapshot of
// the vault list on every change and forwards clicks to the application.
type MenuController struct {
	vaults    *vault.List
	starter   AppStarter
	lifecycle Lifecycle
	strings   Strings
	logger    *zap.SugaredLogger
}

// NewMenuController creates a menu controller for vaults.
func NewMenuController(vaults *vault.List, starter AppStarter, lifecycle Lifecycle, strings Strings, logger *zap.SugaredLogger) *MenuController {
	return &MenuController{
		vaults:    vaults,
		starter:   starter,
		lifecycle: lifecycle,
		strings:   strings,
		logger:    logger,
	}
}

// InitTrayMenu renders the menu onto surface and keeps it current until ctx
// is done. It must be called once.
func (c *MenuController) InitTrayMenu(ctx context.Context, surface Surface) {
	changes, cancel := c.vaults.Subscribe()
	c.rebuild(ctx, surface)
	go c.consume(ctx, surface, changes, cancel)
}

// consume is the only goroutine that touches the menu after the first render.
func (c *MenuController) consume(ctx context.Context, surface Surface, changes <-chan vault.Change, cancel func()) {
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case ch, ok := <-changes:
			if !ok {
				return
			}
			pending := 1
		drain:
			for {
				select {
				case _, ok := <-changes:
					if !ok {
						break drain
					}
					pending++
				default:
					break drain
				}
			}
			c.logger.Debugw("Rebuilding tray menu", "change", ch.Kind, "vault", ch.VaultID, "coalesced", pending)
			c.rebuild(ctx, surface)
		}
	}
}

func (c *MenuController) rebuild(ctx context.Context, surface Surface) {
	surface.SetMenu(c.buildMenu(ctx, c.vaults.Snapshot()))
}

// buildMenu derives the menu from vaults. It is O(len(vaults)).
func (c *MenuController) buildMenu(ctx context.Context, vaults []*vault.Vault) Menu {
	menu := Menu{
		action(i18n.KeyShowMainWindow, c.strings.Get(i18n.KeyShowMainWindow), c.ShowMainWindow),
		action(i18n.KeyShowPreferencesWindow, c.strings.Get(i18n.KeyShowPreferencesWindow), c.showPreferencesWindow),
	}

	if len(vaults) > 0 {
		menu = append(menu, separator())
		for _, v := range vaults {
			menu = append(menu, c.vaultSubmenu(v))
		}
		menu = append(menu, separator())
	}

	anyUnlocked := false
	for _, v := range vaults {
		if v.IsUnlocked() {
			anyUnlocked = true
			break
		}
	}
	lockAll := action(i18n.KeyLockAllVaults, c.strings.Get(i18n.KeyLockAllVaults), func() { c.lockAllVaults(ctx) })
	lockAll.Enabled = anyUnlocked

	return append(menu,
		lockAll,
		action(i18n.KeyQuitApplication, c.strings.Get(i18n.KeyQuitApplication), c.lifecycle.Quit),
	)
}

func (c *MenuController) vaultSubmenu(v *vault.Vault) Entry {
	var children []Entry
	switch {
	case v.IsLocked():
		children = []Entry{
			action(i18n.KeyVaultUnlock, c.strings.Get(i18n.KeyVaultUnlock), func() { c.unlockVault(v) }),
		}
	case v.IsUnlocked():
		children = []Entry{
			action(i18n.KeyVaultLock, c.strings.Get(i18n.KeyVaultLock), func() { c.lockVault(v) }),
			action(i18n.KeyVaultReveal, c.strings.Get(i18n.KeyVaultReveal), func() { c.revealVault(v) }),
		}
	}
	return submenu(v.ID(), v.DisplayName(), children)
}

func (c *MenuController) withApp(fn func(app.Application)) {
	c.starter.Get().Then(fn)
}

// ShowMainWindow asks the application to show its main window.
func (c *MenuController) ShowMainWindow() {
	c.withApp(func(a app.Application) { a.ShowMainWindow() })
}

func (c *MenuController) showPreferencesWindow() {
	c.withApp(func(a app.Application) { a.ShowPreferencesWindow(app.TabAny) })
}

func (c *MenuController) unlockVault(v *vault.Vault) {
	c.withApp(func(a app.Application) {
		a.StartUnlockWorkflow(v, &app.WorkflowOptions{Origin: menuOrigin})
	})
}

func (c *MenuController) lockVault(v *vault.Vault) {
	c.withApp(func(a app.Application) {
		a.StartLockWorkflow(v, &app.WorkflowOptions{Origin: menuOrigin})
	})
}

func (c *MenuController) revealVault(v *vault.Vault) {
	c.withApp(func(a app.Application) {
		if err := a.VaultService().Reveal(v); err != nil {
			c.logger.Warnw("Failed to reveal vault", "vault", v.DisplayName(), "error", err)
		}
	})
}

func (c *MenuController) lockAllVaults(ctx context.Context) {
	c.withApp(func(a app.Application) {
		unlocked := c.vaults.Unlocked()
		if err := a.VaultService().LockAll(ctx, unlocked, false); err != nil {
			c.logger.Warnw("Failed to lock all vaults", "count", len(unlocked), "error", err)
		}
	})
}
