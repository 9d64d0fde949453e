// Package daemon wires the tray controllers to the vault list, the
// configuration files and the application launcher.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cryptomator/cryptomator-tray/internal/app"
	"github.com/cryptomator/cryptomator-tray/internal/appearance"
	"github.com/cryptomator/cryptomator-tray/internal/config"
	"github.com/cryptomator/cryptomator-tray/internal/daemon/tray"
	"github.com/cryptomator/cryptomator-tray/internal/daemon/watcher"
	"github.com/cryptomator/cryptomator-tray/internal/i18n"
	"github.com/cryptomator/cryptomator-tray/internal/launcher"
	"github.com/cryptomator/cryptomator-tray/internal/models"
	"github.com/cryptomator/cryptomator-tray/internal/vault"
)

// quitLockTimeout bounds how long quitting waits to lock vaults.
const quitLockTimeout = 10 * time.Second

// Daemon runs the tray until the user quits.
type Daemon struct {
	host    tray.Host
	console bool
	logger  *zap.SugaredLogger

	vaults    *vault.List
	lifecycle *launcher.Lifecycle
	starter   *launcher.Starter
	// manual is set when settings.yaml pins the theme.
	manual *appearance.Manual
}

// New creates a daemon that shows the tray through host.
func New(host tray.Host, console bool, logger *zap.SugaredLogger) *Daemon {
	return &Daemon{
		host:      host,
		console:   console,
		logger:    logger,
		vaults:    vault.NewList(),
		lifecycle: launcher.NewLifecycle(logger.Named("lifecycle")),
	}
}

// Run blocks until the tray exits. It must be called on the main goroutine.
func (d *Daemon) Run(ctx context.Context) error {
	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	running, info, err := config.IsTrayRunning()
	if err != nil {
		return fmt.Errorf("failed to check tray status: %w", err)
	}
	if running {
		return fmt.Errorf("tray already running (PID %d)", info.PID)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	delay, err := settings.UnlockDelay()
	if err != nil {
		return fmt.Errorf("invalid unlock delay: %w", err)
	}

	bundle, err := i18n.LoadPreferred(append([]string{settings.Locale}, i18n.SystemLocales()...)...)
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}
	d.logger.Debugw("Loaded translations", "language", bundle.Language())

	if err := d.reloadVaults(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	configDir, err := config.GlobalDir()
	if err != nil {
		return err
	}
	settingsFile, err := config.GlobalSettingsFile()
	if err != nil {
		return err
	}
	d.starter = launcher.NewStarter(ctx, func(ctx context.Context) (app.Application, error) {
		return app.NewStandalone(ctx, app.StandaloneOptions{
			Vaults:       d.vaults,
			Delay:        delay,
			ConfigDir:    configDir,
			SettingsFile: settingsFile,
			Logger:       d.logger.Named("app"),
		}), nil
	}, d.logger.Named("launcher"))

	// Hooks run in reverse: vaults are locked before the tray goes away.
	d.lifecycle.OnQuit(d.host.Quit)
	d.lifecycle.OnQuit(func() { d.lockUnlockedVaults(ctx) })

	if err := config.SaveInstanceInfo(models.NewInstanceInfo(os.Getpid(), d.console)); err != nil {
		return fmt.Errorf("failed to write instance info: %w", err)
	}
	defer func() {
		if err := config.RemoveInstanceInfo(); err != nil {
			d.logger.Warnw("Failed to remove instance info", "error", err)
		}
	}()

	provider := d.themeProvider(settings)
	menu := tray.NewMenuController(d.vaults, d.starter, d.lifecycle, bundle, d.logger.Named("menu"))
	icon := tray.NewIconController(d.host, tray.NewImageFactory(provider), provider, menu, d.logger.Named("icon"))

	w, err := watcher.New(configDir, d.logger.Named("watcher"))
	if err != nil {
		return err
	}
	defer w.Stop()

	g, gctx := errgroup.WithContext(ctx)

	initErr := make(chan error, 1)
	onReady := func() {
		if err := icon.Initialize(gctx); err != nil {
			d.logger.Errorw("Failed to initialize tray icon", "error", err)
			initErr <- fmt.Errorf("failed to initialize tray icon: %w", err)
			d.host.Quit()
			return
		}
		if err := w.Start(); err != nil {
			d.logger.Warnw("Configuration changes will not be picked up", "error", err)
		}
		d.logger.Infow("Tray started", "pid", os.Getpid(), "vaults", d.vaults.Len(), "console", d.console)

		g.Go(func() error { return d.watch(gctx, w.Events()) })
		g.Go(func() error { return d.handleSignals(gctx) })
	}
	onExit := func() {
		d.logger.Info("Tray stopped")
	}

	// This blocks the main goroutine until the tray exits.
	d.host.Run(onReady, onExit)

	d.lifecycle.Quit()
	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	select {
	case err := <-initErr:
		return err
	default:
		return nil
	}
}

// themeProvider returns the appearance provider for the icon, or nil when the
// desktop theme cannot be observed.
func (d *Daemon) themeProvider(settings *models.Settings) appearance.Provider {
	if theme, ok := appearance.ThemeFromSetting(settings.Appearance.Theme); ok {
		d.manual = appearance.NewManual(theme)
		return d.manual
	}

	provider, err := appearance.NewSystem()
	if err != nil {
		if errors.Is(err, appearance.ErrUnsupported) {
			d.logger.Debug("Desktop theme detection not supported on this platform")
		} else {
			d.logger.Warnw("Desktop theme detection unavailable", "error", err)
		}
		return nil
	}
	return provider
}

func (d *Daemon) reloadVaults() error {
	index, err := config.LoadVaultsIndex()
	if err != nil {
		return fmt.Errorf("failed to load vaults: %w", err)
	}
	d.vaults.Reconcile(index.Vaults)
	return nil
}

func (d *Daemon) reloadSettings() error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	theme, ok := appearance.ThemeFromSetting(settings.Appearance.Theme)
	switch {
	case d.manual != nil && ok:
		d.manual.SetTheme(theme)
	case (d.manual != nil) != ok:
		d.logger.Infow("Theme source changed, restart the tray to apply it", "theme", settings.Appearance.Theme)
	}
	return nil
}

// watch applies configuration changes until ctx is done.
func (d *Daemon) watch(ctx context.Context, events <-chan watcher.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			d.handleEvent(ev)
		}
	}
}

func (d *Daemon) handleEvent(ev watcher.Event) {
	var err error
	switch ev.Type {
	case watcher.EventVaultsChanged:
		err = d.reloadVaults()
	case watcher.EventSettingsChanged:
		err = d.reloadSettings()
	}
	if err != nil {
		// Keep the last good state; the next save triggers another reload.
		d.logger.Warnw("Ignoring invalid configuration change", "path", ev.Path, "error", err)
	}
}

func (d *Daemon) handleSignals(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
	case sig := <-sigCh:
		d.logger.Infow("Received signal, shutting down", "signal", sig)
		d.lifecycle.Quit()
	}
	return nil
}

// lockUnlockedVaults locks every unlocked vault before the process exits.
func (d *Daemon) lockUnlockedVaults(ctx context.Context) {
	unlocked := d.vaults.Unlocked()
	if len(unlocked) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, quitLockTimeout)
	defer cancel()
	a, err := d.starter.Get().Wait(ctx)
	if err != nil {
		d.logger.Errorw("Cannot lock vaults on quit", "error", err)
		return
	}
	if err := a.VaultService().LockAll(ctx, unlocked, false); err != nil {
		d.logger.Errorw("Failed to lock vaults on quit", "count", len(unlocked), "error", err)
		return
	}
	d.logger.Infow("Locked vaults on quit", "count", len(unlocked))
}
