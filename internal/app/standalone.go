package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/pkg/browser"
	"go.uber.org/zap"

	"github.com/cryptomator/cryptomator-tray/internal/vault"
)

// Standalone is the Application used when the tray runs without the desktop
// application. Workflows only move vaults through their states; there is no
// encryption engine behind them.
type Standalone struct {
	ctx          context.Context
	vaults       *vault.List
	delay        time.Duration
	configDir    string
	settingsFile string
	logger       *zap.SugaredLogger

	// Open shows a file or directory in the desktop's default application.
	Open func(path string) error

	wg sync.WaitGroup
}

// StandaloneOptions configure NewStandalone.
type StandaloneOptions struct {
	Vaults       *vault.List
	Delay        time.Duration
	ConfigDir    string
	SettingsFile string
	Logger       *zap.SugaredLogger
}

// NewStandalone creates the standalone application. Workflows stop early when
// ctx is done.
func NewStandalone(ctx context.Context, opts StandaloneOptions) *Standalone {
	return &Standalone{
		ctx:          ctx,
		vaults:       opts.Vaults,
		delay:        opts.Delay,
		configDir:    opts.ConfigDir,
		settingsFile: opts.SettingsFile,
		logger:       opts.Logger,
		Open:         browser.OpenFile,
	}
}

func origin(opts *WorkflowOptions) string {
	if opts == nil || opts.Origin == "" {
		return "unspecified"
	}
	return opts.Origin
}

// StartUnlockWorkflow unlocks v in the background.
func (s *Standalone) StartUnlockWorkflow(v *vault.Vault, opts *WorkflowOptions) {
	s.logger.Infow("Unlock requested", "vault", v.DisplayName(), "origin", origin(opts))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.transition(v, vault.StateLocked, vault.StateUnlocked); err != nil {
			s.logger.Warnw("Unlock failed", "vault", v.DisplayName(), "error", err)
		}
	}()
}

// StartLockWorkflow locks v in the background.
func (s *Standalone) StartLockWorkflow(v *vault.Vault, opts *WorkflowOptions) {
	s.logger.Infow("Lock requested", "vault", v.DisplayName(), "origin", origin(opts))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.transition(v, vault.StateUnlocked, vault.StateLocked); err != nil {
			s.logger.Warnw("Lock failed", "vault", v.DisplayName(), "error", err)
		}
	}()
}

// transition moves v from → processing → to. A vault that was removed from
// the list or is no longer in state from is left alone.
func (s *Standalone) transition(v *vault.Vault, from, to vault.State) error {
	if s.vaults != nil && s.vaults.Get(v.ID()) != v {
		return fmt.Errorf("vault %s is no longer registered", v.ID())
	}
	if from == vault.StateLocked {
		if _, err := os.Stat(v.Path()); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				v.CompareAndSetState(from, vault.StateMissing)
			}
			return fmt.Errorf("vault storage unavailable: %w", err)
		}
	}
	if !v.CompareAndSetState(from, vault.StateProcessing) {
		return fmt.Errorf("vault is %s, expected %s", v.State(), from)
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-s.ctx.Done():
		v.CompareAndSetState(vault.StateProcessing, from)
		return s.ctx.Err()
	}

	v.CompareAndSetState(vault.StateProcessing, to)
	s.logger.Infow("Vault state changed", "vault", v.DisplayName(), "state", to)
	return nil
}

// LockAll locks every unlocked vault in vaults without delay.
func (s *Standalone) LockAll(ctx context.Context, vaults []*vault.Vault, force bool) error {
	s.logger.Infow("Locking vaults", "count", len(vaults), "force", force)
	var errs []error
	for _, v := range vaults {
		if err := ctx.Err(); err != nil {
			return err
		}
		if v.CompareAndSetState(vault.StateUnlocked, vault.StateLocked) {
			continue
		}
		if v.State() == vault.StateProcessing {
			errs = append(errs, fmt.Errorf("vault %s is busy", v.DisplayName()))
		}
	}
	return errors.Join(errs...)
}

// Reveal opens the vault location in the file manager.
func (s *Standalone) Reveal(v *vault.Vault) error {
	if !v.IsUnlocked() {
		return fmt.Errorf("reveal %s: %w", v.DisplayName(), ErrNotUnlocked)
	}
	if err := s.Open(v.Path()); err != nil {
		return fmt.Errorf("reveal %s: %w", v.DisplayName(), err)
	}
	return nil
}

// ShowMainWindow opens the configuration directory; the standalone tray has
// no window of its own.
func (s *Standalone) ShowMainWindow() {
	if err := s.Open(s.configDir); err != nil {
		s.logger.Errorw("Failed to show main window", "error", err)
	}
}

// ShowPreferencesWindow opens settings.yaml in the default editor.
func (s *Standalone) ShowPreferencesWindow(tab PreferencesTab) {
	target := s.settingsFile
	if _, err := os.Stat(target); err != nil {
		target = s.configDir
	}
	s.logger.Debugw("Showing preferences", "tab", tab, "path", target)
	if err := s.Open(target); err != nil {
		s.logger.Errorw("Failed to show preferences", "error", err)
	}
}

// VaultService returns s.
func (s *Standalone) VaultService() VaultService {
	return s
}

// Wait blocks until all started workflows have finished.
func (s *Standalone) Wait() {
	s.wg.Wait()
}
