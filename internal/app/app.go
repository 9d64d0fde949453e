// Package app defines the application surface the tray drives, and a
// standalone implementation for running the tray on its own.
package app

import (
	"context"
	"errors"

	"github.com/cryptomator/cryptomator-tray/internal/vault"
)

// PreferencesTab selects the tab shown when the preferences window opens.
type PreferencesTab int

// Preferences tabs. TabAny keeps whichever tab was shown last.
const (
	TabAny PreferencesTab = iota
	TabGeneral
	TabInterface
	TabVolume
	TabUpdates
	TabAbout
)

func (t PreferencesTab) String() string {
	switch t {
	case TabGeneral:
		return "general"
	case TabInterface:
		return "interface"
	case TabVolume:
		return "volume"
	case TabUpdates:
		return "updates"
	case TabAbout:
		return "about"
	default:
		return "any"
	}
}

// WorkflowOptions tune a lock or unlock workflow. A nil value means defaults.
type WorkflowOptions struct {
	// Origin names the UI element that requested the workflow, for logging.
	Origin string
}

// ErrNotUnlocked is returned for operations that need an unlocked vault.
var ErrNotUnlocked = errors.New("vault is not unlocked")

// VaultService performs vault operations that do not need a window.
type VaultService interface {
	// LockAll locks the given vaults as one batch. With force, vaults with
	// open files are locked anyway.
	LockAll(ctx context.Context, vaults []*vault.Vault, force bool) error
	// Reveal opens the unlocked vault's contents in the file manager.
	Reveal(v *vault.Vault) error
}

// Application is the fully started main application.
type Application interface {
	StartUnlockWorkflow(v *vault.Vault, opts *WorkflowOptions)
	StartLockWorkflow(v *vault.Vault, opts *WorkflowOptions)
	ShowMainWindow()
	ShowPreferencesWindow(tab PreferencesTab)
	VaultService() VaultService
}
