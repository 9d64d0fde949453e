// Package vault holds the shared, observable vault collection the tray menu is
// projected from.
package vault

import "sync"

// State is the lifecycle state of a vault.
type State string

// Vault states.
const (
	StateLocked         State = "locked"
	StateProcessing     State = "processing"
	StateUnlocked       State = "unlocked"
	StateMissing        State = "missing"
	StateNeedsMigration State = "needs_migration"
	StateError          State = "error"
)

// Vault is a single vault. Identity and path are fixed; name and state may
// change and every change is published by the owning List.
type Vault struct {
	id   string
	path string

	mu       sync.RWMutex
	name     string
	state    State
	onChange func(*Vault, ChangeKind)
}

// New creates a vault in the given state. It is not observed until added to a List.
func New(id, name, path string, state State) *Vault {
	return &Vault{
		id:    id,
		name:  name,
		path:  path,
		state: state,
	}
}

// ID returns the vault's identity.
func (v *Vault) ID() string { return v.id }

// Path returns the vault's storage path.
func (v *Vault) Path() string { return v.path }

// DisplayName returns the name shown in menus.
func (v *Vault) DisplayName() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.name
}

// State returns the current state.
func (v *Vault) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// IsLocked reports whether the vault is locked.
func (v *Vault) IsLocked() bool { return v.State() == StateLocked }

// IsUnlocked reports whether the vault is unlocked.
func (v *Vault) IsUnlocked() bool { return v.State() == StateUnlocked }

// SetState changes the state and notifies observers if it differs.
func (v *Vault) SetState(s State) {
	v.mu.Lock()
	if v.state == s {
		v.mu.Unlock()
		return
	}
	v.state = s
	notify := v.onChange
	v.mu.Unlock()

	if notify != nil {
		notify(v, ChangeState)
	}
}

// CompareAndSetState sets the state to next only if it currently is from.
func (v *Vault) CompareAndSetState(from, next State) bool {
	v.mu.Lock()
	if v.state != from {
		v.mu.Unlock()
		return false
	}
	v.state = next
	notify := v.onChange
	v.mu.Unlock()

	if notify != nil && from != next {
		notify(v, ChangeState)
	}
	return true
}

// SetDisplayName renames the vault and notifies observers if it differs.
func (v *Vault) SetDisplayName(name string) {
	v.mu.Lock()
	if v.name == name {
		v.mu.Unlock()
		return
	}
	v.name = name
	notify := v.onChange
	v.mu.Unlock()

	if notify != nil {
		notify(v, ChangeRenamed)
	}
}

func (v *Vault) observe(fn func(*Vault, ChangeKind)) {
	v.mu.Lock()
	v.onChange = fn
	v.mu.Unlock()
}

func (v *Vault) String() string {
	return v.DisplayName() + " (" + v.id + ")"
}
