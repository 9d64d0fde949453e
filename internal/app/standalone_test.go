package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/cryptomator/cryptomator-tray/internal/vault"
)

func newTestStandalone(t *testing.T) (*Standalone, *vault.List, *[]string) {
	t.Helper()
	list := vault.NewList()
	s := NewStandalone(context.Background(), StandaloneOptions{
		Vaults:       list,
		ConfigDir:    t.TempDir(),
		SettingsFile: filepath.Join(t.TempDir(), "settings.yaml"),
		Logger:       zaptest.NewLogger(t).Sugar(),
	})
	var opened []string
	s.Open = func(path string) error {
		opened = append(opened, path)
		return nil
	}
	return s, list, &opened
}

func TestStandaloneUnlockAndLock(t *testing.T) {
	s, list, _ := newTestStandalone(t)
	v := vault.New("a", "Work", t.TempDir(), vault.StateLocked)
	list.Add(v)

	s.StartUnlockWorkflow(v, nil)
	s.Wait()
	if got := v.State(); got != vault.StateUnlocked {
		t.Fatalf("after unlock: got %s, want %s", got, vault.StateUnlocked)
	}

	s.StartLockWorkflow(v, &WorkflowOptions{Origin: "test"})
	s.Wait()
	if got := v.State(); got != vault.StateLocked {
		t.Errorf("after lock: got %s, want %s", got, vault.StateLocked)
	}
}

func TestStandaloneUnlockMissingStorage(t *testing.T) {
	s, list, _ := newTestStandalone(t)
	v := vault.New("a", "Gone", filepath.Join(t.TempDir(), "nope"), vault.StateLocked)
	list.Add(v)

	s.StartUnlockWorkflow(v, nil)
	s.Wait()
	if got := v.State(); got != vault.StateMissing {
		t.Errorf("got %s, want %s", got, vault.StateMissing)
	}
}

func TestStandaloneIgnoresUnregisteredVault(t *testing.T) {
	s, _, _ := newTestStandalone(t)
	v := vault.New("a", "Stray", t.TempDir(), vault.StateLocked)

	s.StartUnlockWorkflow(v, nil)
	s.Wait()
	if got := v.State(); got != vault.StateLocked {
		t.Errorf("got %s, want %s", got, vault.StateLocked)
	}
}

func TestStandaloneLockAll(t *testing.T) {
	s, _, _ := newTestStandalone(t)
	a := vault.New("a", "A", "/a", vault.StateUnlocked)
	b := vault.New("b", "B", "/b", vault.StateLocked)
	c := vault.New("c", "C", "/c", vault.StateProcessing)

	err := s.LockAll(context.Background(), []*vault.Vault{a, b}, false)
	if err != nil {
		t.Fatalf("LockAll: %v", err)
	}
	if a.State() != vault.StateLocked || b.State() != vault.StateLocked {
		t.Errorf("states: got %s, %s, want locked", a.State(), b.State())
	}

	if err := s.LockAll(context.Background(), []*vault.Vault{c}, true); err == nil {
		t.Error("LockAll on busy vault: expected error")
	}
}

func TestStandaloneReveal(t *testing.T) {
	s, _, opened := newTestStandalone(t)
	locked := vault.New("a", "A", "/vaults/a", vault.StateLocked)
	if err := s.Reveal(locked); !errors.Is(err, ErrNotUnlocked) {
		t.Errorf("got %v, want ErrNotUnlocked", err)
	}

	unlocked := vault.New("b", "B", "/vaults/b", vault.StateUnlocked)
	if err := s.Reveal(unlocked); err != nil {
		t.Fatalf("Reveal: %v", err)
	}
	if len(*opened) != 1 || (*opened)[0] != "/vaults/b" {
		t.Errorf("opened: got %v, want [/vaults/b]", *opened)
	}
}

func TestStandaloneShowPreferencesFallsBackToConfigDir(t *testing.T) {
	s, _, opened := newTestStandalone(t)
	s.ShowPreferencesWindow(TabGeneral)
	if len(*opened) != 1 || (*opened)[0] != s.configDir {
		t.Errorf("opened: got %v, want [%s]", *opened, s.configDir)
	}
}
