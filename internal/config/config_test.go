package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cryptomator/cryptomator-tray/internal/models"
)

func useTempHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)
	return dir
}

func TestLoadSettingsDefaults(t *testing.T) {
	useTempHome(t)

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.Appearance.Theme != models.ThemeSystem {
		t.Errorf("theme = %q, want %q", s.Appearance.Theme, models.ThemeSystem)
	}
	if d, err := s.UnlockDelay(); err != nil || d <= 0 {
		t.Errorf("UnlockDelay() = %v, %v; want positive duration", d, err)
	}
}

func TestLoadSettingsRejectsUnknownTheme(t *testing.T) {
	home := useTempHome(t)

	data := []byte("version: 1\nappearance:\n  theme: sepia\n")
	if err := os.WriteFile(filepath.Join(home, SettingsFileName), data, 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSettings(); err == nil {
		t.Error("LoadSettings() error = nil, want error for unknown theme")
	}
}

func TestValidateSettingsFillsDefaults(t *testing.T) {
	s := &models.Settings{Version: 1}
	if err := ValidateSettings(s); err != nil {
		t.Fatalf("ValidateSettings() error = %v", err)
	}
	if s.Appearance.Theme != models.ThemeSystem {
		t.Errorf("theme = %q, want %q", s.Appearance.Theme, models.ThemeSystem)
	}
	if s.Tray.UnlockDelay == "" {
		t.Error("unlock delay was not defaulted")
	}

	s.Tray.UnlockDelay = "-1s"
	if err := ValidateSettings(s); err == nil {
		t.Error("ValidateSettings() accepted a negative unlock delay")
	}
}

func TestRegisterAndUnregisterVault(t *testing.T) {
	useTempHome(t)
	vaultDir := t.TempDir()

	entry, err := RegisterVault("", vaultDir)
	if err != nil {
		t.Fatalf("RegisterVault() error = %v", err)
	}
	if entry.ID == "" {
		t.Error("RegisterVault() did not assign an ID")
	}
	if entry.Name != filepath.Base(vaultDir) {
		t.Errorf("name = %q, want %q", entry.Name, filepath.Base(vaultDir))
	}

	again, err := RegisterVault("Renamed", vaultDir)
	if err != nil {
		t.Fatalf("RegisterVault() second call error = %v", err)
	}
	if again.ID != entry.ID {
		t.Errorf("re-registering the same path changed the ID: got %s, want %s", again.ID, entry.ID)
	}

	index, err := LoadVaultsIndex()
	if err != nil {
		t.Fatalf("LoadVaultsIndex() error = %v", err)
	}
	if len(index.Vaults) != 1 || index.Vaults[0].Name != "Renamed" {
		t.Fatalf("index = %+v, want one vault named Renamed", index.Vaults)
	}

	removed, err := UnregisterVault(entry.ID[:8])
	if err != nil || !removed {
		t.Fatalf("UnregisterVault() = %v, %v; want true, nil", removed, err)
	}
	index, _ = LoadVaultsIndex()
	if len(index.Vaults) != 0 {
		t.Errorf("index still has %d vaults after unregister", len(index.Vaults))
	}
}

func TestLoadVaultsIndexNormalizesEntries(t *testing.T) {
	home := useTempHome(t)

	data := []byte(`version: 1
vaults:
  - path: /data/work
  - id: fixed
    name: Private
    path: /data/private
  - id: fixed
    name: Duplicate
    path: /data/dup
`)
	if err := os.WriteFile(filepath.Join(home, VaultsFileName), data, 0o600); err != nil {
		t.Fatal(err)
	}

	first, err := LoadVaultsIndex()
	if err != nil {
		t.Fatalf("LoadVaultsIndex() error = %v", err)
	}
	if len(first.Vaults) != 2 {
		t.Fatalf("got %d vaults, want 2 (duplicate ID dropped)", len(first.Vaults))
	}
	if first.Vaults[0].Name != "work" {
		t.Errorf("name = %q, want %q", first.Vaults[0].Name, "work")
	}
	if first.Vaults[0].ID == "" {
		t.Error("entry without ID was not assigned one")
	}

	second, _ := LoadVaultsIndex()
	if second.Vaults[0].ID != first.Vaults[0].ID {
		t.Error("derived ID is not stable across loads")
	}
}

func TestIsTrayRunning(t *testing.T) {
	useTempHome(t)

	running, info, err := IsTrayRunning()
	if err != nil || running || info != nil {
		t.Fatalf("IsTrayRunning() = %v, %v, %v; want false, nil, nil", running, info, err)
	}

	if err := SaveInstanceInfo(models.NewInstanceInfo(os.Getpid(), false)); err != nil {
		t.Fatal(err)
	}
	running, _, err = IsTrayRunning()
	if err != nil || running {
		t.Errorf("own PID reported as another running tray: %v, %v", running, err)
	}

	if err := RemoveInstanceInfo(); err != nil {
		t.Fatal(err)
	}
	if info, _ := LoadInstanceInfo(); info != nil {
		t.Error("instance info still present after RemoveInstanceInfo")
	}
}
