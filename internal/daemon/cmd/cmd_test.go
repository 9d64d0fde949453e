package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cryptomator/cryptomator-tray/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	vaultName = ""
	checkUpdates = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVaultsCommands(t *testing.T) {
	t.Setenv(config.HomeEnv, t.TempDir())
	vaultDir := t.TempDir()

	out, err := execute(t, "vaults", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "No vaults registered") {
		t.Errorf("empty list output: got %q", out)
	}

	if _, err := execute(t, "vaults", "add", "--name", "Work", vaultDir); err != nil {
		t.Fatalf("add: %v", err)
	}

	index, err := config.LoadVaultsIndex()
	if err != nil {
		t.Fatalf("LoadVaultsIndex: %v", err)
	}
	if len(index.Vaults) != 1 || index.Vaults[0].Name != "Work" {
		t.Fatalf("vaults after add: got %+v", index.Vaults)
	}

	out, err = execute(t, "vaults", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"Work", index.Vaults[0].ID[:8], vaultDir} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q: %q", want, out)
		}
	}

	if _, err := execute(t, "vaults", "remove", index.Vaults[0].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := execute(t, "vaults", "remove", index.Vaults[0].ID); err == nil {
		t.Error("removing an unknown vault succeeded")
	}
}

func TestVaultsAddRejectsFiles(t *testing.T) {
	t.Setenv(config.HomeEnv, t.TempDir())
	if _, err := execute(t, "vaults", "add", "/definitely/not/here"); err == nil {
		t.Error("add of a missing path succeeded")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "cryptomator-tray") {
		t.Errorf("version output: got %q", out)
	}
}
