package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/cryptomator/cryptomator-tray/internal/models"
)

// LoadVaultsIndex loads the vault registry from vaults.yaml.
// If the file doesn't exist, returns an empty index.
func LoadVaultsIndex() (*models.VaultsIndex, error) {
	path, err := GlobalVaultsFile()
	if err != nil {
		return nil, err
	}
	index, err := LoadYAMLOrDefault(path, models.NewVaultsIndex)
	if err != nil {
		return nil, err
	}
	normalizeVaultsIndex(index)
	return index, nil
}

// SaveVaultsIndex saves the vault registry to vaults.yaml.
func SaveVaultsIndex(index *models.VaultsIndex) error {
	if err := EnsureGlobalDir(); err != nil {
		return err
	}

	path, err := GlobalVaultsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, index)
}

// RegisterVault adds a vault at path to the registry. If a vault with the same
// path is already registered its name is updated instead.
func RegisterVault(name, path string) (*models.VaultEntry, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault path: %w", err)
	}

	index, err := LoadVaultsIndex()
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = filepath.Base(absPath)
	}

	if existing := index.FindVaultByPath(absPath); existing != nil {
		existing.Name = name
		entry := *existing
		return &entry, SaveVaultsIndex(index)
	}

	entry := models.VaultEntry{
		ID:   uuid.NewString(),
		Name: name,
		Path: absPath,
	}
	index.AddVault(entry)
	return &entry, SaveVaultsIndex(index)
}

// UnregisterVault removes a vault from the registry. ref may be an ID, an ID
// prefix of at least 8 characters, or a path.
func UnregisterVault(ref string) (bool, error) {
	index, err := LoadVaultsIndex()
	if err != nil {
		return false, err
	}

	entry := ResolveVault(index, ref)
	if entry == nil {
		return false, nil
	}
	index.RemoveVault(entry.ID)
	return true, SaveVaultsIndex(index)
}

// ResolveVault finds a vault by ID, unambiguous ID prefix, or path.
func ResolveVault(index *models.VaultsIndex, ref string) *models.VaultEntry {
	if e := index.FindVault(ref); e != nil {
		return e
	}
	if abs, err := filepath.Abs(ref); err == nil {
		if e := index.FindVaultByPath(abs); e != nil {
			return e
		}
	}
	if len(ref) < 8 {
		return nil
	}

	var match *models.VaultEntry
	for i := range index.Vaults {
		if strings.HasPrefix(index.Vaults[i].ID, ref) {
			if match != nil {
				return nil
			}
			match = &index.Vaults[i]
		}
	}
	return match
}

// normalizeVaultsIndex assigns IDs to hand-written entries, fills missing
// names, and drops duplicate IDs (first one wins).
func normalizeVaultsIndex(index *models.VaultsIndex) {
	seen := make(map[string]bool, len(index.Vaults))
	kept := index.Vaults[:0]
	for _, v := range index.Vaults {
		if v.ID == "" {
			v.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+v.Path)).String()
		}
		if seen[v.ID] {
			continue
		}
		seen[v.ID] = true
		if v.Name == "" {
			v.Name = filepath.Base(v.Path)
		}
		kept = append(kept, v)
	}
	index.Vaults = kept
}
