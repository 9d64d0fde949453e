// Package models contains shared data structures used across the application.
package models

// VaultEntry represents an entry in the vaults.yaml registry.
type VaultEntry struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// VaultsIndex represents the vaults.yaml file. Order is menu display order.
type VaultsIndex struct {
	Version int          `yaml:"version"`
	Vaults  []VaultEntry `yaml:"vaults"`
}

// NewVaultsIndex creates a new empty vaults index.
func NewVaultsIndex() *VaultsIndex {
	return &VaultsIndex{
		Version: 1,
		Vaults:  []VaultEntry{},
	}
}

// AddVault appends a vault to the index.
func (idx *VaultsIndex) AddVault(entry VaultEntry) {
	idx.Vaults = append(idx.Vaults, entry)
}

// RemoveVault removes a vault from the index by ID.
func (idx *VaultsIndex) RemoveVault(id string) bool {
	for i, v := range idx.Vaults {
		if v.ID == id {
			idx.Vaults = append(idx.Vaults[:i], idx.Vaults[i+1:]...)
			return true
		}
	}
	return false
}

// FindVault finds a vault by ID in the index.
func (idx *VaultsIndex) FindVault(id string) *VaultEntry {
	for i := range idx.Vaults {
		if idx.Vaults[i].ID == id {
			return &idx.Vaults[i]
		}
	}
	return nil
}

// FindVaultByPath finds a vault by path in the index.
func (idx *VaultsIndex) FindVaultByPath(path string) *VaultEntry {
	for i := range idx.Vaults {
		if idx.Vaults[i].Path == path {
			return &idx.Vaults[i]
		}
	}
	return nil
}
