// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the global Cryptomator directory.
	GlobalDirName = ".cryptomator"

	// LogsDirName is the name of the logs directory.
	LogsDirName = "logs"

	// HomeEnv overrides the global directory when set.
	HomeEnv = "CRYPTOMATOR_HOME"
)

// File names
const (
	InstanceFileName = "tray.yaml"
	VaultsFileName   = "vaults.yaml"
	SettingsFileName = "settings.yaml"
	LogFileName      = "tray.log"
)

// GlobalDir returns the path to the global directory (~/.cryptomator/ unless
// CRYPTOMATOR_HOME is set).
func GlobalDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

func globalFile(name string) (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// GlobalInstanceFile returns the path to the tray.yaml file.
func GlobalInstanceFile() (string, error) {
	return globalFile(InstanceFileName)
}

// GlobalVaultsFile returns the path to the vaults.yaml file.
func GlobalVaultsFile() (string, error) {
	return globalFile(VaultsFileName)
}

// GlobalSettingsFile returns the path to the settings.yaml file.
func GlobalSettingsFile() (string, error) {
	return globalFile(SettingsFileName)
}

// GlobalLogsDir returns the path to the logs directory.
func GlobalLogsDir() (string, error) {
	return globalFile(LogsDirName)
}

// GlobalLogFile returns the path to the tray log file.
func GlobalLogFile() (string, error) {
	dir, err := GlobalLogsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogFileName), nil
}

// EnsureGlobalDir creates the global directory if it doesn't exist.
func EnsureGlobalDir() error {
	dir, err := GlobalDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

// EnsureGlobalLogsDir creates the global logs directory if it doesn't exist.
func EnsureGlobalLogsDir() error {
	dir, err := GlobalLogsDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}
