package models

import "time"

// InstanceInfo describes the running tray process.
// This corresponds to ~/.cryptomator/tray.yaml.
type InstanceInfo struct {
	Version   int       `yaml:"version"`
	PID       int       `yaml:"pid"`
	Console   bool      `yaml:"console"`
	StartedAt time.Time `yaml:"started_at"`
}

// NewInstanceInfo creates instance info for the given process.
func NewInstanceInfo(pid int, console bool) *InstanceInfo {
	return &InstanceInfo{
		Version:   1,
		PID:       pid,
		Console:   console,
		StartedAt: time.Now().UTC(),
	}
}
