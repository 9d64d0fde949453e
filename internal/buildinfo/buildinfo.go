// Package buildinfo holds version information injected at build time via
// -ldflags "-X github.com/cryptomator/cryptomator-tray/internal/buildinfo.Version=...".
package buildinfo

import "fmt"

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Short returns "version (commit)", with the commit cut to seven characters.
func Short() string {
	commit := CommitHash
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", Version, commit)
}
