// Package updater checks GitHub Releases for a newer Cryptomator version.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cryptomator/cryptomator-tray/internal/buildinfo"
)

// ReleasesURL is the latest-release endpoint of the Cryptomator repository.
const ReleasesURL = "https://api.github.com/repos/cryptomator/cryptomator/releases/latest"

// ReleaseInfo contains information about a GitHub release.
type ReleaseInfo struct {
	TagName    string `json:"tag_name"`
	HTMLURL    string `json:"html_url"`
	Prerelease bool   `json:"prerelease"`
}

// UpdateResult contains the result of an update check. CurrentVersion is the
// installed desktop version the release was compared against, if any.
type UpdateResult struct {
	Available      bool
	CurrentVersion string
	LatestVersion  string
	ReleaseURL     string
}

// Checker queries a releases endpoint.
type Checker struct {
	URL    string
	Client *http.Client
}

// NewChecker returns a checker for the Cryptomator repository.
func NewChecker() *Checker {
	return &Checker{
		URL:    ReleasesURL,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Check fetches the latest published Cryptomator release and compares it with
// current, the installed desktop version. An empty current only reports the
// latest release.
func (c *Checker) Check(ctx context.Context, current string) (*UpdateResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "cryptomator-tray/"+buildinfo.Version)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch releases: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &UpdateResult{CurrentVersion: current}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned %d", resp.StatusCode)
	}

	var release ReleaseInfo
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}

	result := &UpdateResult{
		CurrentVersion: current,
		LatestVersion:  strings.TrimPrefix(release.TagName, "v"),
		ReleaseURL:     release.HTMLURL,
	}
	if release.Prerelease || current == "" {
		return result, nil
	}

	latest, err := ParseSemver(result.LatestVersion)
	if err != nil {
		return nil, fmt.Errorf("parse latest version %q: %w", result.LatestVersion, err)
	}
	cur, err := ParseSemver(current)
	if err != nil {
		return nil, fmt.Errorf("parse installed version %q: %w", current, err)
	}
	result.Available = cur.LessThan(latest)
	return result, nil
}
