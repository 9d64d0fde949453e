package updater

import (
	"fmt"
	"strconv"
	"strings"
)

// Semver represents a semantic version. Pre-release versions sort before the
// release they precede.
type Semver struct {
	Major int
	Minor int
	Patch int
	Pre   string
}

// ParseSemver parses a version string like "1.2.3", "v1.2.3" or "1.2.3-beta1".
func ParseSemver(s string) (Semver, error) {
	s = strings.TrimPrefix(s, "v")
	var pre string
	if i := strings.IndexByte(s, '-'); i >= 0 {
		s, pre = s[:i], s[i+1:]
	}
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 {
		return Semver{}, fmt.Errorf("invalid semver: %q", s)
	}

	var nums [3]int
	for i, name := range []string{"major", "minor", "patch"} {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return Semver{}, fmt.Errorf("invalid %s version: %w", name, err)
		}
		nums[i] = n
	}
	return Semver{Major: nums[0], Minor: nums[1], Patch: nums[2], Pre: pre}, nil
}

// String returns the version as "major.minor.patch[-pre]".
func (v Semver) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Pre != "" {
		s += "-" + v.Pre
	}
	return s
}

// LessThan returns true if v < other.
func (v Semver) LessThan(other Semver) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor < other.Minor
	}
	if v.Patch != other.Patch {
		return v.Patch < other.Patch
	}
	switch {
	case v.Pre == other.Pre:
		return false
	case v.Pre == "":
		return false
	case other.Pre == "":
		return true
	default:
		return v.Pre < other.Pre
	}
}
