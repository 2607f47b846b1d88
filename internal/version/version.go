package version

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Launcher build information, overridable with -ldflags "-X".
var (
	Launcher = "1.0.0"
	Commit   = ""
	Date     = ""
)

// String returns the launcher version with the commit appended when known
func String() string {
	ver := Launcher
	if Commit != "" {
		ver += "+" + Commit
	}
	return ver
}

// net6Threshold is the first game version that needs the net6 runtime for the translation mod
var net6Threshold = semver.MustParse("3.1.1")

// Parse parses a game version such as "3.1.1", "v3.1" or "3.0.2.1".
// Components past the third are dropped before comparison.
func Parse(s string) (*semver.Version, error) {
	raw := strings.TrimSpace(s)
	trimmed := strings.TrimPrefix(strings.TrimPrefix(raw, "v"), "V")

	parts := strings.Split(trimmed, ".")
	if len(parts) > 3 {
		trimmed = strings.Join(parts[:3], ".")
	}

	v, err := semver.NewVersion(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid game version %q: %w", s, err)
	}
	return v, nil
}

// RequiresNet6 reports whether the game version needs net6.zip installed alongside the translation mod.
// Unparseable versions are treated as not requiring it.
func RequiresNet6(s string) bool {
	v, err := Parse(s)
	if err != nil {
		return false
	}
	return !v.LessThan(net6Threshold)
}

// Compare returns -1, 0 or 1. Unparseable versions sort below parseable ones.
func Compare(a, b string) int {
	va, errA := Parse(a)
	vb, errB := Parse(b)
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	return va.Compare(vb)
}

// Sort orders versions newest first
func Sort(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		return Compare(versions[i], versions[j]) > 0
	})
}
