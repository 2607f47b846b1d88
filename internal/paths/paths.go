package paths

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Normalize converts a path to use forward slashes (for zip entries and stored relative paths).
// Backslashes are treated as separators on every platform because archives built on
// Windows frequently carry them.
func Normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.ReplaceAll(p, string(filepath.Separator), "/")
	return path.Clean(p)
}

// Denormalize converts a path from forward slashes to platform-specific separators
func Denormalize(p string) string {
	return strings.ReplaceAll(p, "/", string(filepath.Separator))
}

// CleanLower returns a cleaned, lowercase path for case-insensitive comparison
func CleanLower(p string) string {
	return strings.ToLower(Normalize(p))
}

// Equal reports whether two paths name the same location, ignoring case.
// The game only ships for Windows, so installation paths compare like NTFS paths.
func Equal(a, b string) bool {
	if a == "" || b == "" {
		return a == b
	}
	return CleanLower(a) == CleanLower(b)
}

// HasPrefixFold is strings.HasPrefix without regard to case
func HasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// BaseName returns the last element of p after trimming trailing separators.
func BaseName(p string) string {
	trimmed := strings.TrimRight(p, "/\\")
	if trimmed == "" {
		return p
	}
	if i := strings.LastIndexAny(trimmed, "/\\"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// FindActual finds the actual case of a file on case-insensitive filesystems
func FindActual(targetPath string) (string, error) {
	if _, err := os.Stat(targetPath); err == nil {
		return targetPath, nil
	}

	dir := filepath.Dir(targetPath)
	filename := filepath.Base(targetPath)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return targetPath, nil
	}

	for _, entry := range entries {
		if strings.EqualFold(entry.Name(), filename) {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return targetPath, nil
}

// Within joins rel onto base and ensures the result doesn't escape base (zip-slip protection)
func Within(base, rel string) (string, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}

	target := filepath.Join(absBase, Denormalize(strings.ReplaceAll(rel, "\\", "/")))
	if target != absBase && !strings.HasPrefix(target, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt detected: %s", rel)
	}

	return target, nil
}

// Exists reports whether p exists
func Exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// IsDir reports whether p exists and is a directory
func IsDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
