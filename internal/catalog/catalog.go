// Package catalog reads InstallationStore.json, the list of downloadable game versions.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrModification/pvzf-launcher/internal/download"
	"github.com/MrModification/pvzf-launcher/internal/logging"
	"github.com/MrModification/pvzf-launcher/internal/version"
)

// FileName is the catalog file kept in the resource directory
const FileName = "InstallationStore.json"

// documentsToken is expanded to the user's documents folder in RootPath
const documentsToken = "%Documents%"

// Entry is one downloadable game version
type Entry struct {
	Version                   string `json:"Version"`
	DownloadUrl               string `json:"DownloadUrl"`
	Net6DownloadUrl           string `json:"Net6DownloadUrl,omitempty"`
	TranslationModDownloadUrl string `json:"TranslationModDownloadUrl,omitempty"`
}

// Store is the parsed catalog
type Store struct {
	RootPath       string  `json:"RootPath,omitempty"`
	TranslationMod string  `json:"TranslationMod,omitempty"`
	Versions       []Entry `json:"Versions"`
}

// Exists reports whether a catalog file is present at path
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Load reads the catalog at path. A missing or unreadable catalog yields an empty store.
func Load(path string) *Store {
	logger := logging.GetLogger("catalog")

	if !Exists(path) {
		logger.Debug().Str("path", path).Msg("no catalog present")
		return &Store{}
	}

	store, err := parseFile(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("ignoring unreadable catalog")
		return &Store{}
	}

	logger.Debug().Int("versions", len(store.Versions)).Msg("catalog loaded")
	return store
}

func parseFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	// Strip comment lines (lines starting with //) before parsing JSON
	lines := strings.Split(string(data), "\n")
	var jsonLines []string
	for _, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "//") {
			jsonLines = append(jsonLines, line)
		}
	}

	var store Store
	if err := json.Unmarshal([]byte(strings.Join(jsonLines, "\n")), &store); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &store, nil
}

// Lookup returns the entry for a version, compared case-insensitively
func (s *Store) Lookup(v string) (Entry, bool) {
	for _, e := range s.Versions {
		if strings.EqualFold(strings.TrimSpace(e.Version), strings.TrimSpace(v)) {
			return e, true
		}
	}
	return Entry{}, false
}

// VersionNames returns the catalog's versions, newest first
func (s *Store) VersionNames() []string {
	names := make([]string, 0, len(s.Versions))
	for _, e := range s.Versions {
		names = append(names, e.Version)
	}
	version.Sort(names)
	return names
}

// ResolveRoot returns the directory new installations are created under.
// An empty RootPath falls back to <documents>/My Games/PlantsVsZombiesFusionInstalls.
func (s *Store) ResolveRoot(documentsDir string) string {
	if strings.TrimSpace(s.RootPath) == "" {
		return filepath.Join(documentsDir, "My Games", "PlantsVsZombiesFusionInstalls")
	}

	root := strings.ReplaceAll(s.RootPath, documentsToken, documentsDir)
	root = strings.ReplaceAll(root, "\\", "/")
	return filepath.Clean(filepath.FromSlash(root))
}

// Fetch downloads a catalog from url, validates it and replaces the file at path
func Fetch(ctx context.Context, url, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	tmp := path + ".download"
	if err := download.File(ctx, url, tmp); err != nil {
		return nil, err
	}
	defer os.Remove(tmp)

	store, err := parseFile(tmp)
	if err != nil {
		return nil, err
	}

	if err := os.Rename(tmp, path); err != nil {
		return nil, fmt.Errorf("failed to save catalog: %w", err)
	}

	return store, nil
}
