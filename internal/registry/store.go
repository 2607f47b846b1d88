package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MrModification/pvzf-launcher/internal/loader"
	"github.com/MrModification/pvzf-launcher/internal/logging"
	"github.com/MrModification/pvzf-launcher/internal/paths"
)

// ListFileName is the installation list kept in the resource directory
const ListFileName = "installations.json"

// ErrInstallationNotFound is returned when a path is not in the list
var ErrInstallationNotFound = errors.New("installation not found")

// Store is the in-memory installation list backed by installations.json
type Store struct {
	path  string
	items []*Installation
}

// Load reads the installation list. A missing file yields an empty list;
// a corrupt one is logged and also yields an empty list.
func Load(path string) *Store {
	logger := logging.GetLogger("registry")
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s
	}
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("cannot read installation list")
		return s
	}

	var items []*Installation
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("ignoring corrupt installation list")
		return s
	}

	for _, inst := range items {
		if inst == nil || strings.TrimSpace(inst.Path) == "" {
			continue
		}
		if s.Find(inst.Path) != nil {
			continue
		}
		s.items = append(s.items, inst)
	}

	logger.Debug().Int("count", len(s.items)).Msg("installation list loaded")
	return s
}

// Path returns the backing file
func (s *Store) Path() string {
	return s.path
}

// Save writes the installation list
func (s *Store) Save() error {
	items := s.items
	if items == nil {
		items = []*Installation{}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal installation list: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create resource directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to save installation list: %w", err)
	}
	return nil
}

// All returns the installations in list order
func (s *Store) All() []*Installation {
	return s.items
}

// Len returns the number of installations
func (s *Store) Len() int {
	return len(s.items)
}

// Find returns the installation at path (compared case-insensitively), or nil
func (s *Store) Find(path string) *Installation {
	for _, inst := range s.items {
		if paths.Equal(inst.Path, path) {
			return inst
		}
	}
	return nil
}

// FindByName returns the first installation whose display name matches (case-insensitive), or nil
func (s *Store) FindByName(name string) *Installation {
	for _, inst := range s.items {
		if strings.EqualFold(inst.Name(), strings.TrimSpace(name)) {
			return inst
		}
	}
	return nil
}

// Add registers path, returning the existing record when it is already listed.
// The boolean reports whether a new record was created.
func (s *Store) Add(path string) (*Installation, bool) {
	if inst := s.Find(path); inst != nil {
		return inst, false
	}

	inst := New(path)
	s.items = append(s.items, inst)
	return inst, true
}

// Register adds a prepared installation record. When its path is already listed the
// existing record takes over the new loader type and modpacks instead.
// The boolean reports whether the record was appended.
func (s *Store) Register(inst *Installation) (*Installation, bool) {
	if existing := s.Find(inst.Path); existing != nil {
		existing.LoaderType = inst.LoaderType
		existing.InstalledModpacks = inst.InstalledModpacks
		Refresh(existing)
		return existing, false
	}

	s.items = append(s.items, inst)
	return inst, true
}

// Remove drops path from the list. Files on disk are untouched.
func (s *Store) Remove(path string) error {
	for i, inst := range s.items {
		if paths.Equal(inst.Path, path) {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrInstallationNotFound, path)
}

// Reconcile refreshes every record from disk, merges in its sidecar and saves the list.
// Sidecar modpacks and loader type win; the later LastPlayed is kept.
func (s *Store) Reconcile() error {
	logger := logging.GetLogger("registry")

	for _, inst := range s.items {
		Refresh(inst)

		info, err := LoadInfo(inst.Path)
		if err != nil {
			logger.Warn().Err(err).Str("path", inst.Path).Msg("ignoring unreadable installation info")
			continue
		}
		if info == nil {
			continue
		}

		if info.InstalledModpacks != nil {
			inst.InstalledModpacks = info.InstalledModpacks
		}
		if strings.TrimSpace(info.LoaderType) != "" {
			inst.LoaderType = info.LoaderType
		}
		inst.LastPlayed = Later(inst.LastPlayed, info.LastPlayed)
		inst.ModCount = loader.CountMods(inst.Path, loader.Normalize(inst.LoaderType))
	}

	return s.Save()
}

// SelectDefault returns the most recently played installation, ties broken by name.
// It returns nil for an empty list.
func (s *Store) SelectDefault() *Installation {
	if len(s.items) == 0 {
		return nil
	}

	sorted := make([]*Installation, len(s.items))
	copy(sorted, s.items)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.LastPlayed.Equal(b.LastPlayed.Time) {
			return a.LastPlayed.After(b.LastPlayed.Time)
		}
		return a.Name() < b.Name()
	})
	return sorted[0]
}

// Persist writes the installation's sidecar and the list
func (s *Store) Persist(inst *Installation) error {
	if err := SaveInfo(inst); err != nil {
		return err
	}
	return s.Save()
}
