// Package registry keeps the list of known game installations (installations.json)
// and each installation's InstallationInfo.json sidecar.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrModification/pvzf-launcher/internal/loader"
	"github.com/MrModification/pvzf-launcher/internal/modpack"
	"github.com/MrModification/pvzf-launcher/internal/paths"
)

// InfoFileName is the sidecar written into every installation directory
const InfoFileName = "InstallationInfo.json"

// Installation is one game directory the launcher manages
type Installation struct {
	Path              string         `json:"Path"`
	ExeName           string         `json:"ExeName"`
	ModCount          int            `json:"ModCount"`
	IsPatched         bool           `json:"IsPatched"`
	LastPlayed        Timestamp      `json:"LastPlayed"`
	LoaderType        string         `json:"LoaderType"`
	InstalledModpacks []modpack.Info `json:"InstalledModpacks"`
	DisplayName       string         `json:"DisplayName,omitempty"`
}

// New returns an installation for path with its metadata read from disk
func New(path string) *Installation {
	inst := &Installation{Path: path}
	Refresh(inst)
	return inst
}

// Name returns the display name, falling back to the directory name
func (i *Installation) Name() string {
	if strings.TrimSpace(i.DisplayName) != "" {
		return i.DisplayName
	}
	return paths.BaseName(i.Path)
}

// Loader returns the installation's loader type
func (i *Installation) Loader() string {
	return i.LoaderType
}

// InstallDir returns the game directory
func (i *Installation) InstallDir() string {
	return i.Path
}

// Modpacks returns the installed modpacks
func (i *Installation) Modpacks() []modpack.Info {
	return i.InstalledModpacks
}

// SetModpacks replaces the installed modpacks
func (i *Installation) SetModpacks(p []modpack.Info) {
	i.InstalledModpacks = p
}

// Disabled reports whether the loader is currently moved into its shadow directory
func (i *Installation) Disabled() bool {
	return loader.IsDisabled(i.Path, loader.Normalize(i.LoaderType))
}

// SaveInfo writes the installation's sidecar file
func SaveInfo(inst *Installation) error {
	data, err := json.MarshalIndent(inst, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal installation info: %w", err)
	}

	if err := os.WriteFile(filepath.Join(inst.Path, InfoFileName), data, 0644); err != nil {
		return fmt.Errorf("failed to write installation info: %w", err)
	}
	return nil
}

// LoadInfo reads the sidecar file in dir. A missing sidecar returns nil without error.
func LoadInfo(dir string) (*Installation, error) {
	data, err := os.ReadFile(filepath.Join(dir, InfoFileName))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read installation info: %w", err)
	}

	var inst Installation
	if err := json.Unmarshal(data, &inst); err != nil {
		return nil, fmt.Errorf("failed to parse installation info: %w", err)
	}
	return &inst, nil
}
