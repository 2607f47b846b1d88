package launcher

import (
	"errors"
	"fmt"

	"github.com/MrModification/pvzf-launcher/internal/modpack"
	"github.com/MrModification/pvzf-launcher/internal/registry"
)

// ConflictPreviewLimit caps how many conflicting files a warning lists
const ConflictPreviewLimit = 20

// ConfirmFunc decides whether to continue after conflicts were found
type ConfirmFunc func(conflicts []string) bool

// ErrAborted is returned when a ConfirmFunc declines to continue
var ErrAborted = errors.New("cancelled")

// ModpackStatus is an installed modpack and whether its loader is currently disabled
type ModpackStatus struct {
	modpack.Info
	Disabled bool
}

// Modpacks lists the installation's modpacks
func (l *Launcher) Modpacks(sel string) (*registry.Installation, []ModpackStatus, error) {
	inst, err := l.Current(sel)
	if err != nil {
		return nil, nil, err
	}

	disabled := inst.Disabled()
	statuses := make([]ModpackStatus, 0, len(inst.InstalledModpacks))
	for _, p := range inst.InstalledModpacks {
		statuses = append(statuses, ModpackStatus{Info: p, Disabled: disabled})
	}
	return inst, statuses, nil
}

// AddModpack validates a modpack against the installation and installs it.
// When files overlap an installed modpack, confirm is asked first; a nil confirm continues.
func (l *Launcher) AddModpack(sel, file string, confirm ConfirmFunc) (*modpack.Info, error) {
	inst, err := l.Current(sel)
	if err != nil {
		return nil, err
	}
	if err := ensureDir(inst.Path); err != nil {
		return nil, err
	}
	if err := l.ensureNotRunning(inst); err != nil {
		return nil, err
	}

	if err := installModpack(inst, file, confirm); err != nil {
		return nil, err
	}

	registry.Refresh(inst)
	if err := l.store.Persist(inst); err != nil {
		return nil, err
	}

	packs := inst.InstalledModpacks
	return &packs[len(packs)-1], nil
}

func installModpack(inst *registry.Installation, file string, confirm ConfirmFunc) error {
	pack, err := modpack.Read(file, inst.LoaderType)
	if err != nil {
		return err
	}

	if conflicts := modpack.Conflicts(inst.InstalledModpacks, pack); len(conflicts) > 0 {
		if confirm != nil && !confirm(conflicts) {
			return ErrAborted
		}
	}

	return modpack.Install(inst, pack)
}

// RemoveModpack uninstalls a modpack by name
func (l *Launcher) RemoveModpack(sel, name string) (*modpack.Info, error) {
	inst, err := l.Current(sel)
	if err != nil {
		return nil, err
	}
	if err := l.ensureNotRunning(inst); err != nil {
		return nil, err
	}

	idx := modpack.Find(inst.InstalledModpacks, name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", modpack.ErrNotInstalled, name)
	}
	removed := inst.InstalledModpacks[idx]

	if err := modpack.Uninstall(inst, name); err != nil {
		return nil, err
	}

	registry.Refresh(inst)
	if err := l.store.Persist(inst); err != nil {
		return nil, err
	}

	return &removed, nil
}

// Preview returns at most limit entries of files
func Preview(files []string, limit int) []string {
	if len(files) <= limit {
		return files
	}
	return files[:limit]
}
