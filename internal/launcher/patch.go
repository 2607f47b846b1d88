package launcher

import (
	"fmt"

	"github.com/MrModification/pvzf-launcher/internal/loader"
	"github.com/MrModification/pvzf-launcher/internal/logging"
	"github.com/MrModification/pvzf-launcher/internal/registry"
)

// PatchResult describes what Patch did
type PatchResult struct {
	Installation *registry.Installation
	Restored     bool
}

// Patch enables the installation's loader, restoring it from the shadow directory
// when one exists and extracting the loader bundle otherwise.
func (l *Launcher) Patch(sel string) (*PatchResult, error) {
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

	done := logging.LogOperationStart(l.logger, "patch "+inst.Name())
	defer done()

	t := loader.Normalize(inst.LoaderType)

	var bundle []byte
	if !loader.IsDisabled(inst.Path, t) {
		bundle, err = l.bundles.Bundle(t)
		if err != nil {
			return nil, err
		}
	}

	restored, err := loader.Enable(inst.Path, t, bundle)
	if err != nil {
		return nil, fmt.Errorf("failed to patch: %w", err)
	}

	registry.Refresh(inst)
	if err := l.store.Persist(inst); err != nil {
		return nil, err
	}

	return &PatchResult{Installation: inst, Restored: restored}, nil
}

// Unpatch moves the installation's loader into its shadow directory
func (l *Launcher) Unpatch(sel string) (*registry.Installation, error) {
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

	done := logging.LogOperationStart(l.logger, "unpatch "+inst.Name())
	defer done()

	if err := loader.Disable(inst.Path, loader.Normalize(inst.LoaderType)); err != nil {
		return nil, fmt.Errorf("failed to unpatch: %w", err)
	}

	registry.Refresh(inst)
	if err := l.store.Persist(inst); err != nil {
		return nil, err
	}

	return inst, nil
}

// TogglePatch unpatches a patched installation and patches an unpatched one.
// It reports whether the installation ends up patched.
func (l *Launcher) TogglePatch(sel string) (bool, error) {
	inst, err := l.Current(sel)
	if err != nil {
		return false, err
	}

	if loader.IsPatched(inst.Path) {
		_, err := l.Unpatch(inst.Path)
		return false, err
	}

	_, err = l.Patch(inst.Path)
	return err == nil, err
}
