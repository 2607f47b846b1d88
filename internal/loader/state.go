package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MrModification/pvzf-launcher/internal/archive"
	"github.com/MrModification/pvzf-launcher/internal/logging"
)

// PatchKind is the loader detected on disk
type PatchKind string

const (
	PatchMelon PatchKind = "Melon"
	PatchBep   PatchKind = "Bep"
	PatchNone  PatchKind = "false"
)

// ErrNoLayout is returned for loader types that have nothing to move
var ErrNoLayout = errors.New("installation has no mod loader type")

// IsPatched reports whether any loader payload is present in dir
func IsPatched(dir string) bool {
	for _, name := range []string{"MelonLoader", "BepInEx"} {
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && info.IsDir() {
			return true
		}
	}
	for _, name := range []string{"version.dll", "winhttp.dll", "doorstop_config.ini"} {
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

// DetectPatch reports which loader directory is present, MelonLoader first
func DetectPatch(dir string) PatchKind {
	if isDir(filepath.Join(dir, "MelonLoader")) {
		return PatchMelon
	}
	if isDir(filepath.Join(dir, "BepInEx")) {
		return PatchBep
	}
	return PatchNone
}

// TypeForPatch maps a detected patch to its loader type ("" when unpatched)
func TypeForPatch(k PatchKind) Type {
	switch k {
	case PatchMelon:
		return MelonLoader
	case PatchBep:
		return BepInEx
	}
	return ""
}

// ShadowDir returns the _DISABLED_* directory for a loader, or "" when the type has none
func ShadowDir(dir string, t Type) string {
	l, ok := LayoutFor(t)
	if !ok {
		return ""
	}
	return filepath.Join(dir, l.ShadowDir)
}

// IsDisabled reports whether the loader's shadow directory exists
func IsDisabled(dir string, t Type) bool {
	shadow := ShadowDir(dir, t)
	return shadow != "" && isDir(shadow)
}

// Disable moves the loader's payload into its shadow directory, replacing stale copies there
func Disable(dir string, t Type) error {
	l, ok := LayoutFor(t)
	if !ok {
		return ErrNoLayout
	}
	logger := logging.GetLogger("loader")

	shadow := filepath.Join(dir, l.ShadowDir)
	if err := os.MkdirAll(shadow, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", l.ShadowDir, err)
	}

	for _, name := range l.Dirs {
		if err := moveDir(filepath.Join(dir, name), shadow); err != nil {
			return err
		}
	}
	for _, name := range l.Files {
		if err := moveFile(filepath.Join(dir, name), shadow); err != nil {
			return err
		}
	}

	logger.Info().Str("dir", dir).Str("loader", string(t)).Msg("loader disabled")
	return nil
}

// Enable restores the loader from its shadow directory, or extracts bundle when there is nothing to restore.
// It reports whether the shadow directory was restored.
func Enable(dir string, t Type, bundle []byte) (bool, error) {
	l, ok := LayoutFor(t)
	if !ok {
		return false, ErrNoLayout
	}
	logger := logging.GetLogger("loader")

	shadow := filepath.Join(dir, l.ShadowDir)
	if isDir(shadow) {
		entries, err := os.ReadDir(shadow)
		if err != nil {
			return false, fmt.Errorf("failed to read %s: %w", l.ShadowDir, err)
		}
		for _, e := range entries {
			src := filepath.Join(shadow, e.Name())
			if e.IsDir() {
				err = moveDir(src, dir)
			} else {
				err = moveFile(src, dir)
			}
			if err != nil {
				return false, err
			}
		}
		if err := os.RemoveAll(shadow); err != nil {
			return false, fmt.Errorf("failed to remove %s: %w", l.ShadowDir, err)
		}

		logger.Info().Str("dir", dir).Str("loader", string(t)).Msg("loader restored")
		return true, nil
	}

	if len(bundle) == 0 {
		return false, fmt.Errorf("%w: %s", ErrNoBundle, t)
	}
	if err := archive.ExtractBytes(bundle, dir); err != nil {
		return false, fmt.Errorf("failed to extract %s: %w", t, err)
	}

	logger.Info().Str("dir", dir).Str("loader", string(t)).Msg("loader extracted")
	return false, nil
}

// moveFile moves src into destDir, replacing a file of the same name. Missing sources are skipped.
func moveFile(src, destDir string) error {
	info, err := os.Stat(src)
	if err != nil || info.IsDir() {
		return nil
	}

	dest := filepath.Join(destDir, filepath.Base(src))
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("failed to replace %s: %w", dest, err)
	}
	if err := os.Rename(src, dest); err != nil {
		return fmt.Errorf("failed to move %s: %w", filepath.Base(src), err)
	}
	return nil
}

// moveDir moves the directory src into destDir, replacing a directory of the same name. Missing sources are skipped.
func moveDir(src, destDir string) error {
	if !isDir(src) {
		return nil
	}

	dest := filepath.Join(destDir, filepath.Base(src))
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("failed to replace %s: %w", dest, err)
	}
	if err := os.Rename(src, dest); err != nil {
		return fmt.Errorf("failed to move %s: %w", filepath.Base(src), err)
	}
	return nil
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
