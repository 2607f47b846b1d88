package modpack

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/MrModification/pvzf-launcher/internal/archive"
	"github.com/MrModification/pvzf-launcher/internal/loader"
	"github.com/MrModification/pvzf-launcher/internal/logging"
	"github.com/MrModification/pvzf-launcher/internal/paths"
)

// Target is the installation a modpack is applied to
type Target interface {
	InstallDir() string
	Loader() string
	Modpacks() []Info
	SetModpacks([]Info)
}

// Install copies the modpack's files over the game directory and records it on the target.
// The archive is unpacked to a unique temp directory first.
func Install(target Target, pack *Info) error {
	logger := logging.GetLogger("modpack")
	done := logging.LogOperationStart(logger, "install "+pack.Name)
	defer done()

	tempDir := filepath.Join(os.TempDir(), "modpack_extract_"+uuid.NewString())
	defer os.RemoveAll(tempDir)

	if err := archive.ExtractSubtree(pack.SourceFile, strings.TrimSuffix(gameDirRoot, "/"), tempDir); err != nil {
		return fmt.Errorf("failed to extract modpack: %w", err)
	}

	for _, file := range pack.InstalledFiles {
		src, err := paths.Within(tempDir, file)
		if err != nil {
			return err
		}
		dst, err := paths.Within(target.InstallDir(), file)
		if err != nil {
			return err
		}
		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("failed to install %s: %w", file, err)
		}
	}

	target.SetModpacks(append(target.Modpacks(), *pack))
	logger.Info().Str("modpack", pack.Name).Int("files", len(pack.InstalledFiles)).Msg("modpack installed")
	return nil
}

// Uninstall deletes the named modpack's files and drops it from the target.
// Files listed by another installed modpack are kept. When the loader is disabled
// the files are removed from its shadow directory instead.
func Uninstall(target Target, name string) error {
	logger := logging.GetLogger("modpack")

	installed := target.Modpacks()
	idx := Find(installed, name)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotInstalled, name)
	}
	pack := installed[idx]

	baseDir := target.InstallDir()
	if t := loader.Normalize(target.Loader()); loader.IsDisabled(baseDir, t) {
		baseDir = loader.ShadowDir(baseDir, t)
	}

	protected := make(map[string]bool)
	for i, other := range installed {
		if i == idx {
			continue
		}
		for _, f := range other.InstalledFiles {
			protected[strings.ToLower(f)] = true
		}
	}

	for _, file := range pack.InstalledFiles {
		if protected[strings.ToLower(file)] {
			logger.Debug().Str("file", file).Msg("kept, provided by another modpack")
			continue
		}
		full, err := paths.Within(baseDir, file)
		if err != nil {
			return err
		}
		if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", file, err)
		}
	}

	remaining := make([]Info, 0, len(installed)-1)
	remaining = append(remaining, installed[:idx]...)
	remaining = append(remaining, installed[idx+1:]...)
	target.SetModpacks(remaining)

	logger.Info().Str("modpack", pack.Name).Str("base", baseDir).Msg("modpack removed")
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
