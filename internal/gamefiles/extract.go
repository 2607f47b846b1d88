package gamefiles

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MrModification/pvzf-launcher/internal/archive"
	"github.com/MrModification/pvzf-launcher/internal/logging"
)

// GameRoot returns the folder inside the version archive that holds the game executable ("" for the top level)
func GameRoot(zipPath string) (string, error) {
	name, ok, err := archive.FindEntry(zipPath, isGameExe)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrGameExeMissing
	}
	return archive.ParentDir(name), nil
}

// ExtractVersion extracts the game root of a version archive into installDir.
// Entries outside the game root are ignored.
func ExtractVersion(zipPath, installDir string) error {
	logger := logging.GetLogger("gamefiles")

	root, err := GameRoot(zipPath)
	if err != nil {
		return err
	}

	logger.Debug().Str("zip", zipPath).Str("root", root).Str("dest", installDir).Msg("extracting game version")
	if err := archive.ExtractSubtree(zipPath, root, installDir); err != nil {
		return fmt.Errorf("failed to extract version files: %w", err)
	}
	return nil
}

// InstallNet6 extracts the net6 runtime folder into <installDir>/MelonLoader/net6
func InstallNet6(zipPath, installDir string) error {
	name, ok, err := archive.FindEntry(zipPath, isNet6Marker)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidNet6
	}

	dest := filepath.Join(installDir, "MelonLoader", net6Folder)
	if err := archive.ExtractSubtree(zipPath, archive.ParentDir(name), dest); err != nil {
		return fmt.Errorf("failed to install net6: %w", err)
	}
	return nil
}

// InstallTranslationMod extracts the folder holding the translator DLL into <installDir>/Mods
func InstallTranslationMod(zipPath, installDir string) error {
	name, ok, err := archive.FindEntry(zipPath, isTranslatorMarker)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidTranslator
	}

	modsDir := filepath.Join(installDir, "Mods")
	if err := os.MkdirAll(modsDir, 0755); err != nil {
		return fmt.Errorf("failed to create Mods folder: %w", err)
	}

	if err := archive.ExtractSubtree(zipPath, archive.ParentDir(name), modsDir); err != nil {
		return fmt.Errorf("failed to install translation mod: %w", err)
	}
	return nil
}
