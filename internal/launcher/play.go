package launcher

import (
	"fmt"
	"os"

	"github.com/MrModification/pvzf-launcher/internal/loader"
	"github.com/MrModification/pvzf-launcher/internal/process"
	"github.com/MrModification/pvzf-launcher/internal/registry"
)

// Launch starts the game of an installation and records when it was played
func (l *Launcher) Launch(sel string) (*registry.Installation, string, error) {
	inst, err := l.Current(sel)
	if err != nil {
		return nil, "", err
	}
	if err := ensureDir(inst.Path); err != nil {
		return nil, "", err
	}

	exe, err := process.FindGameExe(inst.Path)
	if err != nil {
		return nil, "", err
	}

	if err := l.startGame(exe); err != nil {
		return nil, "", err
	}

	inst.LastPlayed = registry.Now()
	if err := l.store.Save(); err != nil {
		return inst, exe, err
	}

	l.logger.Info().Str("exe", exe).Msg("game launched")
	return inst, exe, nil
}

// ModsFolder returns the installation's mods directory, creating it for MelonLoader.
// With open set it is shown in the file manager.
func (l *Launcher) ModsFolder(sel string, open bool) (string, error) {
	inst, err := l.Current(sel)
	if err != nil {
		return "", err
	}
	if err := ensureDir(inst.Path); err != nil {
		return "", err
	}

	t := loader.Normalize(inst.LoaderType)
	dir := loader.ModsDir(inst.Path, t)
	if t != loader.BepInEx {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create mods folder: %w", err)
		}
	}

	if open {
		if err := l.openFolder(dir); err != nil {
			return dir, err
		}
	}
	return dir, nil
}
