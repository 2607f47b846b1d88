package process

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/MrModification/pvzf-launcher/internal/paths"
)

// ErrNoGameExe is returned when a directory holds no launchable executable
var ErrNoGameExe = errors.New("no valid game executable found")

// excludedExeWords mark helper executables shipped next to the game
var excludedExeWords = []string{"unity", "crash", "mono", "install"}

// FindGameExe walks dir in lexical order and returns the first .exe that isn't a Unity,
// crash handler, Mono or installer helper.
func FindGameExe(dir string) (string, error) {
	var found string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".exe") {
			return nil
		}

		lower := strings.ToLower(d.Name())
		for _, word := range excludedExeWords {
			if strings.Contains(lower, word) {
				return nil
			}
		}

		found = p
		return fs.SkipAll
	})
	if err != nil {
		return "", fmt.Errorf("failed to search %s: %w", dir, err)
	}
	if found == "" {
		return "", fmt.Errorf("%w in %s", ErrNoGameExe, dir)
	}
	return found, nil
}

// IsRunningFrom reports whether any running process has its executable inside dir
func IsRunningFrom(dir string) bool {
	procs, err := process.Processes()
	if err != nil {
		return false
	}

	prefix := strings.TrimSuffix(paths.CleanLower(dir), "/") + "/"
	for _, p := range procs {
		exe, err := p.Exe()
		if err != nil || exe == "" {
			continue
		}
		if strings.HasPrefix(paths.CleanLower(exe), prefix) {
			return true
		}
	}
	return false
}

// Start launches exe with its own directory as the working directory and does not wait for it
func Start(exe string) error {
	cmd := exec.Command(exe)
	cmd.Dir = filepath.Dir(exe)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", filepath.Base(exe), err)
	}
	return cmd.Process.Release()
}

// OpenFolder shows dir in the platform's file manager
func OpenFolder(dir string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer", dir)
	case "darwin":
		cmd = exec.Command("open", dir)
	default:
		cmd = exec.Command("xdg-open", dir)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open folder: %w", err)
	}
	return cmd.Process.Release()
}
