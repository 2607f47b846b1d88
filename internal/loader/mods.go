package loader

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/MrModification/pvzf-launcher/internal/paths"
)

// corePattern matches MelonLoader's numbered core assemblies, which are not mods
var corePattern = regexp.MustCompile(`(?i)^_\d+_`)

// ModsDir returns the directory mods are installed to. Unknown loaders use Mods.
func ModsDir(dir string, t Type) string {
	if t == BepInEx {
		bep, _ := paths.FindActual(filepath.Join(dir, "BepInEx"))
		plugins, _ := paths.FindActual(filepath.Join(bep, "Plugins"))
		return plugins
	}
	return filepath.Join(dir, "Mods")
}

// CountMods counts mod DLLs below the loader's mods directory. A missing directory counts as zero.
func CountMods(dir string, t Type) int {
	modsDir := ModsDir(dir, t)
	if !isDir(modsDir) {
		return 0
	}

	count := 0
	_ = filepath.WalkDir(modsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := d.Name()
		if !strings.EqualFold(filepath.Ext(name), ".dll") {
			return nil
		}
		if t != BepInEx && corePattern.MatchString(name) {
			return nil
		}
		count++
		return nil
	})
	return count
}
