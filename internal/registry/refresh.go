package registry

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MrModification/pvzf-launcher/internal/loader"
)

// Refresh re-reads an installation's metadata from disk: executable name, patch state,
// loader type (when unset) and mod count. A missing directory resets it to empty values.
func Refresh(inst *Installation) {
	if inst == nil || inst.Path == "" {
		return
	}

	entries, err := os.ReadDir(inst.Path)
	if err != nil {
		inst.ExeName = ""
		inst.IsPatched = false
		inst.ModCount = 0
		return
	}

	inst.ExeName = firstExe(entries)
	inst.IsPatched = loader.IsPatched(inst.Path)

	if strings.TrimSpace(inst.LoaderType) == "" {
		inst.LoaderType = string(loader.TypeForPatch(loader.DetectPatch(inst.Path)))
	}
	if inst.LoaderType == "" {
		inst.LoaderType = string(loader.MelonLoader)
	}

	inst.ModCount = loader.CountMods(inst.Path, loader.Normalize(inst.LoaderType))
}

func firstExe(entries []os.DirEntry) string {
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".exe") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return names[0]
}
