// Package loader knows where each mod loader lives inside a game directory
// and moves it in and out of its _DISABLED_* shadow directory.
package loader

import (
	"fmt"
	"strings"
)

// Type is a mod loader kind
type Type string

const (
	MelonLoader Type = "MelonLoader"
	BepInEx     Type = "BepInEx"
	None        Type = "None"
)

// Types lists the loaders an installation can be created with
var Types = []Type{MelonLoader, BepInEx, None}

// ParseType parses a loader name case-insensitively. The empty string parses as "".
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, t := range Types {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown loader %q (expected MelonLoader, BepInEx or None)", s)
}

// Layout is the set of top-level items a loader owns in the game directory
type Layout struct {
	ShadowDir string
	Dirs      []string
	Files     []string
	ModsDir   string
}

var layouts = map[Type]Layout{
	MelonLoader: {
		ShadowDir: "_DISABLED_MELONLOADER",
		Dirs:      []string{"MelonLoader", "Mods", "Plugins", "UserData", "UserLibs"},
		Files:     []string{"version.dll"},
		ModsDir:   "Mods",
	},
	BepInEx: {
		ShadowDir: "_DISABLED_BEPINEX",
		Dirs:      []string{"BepInEx"},
		Files:     []string{"winhttp.dll", "doorstop_config.ini", ".doorstop_version"},
		ModsDir:   "BepInEx/Plugins",
	},
}

// LayoutFor returns the layout of a loader. None and unknown types have none.
func LayoutFor(t Type) (Layout, bool) {
	l, ok := layouts[t]
	return l, ok
}

// Normalize maps stored loader names to a Type, keeping unknown values as-is
func Normalize(s string) Type {
	t, err := ParseType(s)
	if err != nil {
		return Type(s)
	}
	return t
}
