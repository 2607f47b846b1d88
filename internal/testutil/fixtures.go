package testutil

import (
	"sort"
	"testing"
)

// GameExe is the executable every version archive must contain
const GameExe = "PlantsVsZombiesRH.exe"

// VersionZip builds a game version archive whose game root is root ("" for the archive top).
func VersionZip(t *testing.T, dir, name, root string) string {
	t.Helper()

	prefix := ""
	if root != "" {
		prefix = root + "/"
	}

	entries := []Entry{}
	if root != "" {
		entries = append(entries, Entry{Name: prefix})
	}
	entries = append(entries,
		Entry{Name: prefix + GameExe, Body: "game"},
		Entry{Name: prefix + "UnityCrashHandler64.exe", Body: "crash"},
		Entry{Name: prefix + "PlantsVsZombiesRH_Data/"},
		Entry{Name: prefix + "PlantsVsZombiesRH_Data/globalgamemanagers", Body: "data"},
		Entry{Name: "readme-outside-root.txt", Body: "ignored"},
	)
	return Zip(t, dir, name, entries...)
}

// MelonBundle builds a pre-packed MelonLoader bundle
func MelonBundle(t *testing.T) []byte {
	t.Helper()
	return ZipBytes(t,
		Entry{Name: "MelonLoader/"},
		Entry{Name: "MelonLoader/net35/MelonLoader.dll", Body: "ml"},
		Entry{Name: "Mods/"},
		Entry{Name: "Plugins/"},
		Entry{Name: "UserLibs/"},
		Entry{Name: "version.dll", Body: "proxy"},
	)
}

// BepInExBundle builds a pre-packed BepInEx bundle
func BepInExBundle(t *testing.T) []byte {
	t.Helper()
	return ZipBytes(t,
		Entry{Name: "BepInEx/core/BepInEx.Core.dll", Body: "bep"},
		Entry{Name: "BepInEx/Plugins/"},
		Entry{Name: "winhttp.dll", Body: "proxy"},
		Entry{Name: "doorstop_config.ini", Body: "[General]"},
		Entry{Name: ".doorstop_version", Body: "4.0"},
	)
}

// Modpack builds a .Modpack archive with the given ModPack.json body and GameDirectory files.
func Modpack(t *testing.T, dir, name, manifest string, files map[string]string) string {
	t.Helper()

	entries := []Entry{{Name: "ModPack.json", Body: manifest}, {Name: "GameDirectory/"}}
	for _, rel := range sortedKeys(files) {
		entries = append(entries, Entry{Name: "GameDirectory/" + rel, Body: files[rel]})
	}
	return Zip(t, dir, name, entries...)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
