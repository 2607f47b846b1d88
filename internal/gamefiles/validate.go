// Package gamefiles validates and unpacks the archives used to build a game installation:
// the game version zip, net6.zip and TranslationMod.zip.
package gamefiles

import (
	"errors"
	"strings"

	"github.com/MrModification/pvzf-launcher/internal/archive"
)

const (
	// GameExe is the game's executable name
	GameExe = "PlantsVsZombiesRH.exe"

	net6Marker       = "Il2CppInterop.Common.dll"
	net6Folder       = "net6"
	translatorMarker = "PvZ_Fusion_Translator.dll"
)

var (
	ErrGameExeMissing    = errors.New(GameExe + " not found in version archive")
	ErrInvalidNet6       = errors.New("invalid net6.zip: required DLL not found inside 'net6' folder")
	ErrInvalidTranslator = errors.New("invalid TranslationMod.zip: " + translatorMarker + " not found")
)

func isGameExe(name string) bool {
	return strings.EqualFold(archive.BaseName(name), GameExe)
}

func isNet6Marker(name string) bool {
	return hasSuffixFold(name, net6Marker) && archive.BaseName(archive.ParentDir(name)) == net6Folder
}

func isTranslatorMarker(name string) bool {
	return hasSuffixFold(name, translatorMarker)
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

// IsValidVersionZip reports whether the archive contains the game executable.
// Unreadable archives are invalid.
func IsValidVersionZip(zipPath string) bool {
	_, ok, err := archive.FindEntry(zipPath, isGameExe)
	return err == nil && ok
}

// IsValidNet6Zip reports whether the archive has Il2CppInterop.Common.dll inside a folder named exactly net6
func IsValidNet6Zip(zipPath string) bool {
	_, ok, err := archive.FindEntry(zipPath, isNet6Marker)
	return err == nil && ok
}

// IsValidTranslationZip reports whether the archive contains the translator mod DLL
func IsValidTranslationZip(zipPath string) bool {
	_, ok, err := archive.FindEntry(zipPath, isTranslatorMarker)
	return err == nil && ok
}
