// Package modpack validates, installs and removes .Modpack archives.
//
// A modpack is a zip with a ModPack.json manifest at its root and a GameDirectory/
// tree whose contents are copied over the game directory.
package modpack

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Jeffail/gabs"

	"github.com/MrModification/pvzf-launcher/internal/archive"
	"github.com/MrModification/pvzf-launcher/internal/loader"
	"github.com/MrModification/pvzf-launcher/internal/paths"
)

const (
	// Extension is the file extension modpacks are distributed with
	Extension = ".Modpack"

	manifestName = "ModPack.json"
	gameDirRoot  = "GameDirectory/"
)

var (
	ErrModpackNotFound      = errors.New("modpack file does not exist")
	ErrMissingModpackJSON   = errors.New("ModPack.json is missing from the modpack")
	ErrMissingGameDirectory = errors.New("GameDirectory folder is missing from the modpack")
	ErrNoLoaderContent      = errors.New("modpack must contain either GameDirectory/Mods/ or GameDirectory/BepInEx/")
	ErrLoaderMismatch       = errors.New("modpack loader does not match installation")
	ErrMissingMetadata      = errors.New("ModPack.json must contain 'name' and 'creator'")
	ErrNotInstalled         = errors.New("modpack is not installed")
)

// Info describes an installed (or about to be installed) modpack.
// InstalledFiles are relative to the game directory, forward-slash separated.
type Info struct {
	Name           string   `json:"Name"`
	Creator        string   `json:"Creator"`
	Version        string   `json:"Version,omitempty"`
	Description    string   `json:"Description,omitempty"`
	LoaderType     string   `json:"LoaderType"`
	SourceFile     string   `json:"SourceFile"`
	InstalledFiles []string `json:"InstalledFiles"`
}

// Validate checks a modpack archive against the installation's loader and reads its manifest
func Validate(path, loaderType string) (*Info, error) {
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return nil, ErrModpackNotFound
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open modpack: %w", err)
	}
	defer reader.Close()

	var manifest *zip.File
	hasGameDir, hasMods, hasBepInEx := false, false, false
	for _, f := range reader.File {
		name := archive.EntryName(f)
		if name == manifestName {
			manifest = f
		}
		hasGameDir = hasGameDir || paths.HasPrefixFold(name, gameDirRoot)
		hasMods = hasMods || paths.HasPrefixFold(name, gameDirRoot+"Mods/")
		hasBepInEx = hasBepInEx || paths.HasPrefixFold(name, gameDirRoot+"BepInEx/")
	}

	if manifest == nil {
		return nil, ErrMissingModpackJSON
	}
	if !hasGameDir {
		return nil, ErrMissingGameDirectory
	}

	var detected loader.Type
	if hasMods {
		detected = loader.MelonLoader
	}
	if hasBepInEx {
		detected = loader.BepInEx
	}
	if detected == "" {
		return nil, ErrNoLoaderContent
	}
	if !strings.EqualFold(string(detected), loaderType) {
		return nil, fmt.Errorf("%w: this modpack is for %s, but this installation uses %s",
			ErrLoaderMismatch, detected, loaderType)
	}

	doc, err := readManifest(manifest)
	if err != nil {
		return nil, err
	}

	name, creator := field(doc, "name"), field(doc, "creator")
	if strings.TrimSpace(name) == "" || strings.TrimSpace(creator) == "" {
		return nil, ErrMissingMetadata
	}

	return &Info{
		Name:        name,
		Creator:     creator,
		Version:     field(doc, "version"),
		Description: field(doc, "description"),
		LoaderType:  loaderType,
		SourceFile:  path,
	}, nil
}

func readManifest(f *zip.File) (*gabs.Container, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open ModPack.json: %w", err)
	}
	defer rc.Close()

	doc, err := gabs.ParseJSONBuffer(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ModPack.json: %w", err)
	}
	return doc, nil
}

// field returns a top-level manifest value as a string, "" when absent or null
func field(doc *gabs.Container, key string) string {
	v := doc.Search(key).Data()
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

// FileList returns the files a modpack installs, relative to the game directory
func FileList(path string) ([]string, error) {
	names, err := archive.ListFiles(path)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(names))
	for _, name := range names {
		if !paths.HasPrefixFold(name, gameDirRoot) {
			continue
		}
		rel := name[len(gameDirRoot):]
		if rel == "" {
			continue
		}
		files = append(files, rel)
	}
	return files, nil
}

// Read validates a modpack and fills in its file list
func Read(path, loaderType string) (*Info, error) {
	info, err := Validate(path, loaderType)
	if err != nil {
		return nil, err
	}

	info.InstalledFiles, err = FileList(path)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// Conflicts returns the files of pack that an installed modpack already provides.
// Comparison ignores case; each path is reported once.
func Conflicts(installed []Info, pack *Info) []string {
	incoming := make(map[string]string, len(pack.InstalledFiles))
	for _, f := range pack.InstalledFiles {
		incoming[strings.ToLower(f)] = f
	}

	seen := make(map[string]bool)
	var conflicts []string
	for _, existing := range installed {
		for _, f := range existing.InstalledFiles {
			key := strings.ToLower(f)
			if _, ok := incoming[key]; !ok || seen[key] {
				continue
			}
			seen[key] = true
			conflicts = append(conflicts, f)
		}
	}
	return conflicts
}

// Find returns the index of the installed modpack with the given name (case-insensitive), or -1
func Find(installed []Info, name string) int {
	for i, p := range installed {
		if strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}
