package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/MrModification/pvzf-launcher/internal/download"
	"github.com/MrModification/pvzf-launcher/internal/gamefiles"
	"github.com/MrModification/pvzf-launcher/internal/loader"
	"github.com/MrModification/pvzf-launcher/internal/logging"
	"github.com/MrModification/pvzf-launcher/internal/paths"
	"github.com/MrModification/pvzf-launcher/internal/registry"
	"github.com/MrModification/pvzf-launcher/internal/version"
)

var (
	ErrUnknownVersion  = errors.New("version is not in the catalog")
	ErrUnknownLanguage = errors.New("unknown language")
	ErrNoDownloadURL   = errors.New("no download URL in the catalog")
	ErrInvalidVersion  = errors.New("invalid version zip: " + gamefiles.GameExe + " not found")
	ErrVersionName     = errors.New("version is not a valid folder name")
)

// CreateOptions describes a new installation. Zip paths left empty are downloaded
// using the catalog entry for Version.
type CreateOptions struct {
	Version        string
	Loader         string
	VersionZip     string
	Modpack        string
	Language       string
	Net6Zip        string
	TranslationZip string

	// Confirm is asked when the modpack overwrites files; nil continues
	Confirm ConfirmFunc
	// Progress receives download progress
	Progress download.ProgressCallback
}

// CreateResult describes a created installation
type CreateResult struct {
	Installation       *registry.Installation
	Added              bool
	LanguageChanged    bool
	TranslationApplied bool
}

// CreateInstallation builds <install root>/<version> from a version zip, adds the
// loader, an optional modpack and the translation mod, then registers it.
func (l *Launcher) CreateInstallation(ctx context.Context, opts CreateOptions) (*CreateResult, error) {
	ver := strings.TrimSpace(opts.Version)
	if ver == "" {
		return nil, fmt.Errorf("%w: no version given", ErrUnknownVersion)
	}
	if ver == "." || ver == ".." || strings.ContainsAny(ver, `/\`) {
		return nil, fmt.Errorf("%w: %s", ErrVersionName, ver)
	}

	loaderType, err := loader.ParseType(opts.Loader)
	if err != nil {
		return nil, err
	}
	if loaderType == "" {
		loaderType = loader.MelonLoader
	}

	language := gamefiles.NativeLanguage
	if strings.TrimSpace(opts.Language) != "" {
		key, ok := gamefiles.LookupLanguage(opts.Language)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, opts.Language)
		}
		language = key
	}
	translate := loaderType == loader.MelonLoader && gamefiles.NeedsTranslation(language)

	root := l.InstallRoot()
	installPath, err := paths.Within(root, ver)
	if err != nil {
		return nil, err
	}
	if paths.Equal(installPath, root) {
		return nil, fmt.Errorf("%w: %s", ErrVersionName, ver)
	}

	done := logging.LogOperationStart(l.logger, "create "+ver)
	defer done()

	var downloaded []string
	defer func() {
		for _, p := range downloaded {
			removeQuietly(p)
		}
	}()
	fetch := func(url, name string) (string, error) {
		dctx, cancel := l.downloadContext(ctx)
		defer cancel()

		p, err := download.ToTemp(dctx, url, name, opts.Progress)
		if err != nil {
			return "", err
		}
		downloaded = append(downloaded, p)
		return p, nil
	}

	entry, inCatalog := l.catalog.Lookup(ver)
	fetchListed := func(url, name string) (string, error) {
		if !inCatalog {
			return "", fmt.Errorf("%w: %s (supply %s yourself)", ErrUnknownVersion, ver, name)
		}
		if url == "" {
			return "", fmt.Errorf("%w: %s", ErrNoDownloadURL, name)
		}
		return fetch(url, name)
	}

	versionZip := opts.VersionZip
	if versionZip == "" {
		if versionZip, err = fetchListed(entry.DownloadUrl, ver+".zip"); err != nil {
			return nil, err
		}
	}
	if !gamefiles.IsValidVersionZip(versionZip) {
		return nil, ErrInvalidVersion
	}

	// Translation inputs are resolved and checked before anything is written
	needNet6 := translate && version.RequiresNet6(ver)
	net6Zip, translationZip := opts.Net6Zip, opts.TranslationZip
	if needNet6 {
		if net6Zip == "" {
			if net6Zip, err = fetchListed(entry.Net6DownloadUrl, "net6.zip"); err != nil {
				return nil, err
			}
		}
		if !gamefiles.IsValidNet6Zip(net6Zip) {
			return nil, gamefiles.ErrInvalidNet6
		}
	}
	if translate {
		if translationZip == "" {
			url := entry.TranslationModDownloadUrl
			if url == "" {
				url = l.catalog.TranslationMod
			}
			if translationZip, err = fetchListed(url, "TranslationMod.zip"); err != nil {
				return nil, err
			}
		}
		if !gamefiles.IsValidTranslationZip(translationZip) {
			return nil, gamefiles.ErrInvalidTranslator
		}
	}

	if err := os.MkdirAll(installPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", installPath, err)
	}

	if err := gamefiles.ExtractVersion(versionZip, installPath); err != nil {
		return nil, err
	}

	if _, ok := loader.LayoutFor(loaderType); ok {
		bundle, err := l.bundles.Bundle(loaderType)
		if err != nil {
			return nil, err
		}
		if _, err := loader.Enable(installPath, loaderType, bundle); err != nil {
			return nil, fmt.Errorf("failed to install %s: %w", loaderType, err)
		}
	}

	inst := &registry.Installation{Path: installPath, LoaderType: string(loaderType)}
	registry.Refresh(inst)
	if prev, err := registry.LoadInfo(installPath); err == nil && prev != nil {
		inst.InstalledModpacks = prev.InstalledModpacks
		inst.LastPlayed = prev.LastPlayed
		inst.DisplayName = prev.DisplayName
	}

	if opts.Modpack != "" {
		if err := installModpack(inst, opts.Modpack, opts.Confirm); err != nil {
			return nil, err
		}
		if err := registry.SaveInfo(inst); err != nil {
			return nil, err
		}
	}

	result := &CreateResult{}
	if translate {
		changed, err := gamefiles.SetTranslatorLanguage(installPath, language)
		if err != nil {
			return nil, err
		}
		result.LanguageChanged = changed

		if changed {
			if needNet6 {
				if err := gamefiles.InstallNet6(net6Zip, installPath); err != nil {
					return nil, err
				}
			}
			if err := gamefiles.InstallTranslationMod(translationZip, installPath); err != nil {
				return nil, err
			}
			result.TranslationApplied = true
		}
	}

	registry.Refresh(inst)
	result.Installation, result.Added = l.store.Register(inst)
	if err := l.store.Persist(result.Installation); err != nil {
		return nil, err
	}

	l.logger.Info().Str("path", installPath).Str("loader", string(loaderType)).Str("language", language).Msg("installation created")
	return result, nil
}
