// Package launcher ties the installation list, the catalog, loader bundles and the
// game files together into the operations the command line exposes.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/MrModification/pvzf-launcher/internal/catalog"
	"github.com/MrModification/pvzf-launcher/internal/config"
	"github.com/MrModification/pvzf-launcher/internal/detect"
	"github.com/MrModification/pvzf-launcher/internal/loader"
	"github.com/MrModification/pvzf-launcher/internal/logging"
	"github.com/MrModification/pvzf-launcher/internal/paths"
	"github.com/MrModification/pvzf-launcher/internal/process"
	"github.com/MrModification/pvzf-launcher/internal/registry"
)

var (
	ErrNoInstallations = errors.New("no installations registered")
	ErrNotADirectory   = errors.New("directory does not exist")
	ErrAlreadyListed   = errors.New("installation is already listed")
	ErrUnpatchFirst    = errors.New("unpatch the installation before changing its loader")
	ErrGameRunning     = errors.New("the game is running from this installation")
	ErrEmptyName       = errors.New("name cannot be empty")
)

// Launcher owns the launcher's state for one command invocation
type Launcher struct {
	cfg     *config.Config
	store   *registry.Store
	catalog *catalog.Store
	bundles loader.BundleSource
	logger  zerolog.Logger

	isRunning  func(dir string) bool
	startGame  func(exe string) error
	openFolder func(dir string) error
}

// Open loads the installation list and catalog, reconciles the list against the
// sidecar files on disk and registers a game found through Player.log.
func Open(cfg *config.Config) (*Launcher, error) {
	if err := cfg.EnsureResourceDir(); err != nil {
		return nil, err
	}

	l := &Launcher{
		cfg:        cfg,
		store:      registry.Load(filepath.Join(cfg.ResourceDir, registry.ListFileName)),
		catalog:    catalog.Load(cfg.CatalogFile),
		bundles:    loader.BundleSource{Dir: cfg.LoaderDir},
		logger:     logging.GetLogger("launcher"),
		isRunning:  process.IsRunningFrom,
		startGame:  process.Start,
		openFolder: process.OpenFolder,
	}

	if err := l.store.Reconcile(); err != nil {
		return nil, err
	}

	if _, _, err := l.AutoDetect(); err != nil {
		l.logger.Warn().Err(err).Msg("auto-detect failed")
	}

	return l, nil
}

// Config returns the resolved configuration
func (l *Launcher) Config() *config.Config {
	return l.cfg
}

// Installations returns every registered installation
func (l *Launcher) Installations() []*registry.Installation {
	return l.store.All()
}

// Catalog returns the loaded version catalog
func (l *Launcher) Catalog() *catalog.Store {
	return l.catalog
}

// RefreshCatalog downloads the catalog from the configured URL and replaces the local copy
func (l *Launcher) RefreshCatalog(ctx context.Context) error {
	if strings.TrimSpace(l.cfg.CatalogURL) == "" {
		return errors.New("no catalog_url configured")
	}

	ctx, cancel := l.downloadContext(ctx)
	defer cancel()

	store, err := catalog.Fetch(ctx, l.cfg.CatalogURL, l.cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("failed to refresh catalog: %w", err)
	}
	l.catalog = store
	return nil
}

// downloadContext bounds one download by download_timeout. Zero means no limit.
func (l *Launcher) downloadContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.cfg.DownloadTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, l.cfg.DownloadTimeout)
}

// InstallRoot returns the directory new installations are created under
func (l *Launcher) InstallRoot() string {
	if strings.TrimSpace(l.cfg.InstallRoot) != "" {
		return l.cfg.InstallRoot
	}
	return l.catalog.ResolveRoot(l.cfg.DocumentsDir)
}

// AutoDetect reads the game's Player.log and registers the directory it names when it
// exists and isn't listed yet. It returns the detected directory ("" when none) and
// whether it was added.
func (l *Launcher) AutoDetect() (string, bool, error) {
	dir := detect.FromLog(l.cfg.PlayerLog)
	if dir == "" {
		return "", false, nil
	}
	if !paths.IsDir(dir) {
		l.logger.Debug().Str("dir", dir).Msg("detected directory no longer exists")
		return dir, false, nil
	}
	if l.store.Find(dir) != nil {
		return dir, false, nil
	}

	l.store.Add(dir)
	if err := l.store.Save(); err != nil {
		return dir, false, err
	}

	l.logger.Info().Str("dir", dir).Msg("registered detected installation")
	return dir, true, nil
}

// Current resolves an installation by path or display name. An empty selector picks
// the most recently played installation.
func (l *Launcher) Current(sel string) (*registry.Installation, error) {
	sel = strings.TrimSpace(sel)
	if sel == "" {
		inst := l.store.SelectDefault()
		if inst == nil {
			return nil, ErrNoInstallations
		}
		return inst, nil
	}

	if inst := l.store.Find(sel); inst != nil {
		return inst, nil
	}
	if abs, err := filepath.Abs(sel); err == nil {
		if inst := l.store.Find(abs); inst != nil {
			return inst, nil
		}
	}
	if inst := l.store.FindByName(sel); inst != nil {
		return inst, nil
	}

	return nil, fmt.Errorf("%w: %s", registry.ErrInstallationNotFound, sel)
}

// AddExisting registers a game directory that is already on disk
func (l *Launcher) AddExisting(dir string) (*registry.Installation, error) {
	abs, err := filepath.Abs(strings.TrimSpace(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if !paths.IsDir(abs) {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, abs)
	}

	inst, added := l.store.Add(abs)
	if !added {
		return inst, fmt.Errorf("%w: %s", ErrAlreadyListed, inst.Path)
	}

	if err := l.store.Save(); err != nil {
		return nil, err
	}

	l.logger.Info().Str("path", abs).Msg("installation added")
	return inst, nil
}

// Remove unregisters an installation. Its files stay on disk.
func (l *Launcher) Remove(sel string) (*registry.Installation, error) {
	inst, err := l.Current(sel)
	if err != nil {
		return nil, err
	}

	if err := l.store.Remove(inst.Path); err != nil {
		return nil, err
	}
	if err := l.store.Save(); err != nil {
		return nil, err
	}

	l.logger.Info().Str("path", inst.Path).Msg("installation removed")
	return inst, nil
}

// EditOptions holds the fields Edit may change; empty fields are left alone
type EditOptions struct {
	Name   string
	Path   string
	Loader string
}

// Edit renames, moves or switches the loader of an installation.
// A loader switch is refused while the installation is patched.
func (l *Launcher) Edit(sel string, opts EditOptions) (*registry.Installation, error) {
	inst, err := l.Current(sel)
	if err != nil {
		return nil, err
	}

	name := inst.DisplayName
	if opts.Name != "" {
		name = strings.TrimSpace(opts.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
	}

	path := inst.Path
	if strings.TrimSpace(opts.Path) != "" {
		path, err = filepath.Abs(strings.TrimSpace(opts.Path))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", opts.Path, err)
		}
		if !paths.IsDir(path) {
			return nil, fmt.Errorf("%w: %s", ErrNotADirectory, path)
		}
		if other := l.store.Find(path); other != nil && other != inst {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyListed, other.Path)
		}
	}

	loaderType := inst.LoaderType
	if opts.Loader != "" {
		t, err := loader.ParseType(opts.Loader)
		if err != nil {
			return nil, err
		}
		if !strings.EqualFold(string(t), inst.LoaderType) {
			if loader.IsPatched(path) {
				return nil, ErrUnpatchFirst
			}
			loaderType = string(t)
		}
	}

	inst.DisplayName = name
	inst.Path = path
	inst.LoaderType = loaderType
	registry.Refresh(inst)

	if err := l.store.Persist(inst); err != nil {
		return nil, err
	}

	l.logger.Info().Str("path", inst.Path).Str("name", inst.Name()).Str("loader", inst.LoaderType).Msg("installation edited")
	return inst, nil
}

func (l *Launcher) ensureNotRunning(inst *registry.Installation) error {
	if l.isRunning(inst.Path) {
		return fmt.Errorf("%w: %s", ErrGameRunning, inst.Path)
	}
	return nil
}

func ensureDir(dir string) error {
	if !paths.IsDir(dir) {
		return fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}
	return nil
}

func removeQuietly(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}
