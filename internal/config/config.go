// Package config resolves launcher settings from built-in defaults, the optional
// launcher.toml in the resource directory, PVZF_* environment variables and flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/MrModification/pvzf-launcher/internal/catalog"
	"github.com/MrModification/pvzf-launcher/internal/detect"
)

const (
	// FileName is the optional settings file in the resource directory
	FileName = "launcher.toml"

	// EnvPrefix prefixes environment overrides, e.g. PVZF_MUSIC_VOLUME
	EnvPrefix = "PVZF_"

	appDirName      = "PVZF_Launcher"
	resourceDirName = "PVZFL_Resources"
	portableMarker  = "_P"
)

// Config holds resolved launcher settings
type Config struct {
	ResourceDir     string        `koanf:"resource_dir"`
	InstallRoot     string        `koanf:"install_root"`
	CatalogFile     string        `koanf:"catalog_file"`
	CatalogURL      string        `koanf:"catalog_url"`
	PlayerLog       string        `koanf:"player_log"`
	LoaderDir       string        `koanf:"loader_dir"`
	DocumentsDir    string        `koanf:"documents_dir"`
	Music           bool          `koanf:"music"`
	MusicVolume     float64       `koanf:"music_volume"`
	Quiet           bool          `koanf:"quiet"`
	Verbose         int           `koanf:"verbose"`
	NonInteractive  bool          `koanf:"non_interactive"`
	AssumeYes       bool          `koanf:"assume_yes"`
	DownloadTimeout time.Duration `koanf:"download_timeout"`
}

// Options controls where Load looks
type Options struct {
	// ExePath is the launcher executable, used for the portable rule. Defaults to os.Executable.
	ExePath string
	// Overrides are applied last, typically from command-line flags
	Overrides map[string]interface{}
}

// IsPortable reports whether the executable name marks a portable build
func IsPortable(exePath string) bool {
	return strings.Contains(strings.ToUpper(filepath.Base(exePath)), portableMarker)
}

// BaseDir returns the directory the launcher keeps its state under: next to a
// portable executable, otherwise in the per-user data directory.
func BaseDir(exePath string) string {
	if exePath != "" && IsPortable(exePath) {
		return filepath.Dir(exePath)
	}
	return filepath.Join(xdg.DataHome, appDirName)
}

// Defaults returns the built-in settings for an executable path
func Defaults(exePath string) map[string]interface{} {
	return map[string]interface{}{
		"resource_dir":     filepath.Join(BaseDir(exePath), resourceDirName),
		"install_root":     "",
		"catalog_file":     "",
		"catalog_url":      "",
		"player_log":       detect.DefaultLogPath(),
		"loader_dir":       "",
		"documents_dir":    xdg.UserDirs.Documents,
		"music":            false,
		"music_volume":     -2.0,
		"quiet":            false,
		"verbose":          0,
		"non_interactive":  false,
		"assume_yes":       false,
		"download_timeout": "30m",
	}
}

// Load resolves the configuration
func Load(opts Options) (*Config, error) {
	exePath := opts.ExePath
	if exePath == "" {
		if p, err := os.Executable(); err == nil {
			exePath = p
		}
	}

	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(confmap.Provider(Defaults(exePath), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. launcher.toml, looked up in the resource directory that env/flags would select
	settingsPath := filepath.Join(resolveResourceDir(k, opts.Overrides), FileName)
	if _, err := os.Stat(settingsPath); err == nil {
		if err := k.Load(file.Provider(settingsPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", settingsPath, err)
		}
	}

	// 3. Environment
	if err := k.Load(envProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.fillDerived()
	return &cfg, nil
}

func envProvider() *env.Env {
	return env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
}

func resolveResourceDir(base *koanf.Koanf, overrides map[string]interface{}) string {
	k := koanf.New(".")
	_ = k.Load(confmap.Provider(base.All(), "."), nil)
	_ = k.Load(envProvider(), nil)
	if len(overrides) > 0 {
		_ = k.Load(confmap.Provider(overrides, "."), nil)
	}
	return k.String("resource_dir")
}

// fillDerived sets paths that default relative to the resource directory
func (c *Config) fillDerived() {
	if c.CatalogFile == "" {
		c.CatalogFile = filepath.Join(c.ResourceDir, catalog.FileName)
	}
	if c.LoaderDir == "" {
		c.LoaderDir = c.ResourceDir
	}
	if c.DocumentsDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.DocumentsDir = filepath.Join(home, "Documents")
		}
	}
}

// EnsureResourceDir creates the resource directory
func (c *Config) EnsureResourceDir() error {
	if err := os.MkdirAll(c.ResourceDir, 0755); err != nil {
		return fmt.Errorf("failed to create resource directory: %w", err)
	}
	return nil
}

// LogDir returns the directory launcher.log is written to
func (c *Config) LogDir() string {
	return c.ResourceDir
}
