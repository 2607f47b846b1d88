package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MrModification/pvzf-launcher/internal/embedded"
)

// ErrNoBundle is returned when no pre-packed bundle exists for a loader
var ErrNoBundle = errors.New("no loader bundle available")

// BundleSource finds pre-packed loader zips: compiled-in bundles first, then <Dir>/<Type>.zip
type BundleSource struct {
	Dir string
}

// Bundle returns the zip bytes for the loader
func (s BundleSource) Bundle(t Type) ([]byte, error) {
	if _, ok := LayoutFor(t); !ok {
		return nil, ErrNoLayout
	}

	if data := embedded.Bundle(string(t)); len(data) > 0 {
		return data, nil
	}

	if s.Dir == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoBundle, t)
	}

	path := filepath.Join(s.Dir, string(t)+".zip")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s (expected %s)", ErrNoBundle, t, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read loader bundle: %w", err)
	}
	return data, nil
}
