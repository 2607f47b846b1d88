package testutil

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Entry is one zip member. Names ending in "/" become directory entries.
type Entry struct {
	Name string
	Body string
}

// ZipBytes builds an in-memory zip from entries, preserving their order
func ZipBytes(t *testing.T, entries ...Entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		fw, err := w.Create(e.Name)
		require.NoError(t, err, "failed to create zip entry %s", e.Name)
		if strings.HasSuffix(e.Name, "/") {
			continue
		}
		_, err = fw.Write([]byte(e.Body))
		require.NoError(t, err, "failed to write zip entry %s", e.Name)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

// Zip writes a zip archive named name inside dir and returns its path
func Zip(t *testing.T, dir, name string, entries ...Entry) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, ZipBytes(t, entries...), 0644))
	return path
}
