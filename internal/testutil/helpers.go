// Package testutil holds fixtures shared by the launcher's package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// WriteFile creates a test file with content, creating parent directories
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "failed to create directory")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "failed to write file")
}

// Mkdir creates a directory tree
func Mkdir(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0755), "failed to create directory")
}

// Tree creates every file in files (relative path -> content) below root.
// Relative paths use forward slashes; a trailing slash creates an empty directory.
func Tree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if rel[len(rel)-1] == '/' {
			Mkdir(t, p)
			continue
		}
		WriteFile(t, p, content)
	}
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	assert.NoError(t, err, "file does not exist: %s", path)
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file should not exist: %s", path)
}

// AssertFileContent checks file content matches expected
func AssertFileContent(t *testing.T, path, expected string) {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read file %s", path)
	assert.Equal(t, expected, string(content), "file content mismatch for %s", path)
}
