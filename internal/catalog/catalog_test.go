package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrModification/pvzf-launcher/internal/testutil"
)

const sampleCatalog = `{
  "RootPath": "%Documents%/My Games/Fusion",
  "TranslationMod": "https://example.com/TranslationMod.zip",
  "Versions": [
    // newest first is not guaranteed
    {"Version": "3.0", "DownloadUrl": "https://example.com/3.0.zip"},
    {
      "Version": "3.1.1",
      "DownloadUrl": "https://example.com/3.1.1.zip",
      "Net6DownloadUrl": "https://example.com/net6.zip",
      "TranslationModDownloadUrl": "https://example.com/tm.zip"
    }
  ]
}`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	testutil.WriteFile(t, path, sampleCatalog)

	store := Load(path)
	require.Len(t, store.Versions, 2)
	assert.Equal(t, "https://example.com/TranslationMod.zip", store.TranslationMod)

	entry, ok := store.Lookup("3.1.1")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/net6.zip", entry.Net6DownloadUrl)
	assert.Equal(t, "https://example.com/tm.zip", entry.TranslationModDownloadUrl)

	_, ok = store.Lookup("9.9")
	assert.False(t, ok)
}

func TestLoad_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	assert.False(t, Exists(path))
	store := Load(path)
	require.NotNil(t, store)
	assert.Empty(t, store.Versions)
}

// TestLoad_InvalidJSON tests that a corrupt catalog degrades to an empty store
func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	testutil.WriteFile(t, path, `{"Versions": [`)

	assert.True(t, Exists(path))
	store := Load(path)
	require.NotNil(t, store)
	assert.Empty(t, store.Versions)
}

func TestVersionNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	testutil.WriteFile(t, path, sampleCatalog)

	assert.Equal(t, []string{"3.1.1", "3.0"}, Load(path).VersionNames())
}

func TestResolveRoot(t *testing.T) {
	docs := filepath.Join(t.TempDir(), "Documents")

	tests := []struct {
		name string
		root string
		want string
	}{
		{name: "empty uses default", root: "", want: filepath.Join(docs, "My Games", "PlantsVsZombiesFusionInstalls")},
		{name: "blank uses default", root: "   ", want: filepath.Join(docs, "My Games", "PlantsVsZombiesFusionInstalls")},
		{name: "documents token", root: "%Documents%/Games/PVZF", want: filepath.Join(docs, "Games", "PVZF")},
		{name: "backslashes", root: "%Documents%\\Games\\PVZF\\", want: filepath.Join(docs, "Games", "PVZF")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Store{RootPath: tt.root}
			assert.Equal(t, tt.want, s.ResolveRoot(docs))
		})
	}
}

func TestFetch(t *testing.T) {
	server := testutil.NewMockFileServer(t)
	server.SetFile("/InstallationStore.json", []byte(sampleCatalog))

	path := filepath.Join(t.TempDir(), "res", FileName)
	store, err := Fetch(context.Background(), server.URL(FileName), path)
	require.NoError(t, err)
	assert.Len(t, store.Versions, 2)

	assert.Len(t, Load(path).Versions, 2)
	testutil.AssertFileNotExists(t, path+".download")
}

// TestFetch_InvalidKeepsExisting tests that a broken download never replaces a good catalog
func TestFetch_InvalidKeepsExisting(t *testing.T) {
	server := testutil.NewMockFileServer(t)
	server.SetFile("/InstallationStore.json", []byte("<html>oops</html>"))

	path := filepath.Join(t.TempDir(), FileName)
	testutil.WriteFile(t, path, sampleCatalog)

	_, err := Fetch(context.Background(), server.URL(FileName), path)
	require.Error(t, err)
	testutil.AssertFileContent(t, path, sampleCatalog)
}
