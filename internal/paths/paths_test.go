package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNormalize tests path normalization (backslash to forward slash)
func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Windows backslash to forward slash",
			input: "C:\\Users\\test\\file.txt",
			want:  "C:/Users/test/file.txt",
		},
		{
			name:  "already normalized",
			input: "C:/Users/test/file.txt",
			want:  "C:/Users/test/file.txt",
		},
		{
			name:  "mixed separators",
			input: "C:\\Users/test\\file.txt",
			want:  "C:/Users/test/file.txt",
		},
		{
			name:  "relative path",
			input: "..\\sub\\file.txt",
			want:  "../sub/file.txt",
		},
		{
			name:  "trailing slash is dropped",
			input: "GameDirectory/Mods/",
			want:  "GameDirectory/Mods",
		},
		{
			name:  "empty string becomes dot (path.Clean behavior)",
			input: "",
			want:  ".",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestDenormalize(t *testing.T) {
	sep := string(filepath.Separator)
	assert.Equal(t, "Mods"+sep+"a"+sep+"b.dll", Denormalize("Mods/a/b.dll"))
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "C:/Games/PVZ", "C:/Games/PVZ", true},
		{"case differs", "C:/Games/PVZ", "c:/games/pvz", true},
		{"separators differ", "C:\\Games\\PVZ", "C:/Games/PVZ", true},
		{"trailing separator", "C:/Games/PVZ/", "C:/Games/PVZ", true},
		{"different dirs", "C:/Games/PVZ", "C:/Games/PVZ2", false},
		{"empty vs path", "", "C:/Games", false},
		{"both empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestHasPrefixFold(t *testing.T) {
	assert.True(t, HasPrefixFold("GameDirectory/Mods/a.dll", "gamedirectory/"))
	assert.True(t, HasPrefixFold("gamedirectory/BepInEx/x", "GameDirectory/bepinex/"))
	assert.False(t, HasPrefixFold("Game", "GameDirectory/"))
	assert.False(t, HasPrefixFold("Other/Mods", "GameDirectory/"))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "3.1.1", BaseName("C:\\Installs\\3.1.1\\"))
	assert.Equal(t, "3.1.1", BaseName("/home/u/Installs/3.1.1"))
	assert.Equal(t, "game", BaseName("game"))
	assert.Equal(t, "/", BaseName("/"))
}

// TestFindActual_CaseInsensitive tests resolving the on-disk case of a path
func TestFindActual_CaseInsensitive(t *testing.T) {
	tempDir := t.TempDir()
	actual := filepath.Join(tempDir, "Plugins")
	require.NoError(t, os.Mkdir(actual, 0755))

	got, err := FindActual(filepath.Join(tempDir, "plugins"))
	require.NoError(t, err)
	assert.Equal(t, actual, got)
}

func TestFindActual_Missing(t *testing.T) {
	tempDir := t.TempDir()
	missing := filepath.Join(tempDir, "nothing-here")

	got, err := FindActual(missing)
	require.NoError(t, err)
	assert.Equal(t, missing, got, "missing paths are returned unchanged")
}

// TestWithin_PreventTraversal tests zip-slip protection (SECURITY CRITICAL)
func TestWithin_PreventTraversal(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name    string
		rel     string
		wantErr bool
	}{
		{"plain file", "file.txt", false},
		{"nested file", "Mods/sub/file.dll", false},
		{"backslash nested", "Mods\\sub\\file.dll", false},
		{"dot dot escape", "../evil.txt", true},
		{"backslash escape", "..\\..\\evil.txt", true},
		{"escape after descending", "a/b/../../../evil.txt", true},
		{"internal dot dot that stays inside", "a/../b.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Within(base, tt.rel)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "traversal")
				return
			}
			require.NoError(t, err)
			assert.True(t, HasPrefixFold(got, base))
		})
	}
}

func TestExistsAndIsDir(t *testing.T) {
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "version.dll")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.True(t, Exists(file))
	assert.False(t, IsDir(file))
	assert.True(t, IsDir(tempDir))
	assert.False(t, Exists(filepath.Join(tempDir, "missing")))
}
