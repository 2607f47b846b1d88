package launcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrModification/pvzf-launcher/internal/modpack"
	"github.com/MrModification/pvzf-launcher/internal/registry"
	"github.com/MrModification/pvzf-launcher/internal/testutil"
)

func patchedGame(t *testing.T) (*Launcher, *fakeProcess, string) {
	t.Helper()
	cfg := testConfig(t)
	writeBundles(t, cfg)
	l, fp := openTest(t, cfg)
	dir := gameDir(t)
	_, err := l.AddExisting(dir)
	require.NoError(t, err)
	_, err = l.Patch(dir)
	require.NoError(t, err)
	return l, fp, dir
}

func TestAddModpack(t *testing.T) {
	l, _, dir := patchedGame(t)
	pack := testutil.Modpack(t, t.TempDir(), "Alpha.Modpack", `{"name": "Alpha", "creator": "me", "version": "1.2"}`,
		map[string]string{"Mods/Alpha.dll": "a", "UserData/alpha.cfg": "cfg"})

	info, err := l.AddModpack(dir, pack, nil)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", info.Name)
	assert.Equal(t, "1.2", info.Version)
	assert.ElementsMatch(t, []string{"Mods/Alpha.dll", "UserData/alpha.cfg"}, info.InstalledFiles)

	testutil.AssertFileContent(t, filepath.Join(dir, "Mods", "Alpha.dll"), "a")

	inst, statuses, err := l.Modpacks(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, inst.ModCount)
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].Disabled)

	sidecar, err := registry.LoadInfo(dir)
	require.NoError(t, err)
	require.Len(t, sidecar.InstalledModpacks, 1)
}

func TestAddModpack_LoaderMismatch(t *testing.T) {
	l, _, dir := patchedGame(t)
	pack := testutil.Modpack(t, t.TempDir(), "Bep.Modpack", `{"name": "Bep", "creator": "me"}`,
		map[string]string{"BepInEx/Plugins/X.dll": "x"})

	_, err := l.AddModpack(dir, pack, nil)
	require.ErrorIs(t, err, modpack.ErrLoaderMismatch)
	assert.Contains(t, err.Error(), "this modpack is for BepInEx, but this installation uses MelonLoader")
}

func TestAddModpack_Conflicts(t *testing.T) {
	l, _, dir := patchedGame(t)
	work := t.TempDir()
	first := testutil.Modpack(t, work, "A.Modpack", `{"name": "A", "creator": "me"}`,
		map[string]string{"Mods/Shared.dll": "a", "Mods/OnlyA.dll": "a"})
	second := testutil.Modpack(t, work, "B.Modpack", `{"name": "B", "creator": "me"}`,
		map[string]string{"Mods/Shared.dll": "b"})

	_, err := l.AddModpack(dir, first, nil)
	require.NoError(t, err)

	_, err = l.AddModpack(dir, second, func([]string) bool { return false })
	assert.ErrorIs(t, err, ErrAborted)
	testutil.AssertFileContent(t, filepath.Join(dir, "Mods", "Shared.dll"), "a")

	var seen []string
	_, err = l.AddModpack(dir, second, func(c []string) bool {
		seen = c
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mods/Shared.dll"}, seen)
	testutil.AssertFileContent(t, filepath.Join(dir, "Mods", "Shared.dll"), "b")

	// Removing B keeps the file A still lists
	removed, err := l.RemoveModpack(dir, "b")
	require.NoError(t, err)
	assert.Equal(t, "B", removed.Name)
	testutil.AssertFileExists(t, filepath.Join(dir, "Mods", "Shared.dll"))

	_, err = l.RemoveModpack(dir, "A")
	require.NoError(t, err)
	testutil.AssertFileNotExists(t, filepath.Join(dir, "Mods", "Shared.dll"))
	testutil.AssertFileNotExists(t, filepath.Join(dir, "Mods", "OnlyA.dll"))

	_, err = l.RemoveModpack(dir, "A")
	assert.ErrorIs(t, err, modpack.ErrNotInstalled)
}

// TestModpacks_Disabled tests modpack state while the loader sits in its shadow directory
func TestModpacks_Disabled(t *testing.T) {
	l, _, dir := patchedGame(t)
	pack := testutil.Modpack(t, t.TempDir(), "A.Modpack", `{"name": "A", "creator": "me"}`,
		map[string]string{"Mods/A.dll": "a"})
	_, err := l.AddModpack(dir, pack, nil)
	require.NoError(t, err)

	_, err = l.Unpatch(dir)
	require.NoError(t, err)

	_, statuses, err := l.Modpacks(dir)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].Disabled)

	_, err = l.RemoveModpack(dir, "A")
	require.NoError(t, err)
	testutil.AssertFileNotExists(t, filepath.Join(dir, "_DISABLED_MELONLOADER", "Mods", "A.dll"))
}

func TestAddModpack_RefusedWhileRunning(t *testing.T) {
	l, fp, dir := patchedGame(t)
	pack := testutil.Modpack(t, t.TempDir(), "A.Modpack", `{"name": "A", "creator": "me"}`,
		map[string]string{"Mods/A.dll": "a"})

	fp.running = true
	_, err := l.AddModpack(dir, pack, nil)
	assert.ErrorIs(t, err, ErrGameRunning)
}

func TestPreview(t *testing.T) {
	files := []string{"a", "b", "c"}
	assert.Equal(t, files, Preview(files, 20))
	assert.Equal(t, []string{"a", "b"}, Preview(files, 2))
}
