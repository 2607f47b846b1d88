package launcher

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrModification/pvzf-launcher/internal/config"
	"github.com/MrModification/pvzf-launcher/internal/registry"
	"github.com/MrModification/pvzf-launcher/internal/testutil"
)

// fakeProcess records what the launcher asked the OS to do
type fakeProcess struct {
	running bool
	started []string
	opened  []string
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	res := filepath.Join(t.TempDir(), "PVZFL_Resources")
	return &config.Config{
		ResourceDir:  res,
		CatalogFile:  filepath.Join(res, "InstallationStore.json"),
		LoaderDir:    res,
		PlayerLog:    filepath.Join(t.TempDir(), "Player.log"),
		DocumentsDir: filepath.Join(t.TempDir(), "Documents"),
		InstallRoot:  filepath.Join(t.TempDir(), "Installs"),
	}
}

func openTest(t *testing.T, cfg *config.Config) (*Launcher, *fakeProcess) {
	t.Helper()

	l, err := Open(cfg)
	require.NoError(t, err)

	fp := &fakeProcess{}
	l.isRunning = func(string) bool { return fp.running }
	l.startGame = func(exe string) error {
		fp.started = append(fp.started, exe)
		return nil
	}
	l.openFolder = func(dir string) error {
		fp.opened = append(fp.opened, dir)
		return nil
	}
	return l, fp
}

// writeBundles places loader bundles where the launcher looks for them
func writeBundles(t *testing.T, cfg *config.Config) {
	t.Helper()
	testutil.WriteFile(t, filepath.Join(cfg.LoaderDir, "MelonLoader.zip"), string(testutil.MelonBundle(t)))
	testutil.WriteFile(t, filepath.Join(cfg.LoaderDir, "BepInEx.zip"), string(testutil.BepInExBundle(t)))
}

// gameDir creates an unpatched game directory
func gameDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "PVZF")
	testutil.Tree(t, dir, map[string]string{
		testutil.GameExe:                      "game",
		"UnityCrashHandler64.exe":             "crash",
		"PlantsVsZombiesRH_Data/data.unity3d": "data",
	})
	return dir
}

func TestOpen_EmptyState(t *testing.T) {
	cfg := testConfig(t)
	l, _ := openTest(t, cfg)

	assert.Empty(t, l.Installations())
	assert.DirExists(t, cfg.ResourceDir)
	testutil.AssertFileContent(t, filepath.Join(cfg.ResourceDir, registry.ListFileName), "[]")

	_, err := l.Current("")
	assert.ErrorIs(t, err, ErrNoInstallations)
}

// TestOpen_AutoDetect tests registering the game named in Player.log
func TestOpen_AutoDetect(t *testing.T) {
	cfg := testConfig(t)
	dir := gameDir(t)
	testutil.WriteFile(t, cfg.PlayerLog,
		"Loading player data from "+filepath.ToSlash(dir)+"/PlantsVsZombiesRH_Data/data.unity3d\n")

	l, _ := openTest(t, cfg)
	require.Len(t, l.Installations(), 1)
	assert.Equal(t, dir, l.Installations()[0].Path)

	// A second open doesn't register it twice
	l2, _ := openTest(t, cfg)
	assert.Len(t, l2.Installations(), 1)

	got, added, err := l2.AutoDetect()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
	assert.False(t, added)
}

func TestOpen_AutoDetectSkipsMissingDirectory(t *testing.T) {
	cfg := testConfig(t)
	testutil.WriteFile(t, cfg.PlayerLog,
		"Loading player data from C:/Nowhere/PlantsVsZombiesRH_Data/data.unity3d\n")

	l, _ := openTest(t, cfg)
	assert.Empty(t, l.Installations())
}

func TestAddExisting(t *testing.T) {
	cfg := testConfig(t)
	l, _ := openTest(t, cfg)
	dir := gameDir(t)

	inst, err := l.AddExisting(dir)
	require.NoError(t, err)
	assert.Equal(t, testutil.GameExe, inst.ExeName)
	assert.Equal(t, "MelonLoader", inst.LoaderType)

	_, err = l.AddExisting(dir)
	assert.ErrorIs(t, err, ErrAlreadyListed)

	_, err = l.AddExisting(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, ErrNotADirectory)

	// The list survives a reopen
	l2, _ := openTest(t, cfg)
	assert.Len(t, l2.Installations(), 1)
}

func TestCurrent(t *testing.T) {
	l, _ := openTest(t, testConfig(t))
	dir := gameDir(t)
	_, err := l.AddExisting(dir)
	require.NoError(t, err)

	byPath, err := l.Current(dir)
	require.NoError(t, err)

	byName, err := l.Current("pvzf")
	require.NoError(t, err)
	assert.Same(t, byPath, byName)

	def, err := l.Current("")
	require.NoError(t, err)
	assert.Same(t, byPath, def)

	_, err = l.Current("nope")
	assert.ErrorIs(t, err, registry.ErrInstallationNotFound)
}

func TestRemove(t *testing.T) {
	cfg := testConfig(t)
	l, _ := openTest(t, cfg)
	dir := gameDir(t)
	_, err := l.AddExisting(dir)
	require.NoError(t, err)

	_, err = l.Remove(dir)
	require.NoError(t, err)
	assert.Empty(t, l.Installations())
	assert.DirExists(t, dir, "files stay on disk")

	l2, _ := openTest(t, cfg)
	assert.Empty(t, l2.Installations())
}

func TestEdit(t *testing.T) {
	l, _ := openTest(t, testConfig(t))
	dir := gameDir(t)
	_, err := l.AddExisting(dir)
	require.NoError(t, err)

	inst, err := l.Edit(dir, EditOptions{Name: "  Fusion 3.1  ", Loader: "bepinex"})
	require.NoError(t, err)
	assert.Equal(t, "Fusion 3.1", inst.DisplayName)
	assert.Equal(t, "BepInEx", inst.LoaderType)

	info, err := registry.LoadInfo(dir)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "Fusion 3.1", info.DisplayName)

	_, err = l.Edit(dir, EditOptions{Name: "   "})
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = l.Edit(dir, EditOptions{Path: filepath.Join(dir, "missing")})
	assert.ErrorIs(t, err, ErrNotADirectory)

	_, err = l.Edit(dir, EditOptions{Loader: "Fabric"})
	assert.Error(t, err)
}

func TestEdit_Move(t *testing.T) {
	l, _ := openTest(t, testConfig(t))
	dir := gameDir(t)
	_, err := l.AddExisting(dir)
	require.NoError(t, err)

	moved := gameDir(t)
	inst, err := l.Edit(dir, EditOptions{Path: moved})
	require.NoError(t, err)
	assert.Equal(t, moved, inst.Path)
	assert.Empty(t, inst.DisplayName, "name is untouched")

	_, err = l.Current(dir)
	assert.ErrorIs(t, err, registry.ErrInstallationNotFound)
}

// TestEdit_LoaderChangeWhilePatched tests that the loader can't be switched under a patched game
func TestEdit_LoaderChangeWhilePatched(t *testing.T) {
	cfg := testConfig(t)
	writeBundles(t, cfg)
	l, _ := openTest(t, cfg)
	dir := gameDir(t)
	_, err := l.AddExisting(dir)
	require.NoError(t, err)
	_, err = l.Patch(dir)
	require.NoError(t, err)

	_, err = l.Edit(dir, EditOptions{Name: "Renamed", Loader: "BepInEx"})
	assert.ErrorIs(t, err, ErrUnpatchFirst)

	inst, err := l.Current(dir)
	require.NoError(t, err)
	assert.Equal(t, "MelonLoader", inst.LoaderType)
	assert.Empty(t, inst.DisplayName, "refused edits change nothing")

	// Same loader, different case, is not a change
	_, err = l.Edit(dir, EditOptions{Loader: "melonloader"})
	assert.NoError(t, err)
}

func TestInstallRoot(t *testing.T) {
	cfg := testConfig(t)
	l, _ := openTest(t, cfg)
	assert.Equal(t, cfg.InstallRoot, l.InstallRoot())

	cfg.InstallRoot = ""
	assert.Equal(t, filepath.Join(cfg.DocumentsDir, "My Games", "PlantsVsZombiesFusionInstalls"), l.InstallRoot())
}

func TestRefreshCatalog(t *testing.T) {
	server := testutil.NewMockFileServer(t)
	server.SetFile("/store.json", []byte(`{"Versions": [{"Version": "3.1.1", "DownloadUrl": "x"}]}`))

	cfg := testConfig(t)
	l, _ := openTest(t, cfg)
	assert.Error(t, l.RefreshCatalog(context.Background()), "no URL configured")

	cfg.CatalogURL = server.URL("/store.json")
	require.NoError(t, l.RefreshCatalog(context.Background()))
	assert.Equal(t, []string{"3.1.1"}, l.Catalog().VersionNames())
	testutil.AssertFileExists(t, cfg.CatalogFile)
}

// TestRefreshCatalog_Timeout tests that download_timeout bounds a stalled download
func TestRefreshCatalog_Timeout(t *testing.T) {
	server := testutil.NewMockFileServer(t)
	server.SetFile("/store.json", []byte(`{"Versions": []}`))
	server.SetDelay(10 * time.Second)

	cfg := testConfig(t)
	cfg.CatalogURL = server.URL("/store.json")
	cfg.DownloadTimeout = 200 * time.Millisecond
	l, _ := openTest(t, cfg)

	start := time.Now()
	err := l.RefreshCatalog(context.Background())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	testutil.AssertFileNotExists(t, cfg.CatalogFile)
}
