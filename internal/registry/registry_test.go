package registry

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrModification/pvzf-launcher/internal/modpack"
	"github.com/MrModification/pvzf-launcher/internal/testutil"
)

func gameDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "3.1.1")
	testutil.WriteFile(t, filepath.Join(dir, "PlantsVsZombiesRH.exe"), "game")
	testutil.Tree(t, dir, files)
	return dir
}

func TestTimestamp_JSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{"never played", `"0001-01-01T00:00:00"`, true},
		{"null", `null`, true},
		{"empty", `""`, true},
		{"rfc3339", `"2024-05-01T12:30:00+02:00"`, false},
		{"zone-less with fraction", `"2024-05-01T12:30:00.1234567"`, false},
		{"zone-less", `"2024-05-01T12:30:00"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))
			assert.Equal(t, tt.zero, ts.IsZero())
		})
	}

	var bad Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &bad))
}

func TestTimestamp_Marshal(t *testing.T) {
	data, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, `"0001-01-01T00:00:00"`, string(data))

	when := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	data, err = json.Marshal(Timestamp{when})
	require.NoError(t, err)

	var back Timestamp
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equal(when))
}

func TestLater(t *testing.T) {
	early := Timestamp{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	late := Timestamp{time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}

	assert.Equal(t, late, Later(early, late))
	assert.Equal(t, late, Later(late, early))
	assert.Equal(t, early, Later(early, Timestamp{}))
}

func TestInstallationName(t *testing.T) {
	inst := &Installation{Path: filepath.Join("games", "3.1.1") + string(filepath.Separator)}
	assert.Equal(t, "3.1.1", inst.Name())

	inst.DisplayName = "  "
	assert.Equal(t, "3.1.1", inst.Name())

	inst.DisplayName = "Speedrun"
	assert.Equal(t, "Speedrun", inst.Name())
}

func TestRefresh(t *testing.T) {
	dir := gameDir(t, map[string]string{
		"UnityCrashHandler64.exe": "crash",
		"MelonLoader/":            "",
		"version.dll":             "v",
		"Mods/A.dll":              "a",
		"Mods/_01_core.dll":       "c",
	})

	inst := New(dir)
	assert.Equal(t, "PlantsVsZombiesRH.exe", inst.ExeName)
	assert.True(t, inst.IsPatched)
	assert.Equal(t, "MelonLoader", inst.LoaderType)
	assert.Equal(t, 1, inst.ModCount)
}

func TestRefresh_DetectsBepInEx(t *testing.T) {
	dir := gameDir(t, map[string]string{
		"BepInEx/plugins/a.dll": "a",
		"BepInEx/plugins/b.dll": "b",
		"winhttp.dll":           "w",
	})

	inst := New(dir)
	assert.Equal(t, "BepInEx", inst.LoaderType)
	assert.Equal(t, 2, inst.ModCount)
}

func TestRefresh_KeepsExplicitLoader(t *testing.T) {
	dir := gameDir(t, map[string]string{"MelonLoader/": ""})

	inst := &Installation{Path: dir, LoaderType: "BepInEx"}
	Refresh(inst)
	assert.Equal(t, "BepInEx", inst.LoaderType)
}

func TestRefresh_UnpatchedDefaultsToMelonLoader(t *testing.T) {
	inst := New(gameDir(t, nil))
	assert.False(t, inst.IsPatched)
	assert.Equal(t, "MelonLoader", inst.LoaderType)
}

func TestRefresh_MissingDirectory(t *testing.T) {
	inst := &Installation{Path: filepath.Join(t.TempDir(), "gone"), ExeName: "x.exe", ModCount: 5, IsPatched: true}
	Refresh(inst)

	assert.Empty(t, inst.ExeName)
	assert.Zero(t, inst.ModCount)
	assert.False(t, inst.IsPatched)
}

func TestSidecarRoundTrip(t *testing.T) {
	dir := gameDir(t, nil)

	missing, err := LoadInfo(dir)
	require.NoError(t, err)
	assert.Nil(t, missing)

	inst := &Installation{
		Path:       dir,
		LoaderType: "MelonLoader",
		LastPlayed: Timestamp{time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		InstalledModpacks: []modpack.Info{
			{Name: "Alpha", Creator: "me", LoaderType: "MelonLoader", InstalledFiles: []string{"Mods/A.dll"}},
		},
	}
	require.NoError(t, SaveInfo(inst))

	loaded, err := LoadInfo(dir)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, inst.InstalledModpacks, loaded.InstalledModpacks)
	assert.True(t, inst.LastPlayed.Equal(loaded.LastPlayed.Time))
}

func TestLoadInfo_Corrupt(t *testing.T) {
	dir := gameDir(t, map[string]string{InfoFileName: "{not json"})

	_, err := LoadInfo(dir)
	assert.Error(t, err)
}

func TestLoadInfo_LegacyFormat(t *testing.T) {
	dir := gameDir(t, map[string]string{InfoFileName: `{
  "Path": "C:\\Games\\PVZ",
  "ExeName": "PlantsVsZombiesRH.exe",
  "ModCount": 3,
  "IsPatched": true,
  "LastPlayed": "2024-03-02T18:04:11.5123456+01:00",
  "LoaderType": "BepInEx",
  "InstalledModpacks": [],
  "DisplayName": "PVZ"
}`})

	info, err := LoadInfo(dir)
	require.NoError(t, err)
	assert.Equal(t, "BepInEx", info.LoaderType)
	assert.Equal(t, 2024, info.LastPlayed.Year())
	assert.Equal(t, "PVZ", info.Name())
}
