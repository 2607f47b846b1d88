package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFor(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, levelFor(0))
	assert.Equal(t, zerolog.InfoLevel, levelFor(1))
	assert.Equal(t, zerolog.DebugLevel, levelFor(2))
	assert.Equal(t, zerolog.TraceLevel, levelFor(3))
	assert.Equal(t, zerolog.TraceLevel, levelFor(9))
}

func TestSetup_WritesLogFile(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	Setup(1, dir)
	log.Info().Msg("hello from test")

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}

func TestSetup_NoLogDir(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	assert.NotPanics(t, func() { Setup(0, "") })
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}
