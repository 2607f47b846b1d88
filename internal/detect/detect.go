// Package detect finds an existing game installation from the Unity player log.
package detect

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/MrModification/pvzf-launcher/internal/logging"
)

const logMarker = "Loading player data from "

// DefaultLogPath returns the game's Player.log under LocalLow
func DefaultLogPath() string {
	return filepath.Clean(filepath.Join(xdg.DataHome, "..", "LocalLow", "LanPiaoPiao", "PlantsVsZombiesRH", "Player.log"))
}

// ExeDirFromLogLine extracts the game directory from a "Loading player data from" line.
// The directory is the parent of the <name>_Data folder; "" when the line doesn't carry one.
func ExeDirFromLogLine(line string) string {
	idx := strings.Index(line, logMarker)
	if idx < 0 {
		return ""
	}

	full := strings.ReplaceAll(strings.TrimSpace(line[idx+len(logMarker):]), "\\", "/")

	dataIdx := strings.Index(strings.ToLower(full), "_data/")
	if dataIdx < 0 {
		return ""
	}

	dataFolder := full[:dataIdx+len("_Data")]
	exeDir := path.Dir(dataFolder)
	if exeDir == "." || exeDir == dataFolder {
		return ""
	}
	return filepath.FromSlash(exeDir)
}

// FromLog returns the first game directory named in the log at logPath, or "" when none is found
func FromLog(logPath string) string {
	logger := logging.GetLogger("detect")

	f, err := os.Open(logPath)
	if err != nil {
		logger.Debug().Err(err).Msg("no player log")
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if dir := ExeDirFromLogLine(scanner.Text()); dir != "" {
			logger.Debug().Str("dir", dir).Msg("found game directory in player log")
			return dir
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Debug().Err(err).Msg("failed to read player log")
	}
	return ""
}
