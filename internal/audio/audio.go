// Package audio plays the launcher's background music.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/MrModification/pvzf-launcher/internal/logging"
)

// MusicFileName is the music file kept in the resource directory
const MusicFileName = "Launcher_Music.wav"

// ErrNoMusic is returned when the resource directory has no .wav file
var ErrNoMusic = errors.New("no launcher music found")

var (
	speakerOnce      sync.Once
	speakerReady     bool
	speakerErr       error
	backgroundVolume *effects.Volume
	backgroundMutex  sync.Mutex
	quiet            bool
)

// Init configures the audio package. Quiet mode disables playback.
func Init(quietMode bool) {
	quiet = quietMode
}

func ensureSpeakerInitialized(format beep.Format) error {
	speakerOnce.Do(func() {
		logging.GetLogger("audio").Debug().Int("rate", int(format.SampleRate)).Msg("setting up audio")
		speakerErr = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
		speakerReady = speakerErr == nil
	})
	return speakerErr
}

// DecodeSound decodes WAV sound data into a streamer
func DecodeSound(soundData []byte) (beep.StreamSeekCloser, beep.Format, error) {
	if len(soundData) == 0 {
		return nil, beep.Format{}, errors.New("no sound data")
	}

	streamer, format, err := wav.Decode(bytes.NewReader(soundData))
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("sound file couldn't be decoded: %w", err)
	}

	return streamer, format, nil
}

// FindMusic returns the first .wav file (by name) at the top of resDir
func FindMusic(resDir string) (string, error) {
	entries, err := os.ReadDir(resDir)
	if err != nil {
		return "", ErrNoMusic
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", ErrNoMusic
	}
	sort.Strings(names)
	return filepath.Join(resDir, names[0]), nil
}

// PlayMusic starts looping the launcher music from resDir at the given volume (dB).
// It returns immediately; call StopAll to end playback.
func PlayMusic(resDir string, volumeDB float64) error {
	if quiet {
		return nil
	}

	path, err := FindMusic(resDir)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read music: %w", err)
	}

	return PlayAsyncLoop(data, volumeDB, true)
}

// PlayAsyncLoop plays a sound asynchronously, optionally looping
func PlayAsyncLoop(soundData []byte, volumeDB float64, loop bool) error {
	logger := logging.GetLogger("audio")

	streamer, format, err := DecodeSound(soundData)
	if err != nil {
		return err
	}

	if err := ensureSpeakerInitialized(format); err != nil {
		streamer.Close()
		return fmt.Errorf("failed to initialize audio: %w", err)
	}

	var finalStreamer beep.Streamer = streamer
	if loop {
		finalStreamer = beep.Loop(-1, streamer)
	}

	backgroundMutex.Lock()
	backgroundVolume = &effects.Volume{
		Streamer: finalStreamer,
		Base:     2,
		Volume:   volumeDB,
		Silent:   false,
	}
	vol := backgroundVolume
	backgroundMutex.Unlock()

	speaker.Play(beep.Seq(vol, beep.Callback(func() {
		streamer.Close()
		backgroundMutex.Lock()
		backgroundVolume = nil
		backgroundMutex.Unlock()
	})))

	logger.Debug().Bool("loop", loop).Msg("started background sound")
	return nil
}

// StopAll stops all currently playing sounds
func StopAll() {
	if !speakerReady {
		return
	}
	speaker.Clear()
}

// SetMusic validates src as a WAV file and copies it into resDir as the launcher music
func SetMusic(resDir, src string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(src), err)
	}

	streamer, _, err := DecodeSound(data)
	if err != nil {
		return err
	}
	streamer.Close()

	if err := os.MkdirAll(resDir, 0755); err != nil {
		return fmt.Errorf("failed to create resource directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(resDir, MusicFileName), data, 0644); err != nil {
		return fmt.Errorf("failed to save music: %w", err)
	}
	return nil
}

// ResetMusic removes the custom launcher music
func ResetMusic(resDir string) error {
	err := os.Remove(filepath.Join(resDir, MusicFileName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove music: %w", err)
	}
	return nil
}
