package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cavaliergopher/grab/v3"

	"github.com/MrModification/pvzf-launcher/internal/logging"
)

var client = grab.NewClient()

// ProgressCallback is called during download with progress info
type ProgressCallback func(bytesComplete, totalBytes int64, percentage int)

// File downloads a file from URL to the target path
func File(ctx context.Context, url, targetPath string) error {
	return FileWithProgress(ctx, url, targetPath, nil)
}

// FileWithProgress downloads a file with progress callback
func FileWithProgress(ctx context.Context, url, targetPath string, callback ProgressCallback) error {
	logger := logging.GetLogger("download")

	req, err := grab.NewRequest(targetPath, url)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req = req.WithContext(ctx)
	req.NoResume = true // Always overwrite, never resume

	logger.Debug().Str("url", url).Str("target", targetPath).Msg("starting download")
	resp := client.Do(req)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	lastPercentage := -1
loop:
	for {
		select {
		case <-ticker.C:
			if callback != nil {
				var percentage int
				if resp.Size() > 0 {
					percentage = int(resp.Progress() * 100)
				}
				if percentage != lastPercentage {
					callback(resp.BytesComplete(), resp.Size(), percentage)
					lastPercentage = percentage
				}
			}
		case <-resp.Done:
			if callback != nil && resp.Size() > 0 && resp.Err() == nil {
				callback(resp.BytesComplete(), resp.Size(), 100)
			}
			break loop
		}
	}

	if err := resp.Err(); err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	logger.Debug().Int64("bytes", resp.BytesComplete()).Msg("download complete")
	return nil
}

// ToTemp downloads url into the OS temp dir under the given file name and returns the path.
// An existing file with that name is overwritten.
func ToTemp(ctx context.Context, url, name string, callback ProgressCallback) (string, error) {
	tempPath, err := ValidatePath(os.TempDir(), filepath.Join(os.TempDir(), name))
	if err != nil {
		return "", err
	}

	if err := FileWithProgress(ctx, url, tempPath, callback); err != nil {
		_ = os.Remove(tempPath) // Best effort cleanup
		return "", err
	}

	return tempPath, nil
}

// ValidatePath ensures a path doesn't escape the base directory (path traversal protection)
func ValidatePath(basePath, targetPath string) (string, error) {
	absBase, err := filepath.Abs(basePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}

	absTarget, err := filepath.Abs(targetPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve target path: %w", err)
	}

	if absTarget != absBase && !strings.HasPrefix(absTarget, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt detected")
	}

	return absTarget, nil
}
