package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrModification/pvzf-launcher/internal/paths"
)

// EntryName returns the entry's name with forward slashes. A trailing slash marks a directory.
func EntryName(f *zip.File) string {
	return strings.ReplaceAll(f.Name, "\\", "/")
}

// IsDir reports whether a zip entry is a directory entry
func IsDir(f *zip.File) bool {
	return strings.HasSuffix(EntryName(f), "/") || f.FileInfo().IsDir()
}

// ExtractAll extracts every entry of the archive into dest, overwriting existing files.
func ExtractAll(zipPath, dest string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filepath.Base(zipPath), err)
	}
	defer reader.Close()

	return extractTree(&reader.Reader, "", dest)
}

// ExtractBytes extracts an in-memory zip into dest, overwriting existing files.
func ExtractBytes(data []byte, dest string) error {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("failed to open zip data: %w", err)
	}

	return extractTree(reader, "", dest)
}

// ExtractSubtree extracts the entries below root (matched case-insensitively) into dest,
// stripping root from their names. An empty root extracts the whole archive.
func ExtractSubtree(zipPath, root, dest string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filepath.Base(zipPath), err)
	}
	defer reader.Close()

	return extractTree(&reader.Reader, root, dest)
}

func extractTree(reader *zip.Reader, root, dest string) error {
	root = strings.Trim(strings.ReplaceAll(root, "\\", "/"), "/")

	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	for _, f := range reader.File {
		full := EntryName(f)

		rel := strings.TrimLeft(full, "/")
		if root != "" {
			if !paths.HasPrefixFold(full, root+"/") {
				continue
			}
			rel = strings.TrimLeft(full[len(root)+1:], "/")
		}

		// Skip the root directory itself
		if rel == "" {
			continue
		}

		target, err := paths.Within(dest, rel)
		if err != nil {
			return err
		}

		if IsDir(f) {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", rel, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("failed to create parent dir for %s: %w", rel, err)
		}

		if err := extractFile(f, target); err != nil {
			return fmt.Errorf("failed to extract %s: %w", rel, err)
		}
	}

	return nil
}

func extractFile(f *zip.File, targetPath string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	perm := f.Mode().Perm()
	if perm&0600 != 0600 {
		perm |= 0644
	}

	out, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

// FindEntry returns the name of the first entry for which match returns true.
func FindEntry(zipPath string, match func(name string) bool) (string, bool, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", false, fmt.Errorf("failed to open %s: %w", filepath.Base(zipPath), err)
	}
	defer reader.Close()

	for _, f := range reader.File {
		name := EntryName(f)
		if match(name) {
			return name, true, nil
		}
	}

	return "", false, nil
}

// ListFiles returns the names of all file (non-directory) entries
func ListFiles(zipPath string) ([]string, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(zipPath), err)
	}
	defer reader.Close()

	var files []string
	for _, f := range reader.File {
		if IsDir(f) {
			continue
		}
		files = append(files, EntryName(f))
	}

	return files, nil
}

// ParentDir returns the directory portion of a normalized entry name, "" for top-level entries
func ParentDir(name string) string {
	name = strings.TrimSuffix(name, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[:i]
	}
	return ""
}

// BaseName returns the last element of a normalized entry name
func BaseName(name string) string {
	name = strings.TrimSuffix(name, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
