package gamefiles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const translatorSection = "[PvZ_Fusion_Translator]"

// PreferencesPath returns the MelonLoader preferences file of an installation
func PreferencesPath(installDir string) string {
	return filepath.Join(installDir, "UserData", "MelonPreferences.cfg")
}

// SetTranslatorLanguage writes the translator's Language setting into MelonPreferences.cfg,
// creating the file or the section when missing. It reports whether the language changed.
func SetTranslatorLanguage(installDir, language string) (bool, error) {
	cfgPath := PreferencesPath(installDir)
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0755); err != nil {
		return false, fmt.Errorf("failed to create UserData: %w", err)
	}

	langLine := `Language = "` + language + `"`
	newSection := []string{
		translatorSection,
		"DefaultTextures = false",
		"DefaultAudio = false",
		langLine,
	}

	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return true, writeLines(cfgPath, newSection, "\r\n")
	}
	if err != nil {
		return false, fmt.Errorf("failed to read preferences: %w", err)
	}

	content := string(data)
	eol := "\n"
	if strings.Contains(content, "\r\n") {
		eol = "\r\n"
	}
	if strings.TrimSpace(content) == "" {
		return true, writeLines(cfgPath, newSection, eol)
	}
	lines := strings.Split(strings.TrimRight(content, "\r\n"), eol)

	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == translatorSection {
			start = i
			break
		}
	}

	if start == -1 {
		lines = append(lines, "")
		lines = append(lines, newSection...)
		return true, writeLines(cfgPath, lines, eol)
	}

	changed := false
	found := false
	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			end = i
			break
		}
		if !strings.HasPrefix(line, "Language") {
			continue
		}

		found = true
		if parts := strings.Split(line, "="); len(parts) == 2 {
			if strings.Trim(strings.TrimSpace(parts[1]), `"`) != language {
				changed = true
			}
		}
		lines[i] = langLine
	}

	if !found {
		// Section without a Language key: add it at the end of the section
		lines = append(lines[:end], append([]string{langLine}, lines[end:]...)...)
		changed = true
	}

	return changed, writeLines(cfgPath, lines, eol)
}

func writeLines(path string, lines []string, eol string) error {
	if err := os.WriteFile(path, []byte(strings.Join(lines, eol)+eol), 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}
