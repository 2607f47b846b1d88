package gamefiles

import "strings"

// NativeLanguage is the game's own language; it needs no translation mod
const NativeLanguage = "Chinese"

// Language pairs a display name with the translator's language key
type Language struct {
	Display string
	Key     string
}

// Languages lists every language the translator supports, in menu order
var Languages = []Language{
	{"中文 (Chinese)", "Chinese"},
	{"العربية", "Arabic"},
	{"English", "English"},
	{"Filipino", "Filipino"},
	{"Français", "French"},
	{"Deutsch", "German"},
	{"Bahasa Indonesia", "Indonesian"},
	{"Italiano", "Italian"},
	{"日本語", "Japanese"},
	{"Basa Jawa", "Javanese"},
	{"한국어", "Korean"},
	{"Polski", "Polish"},
	{"Português", "Portuguese"},
	{"Română", "Romanian"},
	{"Русский", "Russian"},
	{"Español", "Spanish"},
	{"Türkçe", "Turkish"},
	{"Українська", "Ukrainian"},
	{"Tiếng Việt", "Vietnamese"},
}

// LookupLanguage resolves a display name or key (case-insensitive) to a language key
func LookupLanguage(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, l := range Languages {
		if strings.EqualFold(name, l.Key) || strings.EqualFold(name, l.Display) {
			return l.Key, true
		}
	}
	return "", false
}

// NeedsTranslation reports whether a language key requires the translation mod
func NeedsTranslation(key string) bool {
	return key != "" && !strings.EqualFold(key, NativeLanguage)
}
