// Package langmeta provides the registry of target languages jsonlate can
// translate into, with display names and emoji flags for the CLI and API.
package langmeta

import "strings"

// Language describes a supported language.
type Language struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Native string `json:"native"`
	Flag   string `json:"flag"`
}

// Registry lists the supported languages in display order.
var Registry = []Language{
	{Code: "en", Name: "English", Native: "English", Flag: "🇺🇸"},
	{Code: "zh", Name: "Chinese", Native: "中文", Flag: "🇨🇳"},
	{Code: "ja", Name: "Japanese", Native: "日本語", Flag: "🇯🇵"},
	{Code: "ko", Name: "Korean", Native: "한국어", Flag: "🇰🇷"},
	{Code: "fr", Name: "French", Native: "Français", Flag: "🇫🇷"},
	{Code: "de", Name: "German", Native: "Deutsch", Flag: "🇩🇪"},
	{Code: "es", Name: "Spanish", Native: "Español", Flag: "🇪🇸"},
	{Code: "ru", Name: "Russian", Native: "Русский", Flag: "🇷🇺"},
	{Code: "ar", Name: "Arabic", Native: "العربية", Flag: "🇸🇦"},
}

var byCode = func() map[string]Language {
	out := make(map[string]Language, len(Registry))
	for _, l := range Registry {
		out[l.Code] = l
	}
	return out
}()

// Supported returns a copy of the registry.
func Supported() []Language {
	out := make([]Language, len(Registry))
	copy(out, Registry)
	return out
}

// Codes returns the supported language codes in display order.
func Codes() []string {
	out := make([]string, len(Registry))
	for i, l := range Registry {
		out[i] = l.Code
	}
	return out
}

// Normalize maps locale variants such as "zh_CN", "zh-TW" or "PT-br" to
// their lowercase base code ("zh", "pt").
func Normalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if i := strings.IndexByte(normalized, '-'); i >= 0 {
		normalized = normalized[:i]
	}
	return strings.ToLower(normalized)
}

// IsSupported reports whether lang (or its base code) is a supported
// target language.
func IsSupported(lang string) bool {
	_, ok := byCode[Normalize(lang)]
	return ok
}

// Resolve returns metadata for lang, falling back to its base code.
// Unknown languages get a Language whose names are the input itself.
func Resolve(lang string) Language {
	if l, ok := byCode[lang]; ok {
		return l
	}
	if l, ok := byCode[Normalize(lang)]; ok {
		return l
	}
	return Language{Code: lang, Name: lang, Native: lang}
}
