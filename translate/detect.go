package translate

import "strings"

const (
	frenchLetters  = "àâäçéèêëïîôöùûüÿ"
	germanLetters  = "äöüß"
	spanishLetters = "ñáéíóúü"
)

// DetectLanguage guesses the language of text from the scripts it uses.
//
// Rules are checked in a fixed order and the first match wins: Han
// ideographs (zh), kana (ja), Hangul syllables (ko), Cyrillic (ru), then
// French, German and Spanish accented letters. Anything else is English.
// Accent sets overlap, so "ü" alone reads as French.
func DetectLanguage(text string) string {
	switch {
	case containsRange(text, 0x4E00, 0x9FFF):
		return "zh"
	case containsRange(text, 0x3040, 0x30FF):
		return "ja"
	case containsRange(text, 0xAC00, 0xD7AF):
		return "ko"
	case containsRange(text, 0x0400, 0x04FF):
		return "ru"
	case strings.ContainsAny(text, frenchLetters):
		return "fr"
	case strings.ContainsAny(text, germanLetters):
		return "de"
	case strings.ContainsAny(text, spanishLetters):
		return "es"
	}
	return "en"
}

func containsRange(text string, lo, hi rune) bool {
	for _, r := range text {
		if r >= lo && r <= hi {
			return true
		}
	}
	return false
}
