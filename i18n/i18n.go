// Package i18n localizes jsonlate's own user-facing messages.
//
// Catalogs are gettext .po files embedded from locales/{lang}/LC_MESSAGES
// and read with gotext. Messages without a translation are returned as-is.
//
//	i18n.Init("")  // LANGUAGE, LC_ALL, LC_MESSAGES, LANG
//	fmt.Println(i18n.T("No fields selected"))
//	fmt.Printf(i18n.N("%d field", "%d fields", n)+"\n", n)
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var locales embed.FS

// domain is the gettext domain name for jsonlate.
const domain = "jsonlate"

var (
	po     *gotext.Locale
	active = "en"
)

// Init loads the catalog for lang. An empty lang is detected from the
// environment the way GNU gettext does it. Init returns the language used.
func Init(lang string) string {
	if lang == "" {
		lang = detectLanguage()
	}
	active = lang

	po = gotext.NewLocaleFSWithPath(baseLanguage(lang), locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
	return lang
}

// Language returns the language passed to (or detected by) Init.
func Language() string { return active }

// T translates msgid. Messages containing verbs are formatted by the caller.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// N translates a message with plural forms chosen by n.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

// detectLanguage follows GNU gettext priority:
// LANGUAGE > LC_ALL > LC_MESSAGES > LANG.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		// LANGUAGE can be a colon-separated list; take the first
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		// "ru_RU.UTF-8" -> "ru_RU"
		if idx := strings.IndexByte(val, '.'); idx >= 0 {
			val = val[:idx]
		}
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}

// baseLanguage maps "zh_CN" to "zh" so region variants share a catalog.
func baseLanguage(lang string) string {
	if i := strings.IndexAny(lang, "_-"); i >= 0 {
		return lang[:i]
	}
	return lang
}
