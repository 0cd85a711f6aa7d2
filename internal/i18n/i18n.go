// Package i18n matches user language preferences against the supported UI
// languages and serves a small built-in message catalog.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Fallback is the language used when nothing else matches.
const Fallback = "zh"

// Language describes one supported UI language.
type Language struct {
	Code string // short code stored in settings
	Name string // endonym shown in the language switcher
	Tag  language.Tag
}

// Languages lists the supported UI languages in switcher order.
var Languages = []Language{
	{"zh", "中文", language.Chinese},
	{"en", "English", language.English},
	{"fr", "Français", language.French},
	{"de", "Deutsch", language.German},
	{"es", "Español", language.Spanish},
	{"it", "Italiano", language.Italian},
	{"sv", "Svenska", language.Swedish},
	{"da", "Dansk", language.Danish},
	{"no", "Norsk", language.Norwegian},
	{"fi", "Suomi", language.Finnish},
	{"is", "Íslenska", language.Icelandic},
	{"ja", "日本語", language.Japanese},
	{"ko", "한국어", language.Korean},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(Languages))
	for i, l := range Languages {
		tags[i] = l.Tag
	}
	return language.NewMatcher(tags)
}()

// Match returns the supported language code that best fits pref. pref may
// be a plain code ("sv"), a BCP 47 tag ("en-GB", "nb-NO") or an
// Accept-Language header value. Unmatched input yields Fallback.
func Match(pref string) string {
	pref = strings.TrimSpace(pref)
	if pref == "" {
		return Fallback
	}
	tags, _, err := language.ParseAcceptLanguage(pref)
	if err != nil || len(tags) == 0 {
		return Fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Fallback
	}
	return Languages[idx].Code
}

// IsSupported reports whether code is exactly one of the supported codes.
func IsSupported(code string) bool {
	for _, l := range Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// Lookup returns the Language for code, or the fallback language.
func Lookup(code string) Language {
	for _, l := range Languages {
		if l.Code == code {
			return l
		}
	}
	return Languages[0]
}

// T returns the message for key in lang, formatted with args. Missing
// translations fall back to English, then to the fallback language, then
// to the key itself.
func T(lang, key string, args ...any) string {
	msg, ok := catalog[lang][key]
	if !ok {
		msg, ok = catalog["en"][key]
	}
	if !ok {
		msg, ok = catalog[Fallback][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}
