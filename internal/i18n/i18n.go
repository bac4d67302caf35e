// Package i18n resolves user-facing strings. A Translator is built once at
// startup with a fixed locale and passed to the components that need it.
package i18n

import (
	"os"
	"strconv"
	"strings"
)

// Supported locales.
const (
	LocaleEN = "en"
	LocaleZH = "zh"
)

// Translator looks up strings for one locale with English fallback.
type Translator struct {
	locale string
}

// New returns a Translator for locale. Any locale starting with "zh" maps to
// Chinese; everything else is English.
func New(locale string) *Translator {
	return &Translator{locale: normalize(locale)}
}

// Detect picks a locale from LC_ALL, LC_MESSAGES, or LANG.
func Detect() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return normalize(v)
		}
	}
	return LocaleEN
}

func normalize(locale string) string {
	if strings.HasPrefix(strings.ToLower(locale), "zh") {
		return LocaleZH
	}
	return LocaleEN
}

// Locale returns the resolved locale.
func (t *Translator) Locale() string {
	return t.locale
}

// T resolves key and substitutes {0}, {1}, ... with args. Missing keys fall
// back to English, then to the key itself.
func (t *Translator) T(key string, args ...string) string {
	text, ok := messages[t.locale][key]
	if !ok {
		text, ok = messages[LocaleEN][key]
	}
	if !ok {
		text = key
	}
	for i, arg := range args {
		text = strings.Replace(text, "{"+strconv.Itoa(i)+"}", arg, 1)
	}
	return text
}
