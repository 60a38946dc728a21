package calendar

import "golang.org/x/text/language"

// Locale selects the language of month, weekday and holiday names.
type Locale string

const (
	English Locale = "en"
	Nepali  Locale = "ne"
)

// supported is ordered like the tags handed to the matcher; English is the default.
var (
	supported = []Locale{English, Nepali}
	matcher   = language.NewMatcher([]language.Tag{language.English, language.Nepali})
)

// Locales returns the supported locales, English first.
func Locales() []Locale {
	return append([]Locale(nil), supported...)
}

// ParseLocale maps a BCP 47 string ("ne", "ne-NP", "en-US", an Accept-Language
// value...) to a supported locale. Anything unrecognized yields English.
func ParseLocale(s string) Locale {
	if s == "" {
		return English
	}
	_, idx := language.MatchStrings(matcher, s)
	return supported[idx]
}

// Tag returns the language tag of l.
func (l Locale) Tag() language.Tag {
	if l == Nepali {
		return language.Nepali
	}
	return language.English
}
