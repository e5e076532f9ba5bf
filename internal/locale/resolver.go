// Package locale picks one supported locale out of an ordered chain of
// signals (request parameter, stored preference, Accept-Language header).
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Default is returned when no candidate matches a supported locale.
const Default = "en"

// Supported lists the locales the notification catalogs are maintained in.
var Supported = []string{"en", "ru", "zh-CN"}

// All regional and script variants of Chinese collapse onto the simplified
// catalog; we only maintain one.
var aliases = map[string]string{
	"zh":      "zh-CN",
	"zh-hans": "zh-CN",
	"zh-hant": "zh-CN",
	"zh-tw":   "zh-CN",
	"zh-hk":   "zh-CN",
	"zh-mo":   "zh-CN",
	"zh-sg":   "zh-CN",
	"en-us":   "en",
	"en-gb":   "en",
	"ru-ru":   "ru",
	"ru-kz":   "ru",
}

// Canonical normalizes a raw locale signal ("zh_TW", "en-US", " RU ") to a
// canonical supported code, or returns "" when the signal maps to nothing
// we support.
func Canonical(raw string) string {
	tag := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(raw, "_", "-")))
	if tag == "" {
		return ""
	}
	if alias, ok := aliases[tag]; ok {
		tag = strings.ToLower(alias)
	}
	for _, s := range Supported {
		if strings.ToLower(s) == tag {
			return s
		}
	}
	// Last resort: match on the base language ("en-AU" -> "en").
	if base, _, found := strings.Cut(tag, "-"); found {
		if alias, ok := aliases[base]; ok {
			base = strings.ToLower(alias)
		}
		for _, s := range Supported {
			if strings.ToLower(s) == base {
				return s
			}
		}
	}
	return ""
}

// Resolve walks candidates in priority order and returns the first one that
// canonicalizes to a supported locale, else fallback. It never fails.
func Resolve(candidates []string, fallback string) string {
	for _, c := range candidates {
		if loc := Canonical(c); loc != "" {
			return loc
		}
	}
	return fallback
}

// FromAcceptLanguage expands an Accept-Language header into candidate
// signals ordered by quality. A malformed header yields no candidates
// rather than an error.
func FromAcceptLanguage(header string) []string {
	if header == "" {
		return nil
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.String())
	}
	return out
}
