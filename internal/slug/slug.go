// Package slug turns display labels and URLs into file-system safe names.
package slug

import (
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Make converts s to a lowercase ASCII slug. Accents are stripped first,
// then every other script is transliterated.
// "Search Engines" -> "search-engines".
// "Türkçe Kaynaklar" -> "turkce-kaynaklar".
// "Новости" -> "novosti".
// "https://google.com" -> "https-google-com".
//
// The result is empty when s has nothing to transliterate, e.g. "++".
func Make(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	if decomposed, _, err := transform.String(t, s); err == nil {
		s = decomposed
	}
	s = unidecode.Unidecode(s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Segment is Make for one path segment: it never returns "" for a
// non-blank s. Labels without a slug are spelled as the hex of their
// trimmed bytes, "++" -> "x-2b2b".
func Segment(s string) string {
	if v := Make(s); v != "" {
		return v
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return "x-" + hex.EncodeToString([]byte(s))
}
