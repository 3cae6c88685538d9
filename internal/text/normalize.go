// Package text provides the canonical text normalization and trigram
// similarity used for catalog matching. Stored rows keep their normalized
// form alongside the raw text; only the incoming query is normalized at
// resolution time.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormVersion identifies the normalization algorithm. Stored normalized
// text is only comparable to query text normalized by the same version;
// bumping this requires re-normalizing every stored row.
const NormVersion = "1"

var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes text for matching: trims surrounding whitespace,
// lower-cases with a locale-insensitive fold, and strips combining
// diacritical marks ("Café" -> "cafe"). Pure and idempotent.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	out, _, err := transform.String(stripDiacritics, s)
	if err != nil {
		// transform failures only occur on invalid UTF-8; fall back to
		// the folded input so Normalize stays total.
		return s
	}
	return out
}
