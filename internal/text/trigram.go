package text

import (
	"sort"
	"strings"
	"unicode"
)

// Trigrams returns the deduplicated, sorted trigram set of an
// already-normalized string. Matching pg_trgm, the input is split into
// alphanumeric words and each word is padded with two leading and one
// trailing space, so a single-character token still yields a shingle
// ("a" -> "  a", " a ", "a  " minus the trailing pad -> "  a", " a ").
func Trigrams(s string) []string {
	set := trigramSet(s)
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Similarity returns the Jaccard overlap of the trigram sets of two
// normalized strings: |shared| / |union|, in [0,1]. Two empty strings
// score 1; empty against non-empty scores 0.
func Similarity(a, b string) float64 {
	sa := trigramSet(a)
	sb := trigramSet(b)
	if len(sa) == 0 && len(sb) == 0 {
		if a == b {
			return 1
		}
		return 0
	}
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}

	shared := 0
	for t := range sa {
		if _, ok := sb[t]; ok {
			shared++
		}
	}
	union := len(sa) + len(sb) - shared
	return float64(shared) / float64(union)
}

func trigramSet(s string) map[string]struct{} {
	words := splitWords(s)
	if len(words) == 0 {
		return nil
	}

	set := make(map[string]struct{})
	var padded []rune
	for _, w := range words {
		padded = padded[:0]
		padded = append(padded, ' ', ' ')
		padded = append(padded, []rune(w)...)
		padded = append(padded, ' ')
		for i := 0; i+3 <= len(padded); i++ {
			set[string(padded[i:i+3])] = struct{}{}
		}
	}
	return set
}

// splitWords extracts runs of letters and digits; everything else is a
// separator, so "plate-loaded" matches "plate loaded".
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
