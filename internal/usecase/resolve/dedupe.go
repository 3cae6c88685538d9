package resolve

import (
	"sort"

	"github.com/lifeswitch-cloud/catalogd/internal/domain/match"
)

// dedupe keeps one candidate per entity. Higher score wins; on equal
// score a canonical hit beats an alias hit, and the lexicographically
// smaller matched text breaks the remaining tie so the winner does not
// depend on arrival order. Output is sorted by entity id.
func dedupe(candidates []match.Candidate) []match.Candidate {
	best := make(map[string]match.Candidate, len(candidates))
	for _, c := range candidates {
		cur, ok := best[c.EntityID()]
		if !ok || beats(&c, &cur) {
			best[c.EntityID()] = c
		}
	}

	out := make([]match.Candidate, 0, len(best))
	for _, c := range best {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EntityID() < out[j].EntityID()
	})
	return out
}

func beats(a, b *match.Candidate) bool {
	if a.Score() != b.Score() {
		return a.Score() > b.Score()
	}
	if a.Source() != b.Source() {
		return a.Source() == match.SourceCanonical
	}
	return a.MatchedText() < b.MatchedText()
}
