// Package match holds the transient resolution types: the validated
// resolve request, scored candidates, and ranked matches.
package match

// Source identifies which candidate table produced a hit. Canonical wins
// ties against alias during deduplication.
type Source string

const (
	// SourceCanonical means the entity's own display name matched.
	SourceCanonical Source = "canonical"
	// SourceAlias means a stored alias matched.
	SourceAlias Source = "alias"
)
