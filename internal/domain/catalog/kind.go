// Package catalog holds the canonical catalog domain: entities (exercises
// and foods) and the aliases that widen match coverage beyond their
// canonical names.
package catalog

// Kind discriminates the two entity families.
type Kind string

const (
	// KindExercise is a training catalog entry.
	KindExercise Kind = "exercise"
	// KindFood is a nutrition catalog entry.
	KindFood Kind = "food"
)

// IsValid reports whether the kind is known.
func (k Kind) IsValid() bool {
	return k == KindExercise || k == KindFood
}
