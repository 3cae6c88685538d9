package catalog

import (
	"fmt"

	"github.com/lifeswitch-cloud/catalogd/internal/domain"
)

// ExerciseInfo holds exercise-specific descriptive fields.
type ExerciseInfo struct {
	Modality         string
	PrimaryMuscles   []string
	SecondaryMuscles []string
	Joints           []string
}

// FoodInfo holds food-specific descriptive fields. Macro values follow the
// declared basis (per_100g or per_serving). Public gates visibility in food
// search: imported foods stay private until approved.
type FoodInfo struct {
	Brand    string
	Barcode  string
	Source   string
	Basis    string
	Kcal     float64
	ProteinG float64
	CarbsG   float64
	FatG     float64
	FiberG   float64
	SugarG   float64
	SodiumMg float64
	Public   bool
}

// Food provenance sources.
const (
	FoodSourceSeed = "seed"
	FoodSourceUser = "user"
	FoodSourceOFF  = "open_food_facts"
	FoodSourceUSDA = "usda_fdc"
)

// Macro bases.
const (
	BasisPer100g    = "per_100g"
	BasisPerServing = "per_serving"
)

// Entity is a canonical catalog item. The identifier is permanent and the
// display name changes only through explicit correction; entities are never
// deleted, only deactivated.
type Entity struct {
	id          string
	kind        Kind
	displayName string
	normName    string
	active      bool
	createdAt   int64
	updatedAt   int64
	exercise    *ExerciseInfo
	food        *FoodInfo
}

// NewExercise creates an exercise entity. normName must be the normalized
// form of displayName, computed once at write time.
func NewExercise(id, displayName, normName string, createdAt int64, info ExerciseInfo) (Entity, error) {
	if err := validateEntity(id, displayName, normName); err != nil {
		return Entity{}, err
	}
	e := Entity{
		id:          id,
		kind:        KindExercise,
		displayName: displayName,
		normName:    normName,
		active:      true,
		createdAt:   createdAt,
		updatedAt:   createdAt,
	}
	e.exercise = &info
	return e, nil
}

// NewFood creates a food entity. An empty basis defaults to per_100g.
func NewFood(id, displayName, normName string, createdAt int64, info FoodInfo) (Entity, error) {
	if err := validateEntity(id, displayName, normName); err != nil {
		return Entity{}, err
	}
	if info.Basis == "" {
		info.Basis = BasisPer100g
	}
	if info.Basis != BasisPer100g && info.Basis != BasisPerServing {
		return Entity{}, fmt.Errorf("%w: unknown basis %q", domain.ErrInvalidEntity, info.Basis)
	}
	if info.Source == "" {
		info.Source = FoodSourceSeed
	}
	e := Entity{
		id:          id,
		kind:        KindFood,
		displayName: displayName,
		normName:    normName,
		active:      true,
		createdAt:   createdAt,
		updatedAt:   createdAt,
	}
	e.food = &info
	return e, nil
}

// Reconstruct rebuilds an entity from storage without validation.
func Reconstruct(
	id string, kind Kind, displayName, normName string,
	active bool, createdAt, updatedAt int64,
	exercise *ExerciseInfo, food *FoodInfo,
) Entity {
	return Entity{
		id:          id,
		kind:        kind,
		displayName: displayName,
		normName:    normName,
		active:      active,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		exercise:    exercise,
		food:        food,
	}
}

func validateEntity(id, displayName, normName string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", domain.ErrInvalidEntity)
	}
	if displayName == "" {
		return fmt.Errorf("%w: display name is required", domain.ErrInvalidEntity)
	}
	if normName == "" {
		return fmt.Errorf("%w: normalized name is required", domain.ErrInvalidEntity)
	}
	return nil
}

// ID returns the permanent identifier.
func (e *Entity) ID() string { return e.id }

// Kind returns the entity family.
func (e *Entity) Kind() Kind { return e.kind }

// DisplayName returns the canonical display name.
func (e *Entity) DisplayName() string { return e.displayName }

// NormName returns the stored normalized name.
func (e *Entity) NormName() string { return e.normName }

// Active reports whether the entity is resolvable.
func (e *Entity) Active() bool { return e.active }

// CreatedAt returns the creation time in unix millis.
func (e *Entity) CreatedAt() int64 { return e.createdAt }

// UpdatedAt returns the last update time in unix millis.
func (e *Entity) UpdatedAt() int64 { return e.updatedAt }

// Exercise returns exercise fields, nil for foods.
func (e *Entity) Exercise() *ExerciseInfo { return e.exercise }

// Food returns food fields, nil for exercises.
func (e *Entity) Food() *FoodInfo { return e.food }

// Resolvable reports whether the entity may appear in search results for
// the given kind: it must match the kind, be active, and (for foods) be
// approved for public visibility.
func (e *Entity) Resolvable(kind Kind) bool {
	if e.kind != kind || !e.active {
		return false
	}
	if e.kind == KindFood && e.food != nil && !e.food.Public {
		return false
	}
	return true
}
