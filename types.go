package catalogd

import (
	"time"

	"github.com/lifeswitch-cloud/catalogd/internal/domain/catalog"
	"github.com/lifeswitch-cloud/catalogd/internal/domain/match"
)

// Kind selects the entity family.
type Kind string

const (
	KindExercise Kind = "exercise"
	KindFood     Kind = "food"
)

// ExerciseDetails describe an exercise entity.
type ExerciseDetails struct {
	Modality         string
	PrimaryMuscles   []string
	SecondaryMuscles []string
	Joints           []string
}

// FoodDetails describe a food entity. Macro values follow Basis.
type FoodDetails struct {
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

// Entity is a canonical catalog item.
type Entity struct {
	ID          string
	Kind        Kind
	DisplayName string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Exercise    *ExerciseDetails
	Food        *FoodDetails
}

// Alias is an alternate name attached to an entity.
type Alias struct {
	ID         string
	EntityID   string
	Text       string
	Locale     string
	BrandName  string
	ModelName  string
	Source     string
	Confidence float64
	Active     bool
	CreatedAt  time.Time
}

// Match is one ranked search hit.
type Match struct {
	Score         float64
	MatchedText   string
	MatchedSource string
	BrandName     string
	ModelName     string
	Entity        Entity
}

// SearchOptions tune a search call. Zero values mean defaults: locale
// "en", limit 25, no similarity floor.
type SearchOptions struct {
	Locale   string
	Limit    int
	MinScore float64
}

// ExerciseParams describe a new exercise.
type ExerciseParams struct {
	Name             string
	Modality         string
	PrimaryMuscles   []string
	SecondaryMuscles []string
	Joints           []string
}

// FoodParams describe a new food.
type FoodParams struct {
	Name     string
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

// AliasParams describe a new alias.
type AliasParams struct {
	Text       string
	Locale     string
	BrandName  string
	ModelName  string
	Source     string
	Confidence float64
}

func entityFromDomain(e *catalog.Entity) Entity {
	out := Entity{
		ID:          e.ID(),
		Kind:        Kind(e.Kind()),
		DisplayName: e.DisplayName(),
		Active:      e.Active(),
		CreatedAt:   time.UnixMilli(e.CreatedAt()).UTC(),
		UpdatedAt:   time.UnixMilli(e.UpdatedAt()).UTC(),
	}
	if info := e.Exercise(); info != nil {
		out.Exercise = &ExerciseDetails{
			Modality:         info.Modality,
			PrimaryMuscles:   info.PrimaryMuscles,
			SecondaryMuscles: info.SecondaryMuscles,
			Joints:           info.Joints,
		}
	}
	if info := e.Food(); info != nil {
		out.Food = &FoodDetails{
			Brand:    info.Brand,
			Barcode:  info.Barcode,
			Source:   info.Source,
			Basis:    info.Basis,
			Kcal:     info.Kcal,
			ProteinG: info.ProteinG,
			CarbsG:   info.CarbsG,
			FatG:     info.FatG,
			FiberG:   info.FiberG,
			SugarG:   info.SugarG,
			SodiumMg: info.SodiumMg,
			Public:   info.Public,
		}
	}
	return out
}

func aliasFromDomain(a *catalog.Alias) Alias {
	return Alias{
		ID:         a.ID(),
		EntityID:   a.EntityID(),
		Text:       a.Text(),
		Locale:     a.Locale(),
		BrandName:  a.BrandName(),
		ModelName:  a.ModelName(),
		Source:     string(a.Source()),
		Confidence: a.Confidence(),
		Active:     a.Active(),
		CreatedAt:  time.UnixMilli(a.CreatedAt()).UTC(),
	}
}

func matchFromDomain(m *match.Match) Match {
	return Match{
		Score:         m.Candidate.Score(),
		MatchedText:   m.Candidate.MatchedText(),
		MatchedSource: string(m.Candidate.Source()),
		BrandName:     m.Candidate.BrandName(),
		ModelName:     m.Candidate.ModelName(),
		Entity:        entityFromDomain(&m.Entity),
	}
}
