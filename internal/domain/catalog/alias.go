package catalog

import (
	"fmt"

	"github.com/lifeswitch-cloud/catalogd/internal/domain"
)

// AliasSource records where an alias came from.
type AliasSource string

const (
	// AliasSourceSeed is curated seed data.
	AliasSourceSeed AliasSource = "seed"
	// AliasSourceUser is a user submission.
	AliasSourceUser AliasSource = "user"
	// AliasSourceImport is an automated import.
	AliasSourceImport AliasSource = "import"
)

// IsValid reports whether the source is known.
func (s AliasSource) IsValid() bool {
	return s == AliasSourceSeed || s == AliasSourceUser || s == AliasSourceImport
}

// Alias maps an alternate text string to exactly one entity. The pair
// (entity, normalized text, locale) is unique; the same text may map to
// different entities, which the resolver treats as separate candidates.
type Alias struct {
	id         string
	entityID   string
	text       string
	normText   string
	locale     string
	brandName  string
	modelName  string
	source     AliasSource
	confidence float64
	active     bool
	createdAt  int64
}

// NewAlias creates an alias. normText must be the normalized form of text.
// confidence is optional; zero means unset.
func NewAlias(
	id, entityID, text, normText, locale string,
	brandName, modelName string,
	source AliasSource, confidence float64, createdAt int64,
) (Alias, error) {
	if id == "" || entityID == "" {
		return Alias{}, fmt.Errorf("%w: id and entity id are required", domain.ErrInvalidAlias)
	}
	if text == "" || normText == "" {
		return Alias{}, fmt.Errorf("%w: alias text is required", domain.ErrInvalidAlias)
	}
	if len(locale) < 2 || len(locale) > 10 {
		return Alias{}, fmt.Errorf("%w: locale must be 2-10 chars, got %q", domain.ErrInvalidAlias, locale)
	}
	if source == "" {
		source = AliasSourceSeed
	}
	if !source.IsValid() {
		return Alias{}, fmt.Errorf("%w: unknown source %q", domain.ErrInvalidAlias, source)
	}
	if confidence < 0 || confidence > 1 {
		return Alias{}, fmt.Errorf("%w: confidence must be within [0,1]", domain.ErrInvalidAlias)
	}
	return Alias{
		id:         id,
		entityID:   entityID,
		text:       text,
		normText:   normText,
		locale:     locale,
		brandName:  brandName,
		modelName:  modelName,
		source:     source,
		confidence: confidence,
		active:     true,
		createdAt:  createdAt,
	}, nil
}

// ReconstructAlias rebuilds an alias from storage without validation.
func ReconstructAlias(
	id, entityID, text, normText, locale string,
	brandName, modelName string,
	source AliasSource, confidence float64, active bool, createdAt int64,
) Alias {
	return Alias{
		id:         id,
		entityID:   entityID,
		text:       text,
		normText:   normText,
		locale:     locale,
		brandName:  brandName,
		modelName:  modelName,
		source:     source,
		confidence: confidence,
		active:     active,
		createdAt:  createdAt,
	}
}

// ID returns the alias identifier.
func (a *Alias) ID() string { return a.id }

// EntityID returns the owning entity identifier.
func (a *Alias) EntityID() string { return a.entityID }

// Text returns the raw alias text.
func (a *Alias) Text() string { return a.text }

// NormText returns the stored normalized alias text.
func (a *Alias) NormText() string { return a.normText }

// Locale returns the locale tag.
func (a *Alias) Locale() string { return a.locale }

// BrandName returns the brand annotation, empty when untagged.
func (a *Alias) BrandName() string { return a.brandName }

// ModelName returns the model annotation, empty when untagged.
func (a *Alias) ModelName() string { return a.modelName }

// Source returns the provenance source.
func (a *Alias) Source() AliasSource { return a.source }

// Confidence returns the optional confidence, zero when unset.
func (a *Alias) Confidence() float64 { return a.confidence }

// Active reports whether the alias participates in matching.
func (a *Alias) Active() bool { return a.active }

// CreatedAt returns the creation time in unix millis.
func (a *Alias) CreatedAt() int64 { return a.createdAt }
