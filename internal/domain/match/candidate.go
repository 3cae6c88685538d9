package match

import "github.com/lifeswitch-cloud/catalogd/internal/domain/catalog"

// Candidate is a single scored hit produced during one resolution call and
// discarded when it returns. Brand and model carry over from alias rows for
// display; canonical hits leave them empty.
type Candidate struct {
	entityID    string
	matchedText string
	source      Source
	score       float64
	brandName   string
	modelName   string
}

// NewCandidate creates a scored candidate.
func NewCandidate(entityID, matchedText string, source Source, score float64, brandName, modelName string) Candidate {
	return Candidate{
		entityID:    entityID,
		matchedText: matchedText,
		source:      source,
		score:       score,
		brandName:   brandName,
		modelName:   modelName,
	}
}

// EntityID returns the identifier of the entity this candidate resolves to.
func (c *Candidate) EntityID() string { return c.entityID }

// MatchedText returns the raw text that produced the hit.
func (c *Candidate) MatchedText() string { return c.matchedText }

// Source returns whether the canonical name or an alias matched.
func (c *Candidate) Source() Source { return c.source }

// Score returns the trigram similarity in [0,1].
func (c *Candidate) Score() float64 { return c.score }

// BrandName returns the carried brand annotation.
func (c *Candidate) BrandName() string { return c.brandName }

// ModelName returns the carried model annotation.
func (c *Candidate) ModelName() string { return c.modelName }

// Match pairs the winning candidate for an entity with the hydrated entity.
type Match struct {
	Candidate Candidate
	Entity    catalog.Entity
}
