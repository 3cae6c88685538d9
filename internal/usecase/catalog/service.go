// Package catalog implements the curation write path: creating entities,
// tagging aliases, and flipping lifecycle flags.
package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lifeswitch-cloud/catalogd/internal/domain"
	"github.com/lifeswitch-cloud/catalogd/internal/domain/catalog"
	"github.com/lifeswitch-cloud/catalogd/internal/text"
)

var barcodeRe = regexp.MustCompile(`^[0-9]{8,14}$`)

// Service handles catalog curation. Normalization happens here, at write
// time, so reads never re-normalize stored names.
type Service struct {
	entities EntityStore
	aliases  AliasStore
	now      func() int64
	newID    func() string
}

// New creates a curation service.
func New(entities EntityStore, aliases AliasStore) *Service {
	return &Service{
		entities: entities,
		aliases:  aliases,
		now:      func() int64 { return time.Now().UnixMilli() },
		newID:    uuid.NewString,
	}
}

// CreateExercise adds a canonical exercise.
func (s *Service) CreateExercise(ctx context.Context, displayName string, info catalog.ExerciseInfo) (catalog.Entity, error) {
	e, err := catalog.NewExercise(s.newID(), displayName, text.Normalize(displayName), s.now(), info)
	if err != nil {
		return catalog.Entity{}, err
	}
	if err := s.entities.Create(ctx, e); err != nil {
		return catalog.Entity{}, fmt.Errorf("create exercise: %w", err)
	}
	return e, nil
}

// CreateFood adds a canonical food. A barcode, when present, must be 8 to
// 14 digits after surrounding whitespace is stripped; the trimmed form is
// what gets stored and indexed.
func (s *Service) CreateFood(ctx context.Context, displayName string, info catalog.FoodInfo) (catalog.Entity, error) {
	info.Barcode = strings.TrimSpace(info.Barcode)
	if info.Barcode != "" && !barcodeRe.MatchString(info.Barcode) {
		return catalog.Entity{}, fmt.Errorf("%w: barcode must be 8-14 digits", domain.ErrInvalidEntity)
	}
	f, err := catalog.NewFood(s.newID(), displayName, text.Normalize(displayName), s.now(), info)
	if err != nil {
		return catalog.Entity{}, err
	}
	if err := s.entities.Create(ctx, f); err != nil {
		return catalog.Entity{}, fmt.Errorf("create food: %w", err)
	}
	return f, nil
}

// AliasParams are the caller-supplied fields of a new alias.
type AliasParams struct {
	Text       string
	Locale     string
	BrandName  string
	ModelName  string
	Source     catalog.AliasSource
	Confidence float64
}

// AddAlias tags an entity with an alternate name. Re-tagging an existing
// (entity, locale, normalized text) pair updates the annotations in place;
// the returned bool reports whether a new alias was created.
func (s *Service) AddAlias(ctx context.Context, entityID string, p AliasParams) (catalog.Alias, bool, error) {
	if _, err := s.entities.Get(ctx, entityID); err != nil {
		return catalog.Alias{}, false, fmt.Errorf("alias target: %w", err)
	}

	locale := p.Locale
	if locale == "" {
		locale = "en"
	}
	a, err := catalog.NewAlias(
		s.newID(), entityID, p.Text, text.Normalize(p.Text), locale,
		p.BrandName, p.ModelName, p.Source, p.Confidence, s.now(),
	)
	if err != nil {
		return catalog.Alias{}, false, err
	}

	out, created, err := s.aliases.Upsert(ctx, a)
	if err != nil {
		return catalog.Alias{}, false, fmt.Errorf("upsert alias: %w", err)
	}
	return out, created, nil
}

// Get retrieves an entity by id.
func (s *Service) Get(ctx context.Context, id string) (catalog.Entity, error) {
	return s.entities.Get(ctx, id)
}

// Aliases lists all aliases attached to an entity.
func (s *Service) Aliases(ctx context.Context, entityID string) ([]catalog.Alias, error) {
	if _, err := s.entities.Get(ctx, entityID); err != nil {
		return nil, err
	}
	return s.aliases.ListByEntity(ctx, entityID)
}

// List returns all entities of a kind.
func (s *Service) List(ctx context.Context, kind catalog.Kind) ([]catalog.Entity, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidArgument, kind)
	}
	return s.entities.List(ctx, kind)
}

// FindByBarcode resolves a food by its exact barcode. Surrounding
// whitespace is stripped before validation and lookup.
func (s *Service) FindByBarcode(ctx context.Context, barcode string) (catalog.Entity, error) {
	barcode = strings.TrimSpace(barcode)
	if !barcodeRe.MatchString(barcode) {
		return catalog.Entity{}, fmt.Errorf("%w: barcode must be 8-14 digits", domain.ErrInvalidArgument)
	}
	return s.entities.FindByBarcode(ctx, barcode)
}

// Deactivate withdraws an entity from resolution.
func (s *Service) Deactivate(ctx context.Context, id string) (catalog.Entity, error) {
	return s.entities.SetActive(ctx, id, false)
}

// Reactivate restores a withdrawn entity.
func (s *Service) Reactivate(ctx context.Context, id string) (catalog.Entity, error) {
	return s.entities.SetActive(ctx, id, true)
}

// Approve flips a food's public visibility flag.
func (s *Service) Approve(ctx context.Context, id string, public bool) (catalog.Entity, error) {
	return s.entities.SetPublic(ctx, id, public)
}
