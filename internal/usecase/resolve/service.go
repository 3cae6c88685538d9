// Package resolve turns free-form user text into ranked catalog entities.
package resolve

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/lifeswitch-cloud/catalogd/internal/domain"
	"github.com/lifeswitch-cloud/catalogd/internal/domain/catalog"
	"github.com/lifeswitch-cloud/catalogd/internal/domain/match"
	"github.com/lifeswitch-cloud/catalogd/internal/text"
)

// Service resolves queries against the canonical and alias candidate
// sources. Resolution never mutates the catalog.
type Service struct {
	entities EntitySource
	aliases  AliasSource
}

// New creates a resolve service.
func New(entities EntitySource, aliases AliasSource) *Service {
	return &Service{entities: entities, aliases: aliases}
}

// Resolve normalizes the query, pulls trigram-overlapping candidates from
// both sources in parallel, scores them, keeps one winning candidate per
// entity, and returns hydrated matches ranked by score.
func (s *Service) Resolve(ctx context.Context, kind catalog.Kind, req *match.Request) ([]match.Match, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidArgument, kind)
	}

	queryNorm := text.Normalize(req.RawQuery())
	trigrams := text.Trigrams(queryNorm)
	if len(trigrams) == 0 {
		return []match.Match{}, nil
	}

	var (
		entities []catalog.Entity
		aliases  []catalog.Alias
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entities, err = s.entities.MatchCandidates(gctx, kind, trigrams, true)
		if err != nil {
			return fmt.Errorf("canonical candidates: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		aliases, err = s.aliases.MatchCandidates(gctx, req.Locale(), trigrams, true)
		if err != nil {
			return fmt.Errorf("alias candidates: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := make([]match.Candidate, 0, len(entities)+len(aliases))
	for i := range entities {
		e := &entities[i]
		score := text.Similarity(queryNorm, e.NormName())
		if score <= 0 || score < req.MinScore() {
			continue
		}
		candidates = append(candidates,
			match.NewCandidate(e.ID(), e.DisplayName(), match.SourceCanonical, score, "", ""))
	}
	for i := range aliases {
		a := &aliases[i]
		score := text.Similarity(queryNorm, a.NormText())
		if score <= 0 || score < req.MinScore() {
			continue
		}
		candidates = append(candidates,
			match.NewCandidate(a.EntityID(), a.Text(), match.SourceAlias, score, a.BrandName(), a.ModelName()))
	}

	winners := dedupe(candidates)
	if len(winners) == 0 {
		return []match.Match{}, nil
	}

	matches, err := s.hydrate(ctx, kind, winners)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := &matches[i], &matches[j]
		if a.Candidate.Score() != b.Candidate.Score() {
			return a.Candidate.Score() > b.Candidate.Score()
		}
		if a.Entity.DisplayName() != b.Entity.DisplayName() {
			return a.Entity.DisplayName() < b.Entity.DisplayName()
		}
		return a.Entity.ID() < b.Entity.ID()
	})

	if len(matches) > req.MaxResults() {
		matches = matches[:req.MaxResults()]
	}
	return matches, nil
}

// hydrate loads the winning candidates' entities and drops any that are
// not resolvable for the requested kind. Aliases can point at entities of
// the other kind or at unapproved foods; they fall out here.
func (s *Service) hydrate(ctx context.Context, kind catalog.Kind, winners []match.Candidate) ([]match.Match, error) {
	ids := make([]string, len(winners))
	for i := range winners {
		ids[i] = winners[i].EntityID()
	}

	entities, err := s.entities.GetMulti(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate matches: %w", err)
	}
	byID := make(map[string]catalog.Entity, len(entities))
	for _, e := range entities {
		byID[e.ID()] = e
	}

	matches := make([]match.Match, 0, len(winners))
	for _, c := range winners {
		e, ok := byID[c.EntityID()]
		if !ok || !e.Resolvable(kind) {
			continue
		}
		matches = append(matches, match.Match{Candidate: c, Entity: e})
	}
	return matches, nil
}
