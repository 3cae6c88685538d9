package resolve

import (
	"context"

	"github.com/lifeswitch-cloud/catalogd/internal/domain/catalog"
)

// EntitySource supplies canonical-name candidates and hydrates entities.
type EntitySource interface {
	MatchCandidates(ctx context.Context, kind catalog.Kind, trigrams []string, activeOnly bool) ([]catalog.Entity, error)
	GetMulti(ctx context.Context, ids []string) ([]catalog.Entity, error)
}

// AliasSource supplies alias candidates for a locale.
type AliasSource interface {
	MatchCandidates(ctx context.Context, locale string, trigrams []string, activeOnly bool) ([]catalog.Alias, error)
}
