package catalog

import (
	"context"

	"github.com/lifeswitch-cloud/catalogd/internal/domain/catalog"
)

// EntityStore persists canonical entities.
type EntityStore interface {
	Create(ctx context.Context, e catalog.Entity) error
	Get(ctx context.Context, id string) (catalog.Entity, error)
	List(ctx context.Context, kind catalog.Kind) ([]catalog.Entity, error)
	FindByBarcode(ctx context.Context, barcode string) (catalog.Entity, error)
	SetActive(ctx context.Context, id string, active bool) (catalog.Entity, error)
	SetPublic(ctx context.Context, id string, public bool) (catalog.Entity, error)
}

// AliasStore persists alias rows.
type AliasStore interface {
	Upsert(ctx context.Context, a catalog.Alias) (catalog.Alias, bool, error)
	ListByEntity(ctx context.Context, entityID string) ([]catalog.Alias, error)
}
