// Package entity persists canonical catalog entities and maintains the
// trigram posting sets that back the resolver's candidate prefilter.
package entity

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/lifeswitch-cloud/catalogd/internal/db"
	"github.com/lifeswitch-cloud/catalogd/internal/domain"
	"github.com/lifeswitch-cloud/catalogd/internal/domain/catalog"
	"github.com/lifeswitch-cloud/catalogd/internal/text"
)

// store is the consumer interface for entity rows (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	SAddMulti(ctx context.Context, items []db.SetItem) error
	SRemMulti(ctx context.Context, items []db.SetItem) error
	SUnion(ctx context.Context, keys []string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo implements the canonical side of the resolver's candidate store plus
// the curation write path.
type Repo struct {
	store store
}

// New creates an entity repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

func entityKey(id string) string { return "catalog:entity:" + id }

// Posting sets live outside the catalog:entity: namespace so that listing
// entities via SCAN never touches a set-typed key.
func postingKey(kind catalog.Kind, trgm string) string {
	return "catalog:trgm:entity:" + string(kind) + ":" + trgm
}

func barcodeKey(barcode string) string { return "catalog:food:barcode:" + barcode }

// storeErr tags infrastructure failures so callers can match
// domain.ErrStoreUnavailable without losing the underlying cause.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

// Create stores an entity row and indexes its normalized name into the
// per-kind trigram posting sets. On posting failure the row is rolled back.
func (r *Repo) Create(ctx context.Context, e catalog.Entity) error {
	row, err := entityToHash(e)
	if err != nil {
		return err
	}

	key := entityKey(e.ID())
	if err := r.store.HSet(ctx, key, row); err != nil {
		return storeErr("hset entity "+e.ID(), err)
	}

	if err := r.addPostings(ctx, e); err != nil {
		cleanupErr := r.store.Del(ctx, key)
		return errors.Join(storeErr("index entity "+e.ID(), err), cleanupErr)
	}

	if f := e.Food(); f != nil && f.Barcode != "" {
		if err := r.store.Set(ctx, barcodeKey(f.Barcode), []byte(e.ID())); err != nil {
			return storeErr("index barcode", err)
		}
	}

	return nil
}

// Get retrieves an entity by id.
func (r *Repo) Get(ctx context.Context, id string) (catalog.Entity, error) {
	m, err := r.store.HGetAll(ctx, entityKey(id))
	if err != nil {
		return catalog.Entity{}, storeErr("hgetall entity "+id, err)
	}
	if len(m) == 0 {
		return catalog.Entity{}, domain.ErrNotFound
	}
	return entityFromHash(m)
}

// GetMulti retrieves entities by id in one round-trip. Missing ids are
// silently skipped; the result order follows the input order.
func (r *Repo) GetMulti(ctx context.Context, ids []string) ([]catalog.Entity, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = entityKey(id)
	}
	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, storeErr("hgetall multi entities", err)
	}

	out := make([]catalog.Entity, 0, len(rows))
	for i, m := range rows {
		if len(m) == 0 {
			continue
		}
		e, err := entityFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse entity %s: %w", ids[i], err)
		}
		out = append(out, e)
	}
	return out, nil
}

// List returns all entities of a kind, sorted by display name.
func (r *Repo) List(ctx context.Context, kind catalog.Kind) ([]catalog.Entity, error) {
	keys, err := r.store.Scan(ctx, entityKey("*"))
	if err != nil {
		return nil, storeErr("scan entities", err)
	}
	if len(keys) == 0 {
		return []catalog.Entity{}, nil
	}

	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, storeErr("hgetall multi entities", err)
	}

	out := make([]catalog.Entity, 0, len(rows))
	for i, m := range rows {
		if len(m) == 0 {
			continue
		}
		e, err := entityFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse entity %s: %w", keys[i], err)
		}
		if e.Kind() == kind {
			out = append(out, e)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DisplayName() < out[j].DisplayName()
	})
	return out, nil
}

// FindByBarcode looks up a food by its exact barcode.
func (r *Repo) FindByBarcode(ctx context.Context, barcode string) (catalog.Entity, error) {
	id, err := r.store.Get(ctx, barcodeKey(barcode))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return catalog.Entity{}, domain.ErrNotFound
		}
		return catalog.Entity{}, storeErr("get barcode", err)
	}
	return r.Get(ctx, string(id))
}

// SetActive flips the active flag and keeps the posting sets in sync:
// deactivated entities leave the prefilter index entirely.
func (r *Repo) SetActive(ctx context.Context, id string, active bool) (catalog.Entity, error) {
	e, err := r.Get(ctx, id)
	if err != nil {
		return catalog.Entity{}, err
	}
	if e.Active() == active {
		return e, nil
	}

	updated := catalog.Reconstruct(
		e.ID(), e.Kind(), e.DisplayName(), e.NormName(),
		active, e.CreatedAt(), nowMillis(), e.Exercise(), e.Food(),
	)
	row, err := entityToHash(updated)
	if err != nil {
		return catalog.Entity{}, err
	}
	if err := r.store.HSet(ctx, entityKey(id), row); err != nil {
		return catalog.Entity{}, storeErr("hset entity "+id, err)
	}

	if active {
		err = r.addPostings(ctx, updated)
	} else {
		err = r.removePostings(ctx, updated)
	}
	if err != nil {
		return catalog.Entity{}, storeErr("reindex entity "+id, err)
	}
	return updated, nil
}

// SetPublic flips a food's public approval flag. The posting sets are
// untouched: visibility is filtered at resolution time.
func (r *Repo) SetPublic(ctx context.Context, id string, public bool) (catalog.Entity, error) {
	e, err := r.Get(ctx, id)
	if err != nil {
		return catalog.Entity{}, err
	}
	f := e.Food()
	if f == nil {
		return catalog.Entity{}, fmt.Errorf("%w: entity %s is not a food", domain.ErrInvalidEntity, id)
	}
	if f.Public == public {
		return e, nil
	}

	info := *f
	info.Public = public
	updated := catalog.Reconstruct(
		e.ID(), e.Kind(), e.DisplayName(), e.NormName(),
		e.Active(), e.CreatedAt(), nowMillis(), nil, &info,
	)
	row, err := entityToHash(updated)
	if err != nil {
		return catalog.Entity{}, err
	}
	if err := r.store.HSet(ctx, entityKey(id), row); err != nil {
		return catalog.Entity{}, storeErr("hset entity "+id, err)
	}
	return updated, nil
}

// MatchCandidates returns the entities of a kind whose normalized name
// shares at least one trigram with the query's trigram set. This is the
// canonical-source prefilter: a superset of everything that can score
// above zero, never a different final ranking.
func (r *Repo) MatchCandidates(ctx context.Context, kind catalog.Kind, trigrams []string, activeOnly bool) ([]catalog.Entity, error) {
	if len(trigrams) == 0 {
		return nil, nil
	}
	keys := make([]string, len(trigrams))
	for i, t := range trigrams {
		keys[i] = postingKey(kind, t)
	}

	ids, err := r.store.SUnion(ctx, keys)
	if err != nil {
		return nil, storeErr("sunion entity candidates", err)
	}
	sort.Strings(ids)

	entities, err := r.GetMulti(ctx, ids)
	if err != nil {
		return nil, err
	}
	if !activeOnly {
		return entities, nil
	}

	active := entities[:0]
	for _, e := range entities {
		if e.Active() {
			active = append(active, e)
		}
	}
	return active, nil
}

func (r *Repo) addPostings(ctx context.Context, e catalog.Entity) error {
	return r.store.SAddMulti(ctx, postingItems(e))
}

func (r *Repo) removePostings(ctx context.Context, e catalog.Entity) error {
	return r.store.SRemMulti(ctx, postingItems(e))
}

func postingItems(e catalog.Entity) []db.SetItem {
	trigrams := text.Trigrams(e.NormName())
	items := make([]db.SetItem, len(trigrams))
	for i, t := range trigrams {
		items[i] = db.SetItem{Key: postingKey(e.Kind(), t), Members: []string{e.ID()}}
	}
	return items
}
