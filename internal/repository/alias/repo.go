// Package alias persists alias rows and the per-locale trigram posting
// sets that feed the resolver's alias candidate source.
package alias

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

// store is the consumer interface for alias rows (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SAddMulti(ctx context.Context, items []db.SetItem) error
	SRemMulti(ctx context.Context, items []db.SetItem) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SUnion(ctx context.Context, keys []string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo implements the alias side of the resolver's candidate store plus
// the tagging write path.
type Repo struct {
	store store
}

// New creates an alias repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

func aliasKey(id string) string { return "catalog:alias:" + id }

func postingKey(locale, trgm string) string {
	return "catalog:trgm:alias:" + locale + ":" + trgm
}

func uniqKey(entityID, locale, normText string) string {
	return "catalog:alias:uniq:" + entityID + ":" + locale + ":" + normText
}

// Link sets live outside the catalog:entity: namespace; the entity
// repository SCANs that prefix expecting hash-typed rows only.
func entityAliasesKey(entityID string) string {
	return "catalog:entity_aliases:" + entityID
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

// Upsert stores an alias. The pair (entity, locale, normalized text) is
// unique: re-tagging an existing pair updates the annotation fields in
// place and keeps the original id, so repeated imports are idempotent.
// The returned bool reports whether a new alias row was created.
func (r *Repo) Upsert(ctx context.Context, a catalog.Alias) (catalog.Alias, bool, error) {
	guard := uniqKey(a.EntityID(), a.Locale(), a.NormText())

	existingID, err := r.store.Get(ctx, guard)
	switch {
	case err == nil:
		updated, err := r.retag(ctx, string(existingID), a)
		return updated, false, err
	case errors.Is(err, db.ErrKeyNotFound):
	default:
		return catalog.Alias{}, false, storeErr("get alias guard", err)
	}

	key := aliasKey(a.ID())
	if err := r.store.HSet(ctx, key, aliasToHash(a)); err != nil {
		return catalog.Alias{}, false, storeErr("hset alias "+a.ID(), err)
	}

	if err := r.addPostings(ctx, a); err != nil {
		cleanupErr := r.store.Del(ctx, key)
		return catalog.Alias{}, false, errors.Join(storeErr("index alias "+a.ID(), err), cleanupErr)
	}

	if err := r.store.SAdd(ctx, entityAliasesKey(a.EntityID()), a.ID()); err != nil {
		return catalog.Alias{}, false, storeErr("link alias "+a.ID(), err)
	}
	if err := r.store.Set(ctx, guard, []byte(a.ID())); err != nil {
		return catalog.Alias{}, false, storeErr("set alias guard", err)
	}
	return a, true, nil
}

// retag overwrites the mutable annotation fields of an existing alias,
// keeping its id and creation time. Postings need no maintenance: the
// normalized text and locale are fixed by the uniqueness guard.
func (r *Repo) retag(ctx context.Context, id string, a catalog.Alias) (catalog.Alias, error) {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return catalog.Alias{}, err
	}

	updated := catalog.ReconstructAlias(
		existing.ID(), existing.EntityID(), existing.Text(), existing.NormText(), existing.Locale(),
		a.BrandName(), a.ModelName(), a.Source(), a.Confidence(),
		true, existing.CreatedAt(),
	)
	if err := r.store.HSet(ctx, aliasKey(id), aliasToHash(updated)); err != nil {
		return catalog.Alias{}, storeErr("hset alias "+id, err)
	}
	if !existing.Active() {
		if err := r.addPostings(ctx, updated); err != nil {
			return catalog.Alias{}, storeErr("reindex alias "+id, err)
		}
	}
	return updated, nil
}

// Get retrieves an alias by id.
func (r *Repo) Get(ctx context.Context, id string) (catalog.Alias, error) {
	m, err := r.store.HGetAll(ctx, aliasKey(id))
	if err != nil {
		return catalog.Alias{}, storeErr("hgetall alias "+id, err)
	}
	if len(m) == 0 {
		return catalog.Alias{}, domain.ErrNotFound
	}
	return aliasFromHash(m)
}

// ListByEntity returns all aliases attached to an entity, sorted by
// normalized text.
func (r *Repo) ListByEntity(ctx context.Context, entityID string) ([]catalog.Alias, error) {
	ids, err := r.store.SMembers(ctx, entityAliasesKey(entityID))
	if err != nil {
		return nil, storeErr("smembers entity aliases", err)
	}
	if len(ids) == 0 {
		return []catalog.Alias{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = aliasKey(id)
	}
	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, storeErr("hgetall multi aliases", err)
	}

	out := make([]catalog.Alias, 0, len(rows))
	for i, m := range rows {
		if len(m) == 0 {
			continue
		}
		a, err := aliasFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse alias %s: %w", ids[i], err)
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].NormText() < out[j].NormText()
	})
	return out, nil
}

// SetActive flips the active flag and keeps the posting sets in sync:
// deactivated aliases leave the prefilter index entirely.
func (r *Repo) SetActive(ctx context.Context, id string, active bool) (catalog.Alias, error) {
	a, err := r.Get(ctx, id)
	if err != nil {
		return catalog.Alias{}, err
	}
	if a.Active() == active {
		return a, nil
	}

	updated := catalog.ReconstructAlias(
		a.ID(), a.EntityID(), a.Text(), a.NormText(), a.Locale(),
		a.BrandName(), a.ModelName(), a.Source(), a.Confidence(),
		active, a.CreatedAt(),
	)
	if err := r.store.HSet(ctx, aliasKey(id), aliasToHash(updated)); err != nil {
		return catalog.Alias{}, storeErr("hset alias "+id, err)
	}

	if active {
		err = r.addPostings(ctx, updated)
	} else {
		err = r.removePostings(ctx, updated)
	}
	if err != nil {
		return catalog.Alias{}, storeErr("reindex alias "+id, err)
	}
	return updated, nil
}

// MatchCandidates returns the aliases in a locale whose normalized text
// shares at least one trigram with the query's trigram set. Kind is not
// part of the posting key; the resolver filters it when hydrating the
// owning entities.
func (r *Repo) MatchCandidates(ctx context.Context, locale string, trigrams []string, activeOnly bool) ([]catalog.Alias, error) {
	if len(trigrams) == 0 {
		return nil, nil
	}
	keys := make([]string, len(trigrams))
	for i, t := range trigrams {
		keys[i] = postingKey(locale, t)
	}

	ids, err := r.store.SUnion(ctx, keys)
	if err != nil {
		return nil, storeErr("sunion alias candidates", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	sort.Strings(ids)

	rowKeys := make([]string, len(ids))
	for i, id := range ids {
		rowKeys[i] = aliasKey(id)
	}
	rows, err := r.store.HGetAllMulti(ctx, rowKeys)
	if err != nil {
		return nil, storeErr("hgetall multi aliases", err)
	}

	out := make([]catalog.Alias, 0, len(rows))
	for i, m := range rows {
		if len(m) == 0 {
			continue
		}
		a, err := aliasFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse alias %s: %w", ids[i], err)
		}
		if activeOnly && !a.Active() {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *Repo) addPostings(ctx context.Context, a catalog.Alias) error {
	return r.store.SAddMulti(ctx, postingItems(a))
}

func (r *Repo) removePostings(ctx context.Context, a catalog.Alias) error {
	return r.store.SRemMulti(ctx, postingItems(a))
}

func postingItems(a catalog.Alias) []db.SetItem {
	trigrams := text.Trigrams(a.NormText())
	items := make([]db.SetItem, len(trigrams))
	for i, t := range trigrams {
		items[i] = db.SetItem{Key: postingKey(a.Locale(), t), Members: []string{a.ID()}}
	}
	return items
}
