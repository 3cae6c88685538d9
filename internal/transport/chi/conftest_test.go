package chi

import (
	"context"
	"net/http/httptest"
	"sort"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lifeswitch-cloud/catalogd/internal/domain"
	"github.com/lifeswitch-cloud/catalogd/internal/domain/catalog"
	cataloguc "github.com/lifeswitch-cloud/catalogd/internal/usecase/catalog"
	healthuc "github.com/lifeswitch-cloud/catalogd/internal/usecase/health"
	resolveuc "github.com/lifeswitch-cloud/catalogd/internal/usecase/resolve"
)

// memCatalog is an in-memory store backing every service interface the
// server needs, so handler tests run against the full stack.
type memCatalog struct {
	entities map[string]catalog.Entity
	aliases  map[string]catalog.Alias
	err      error
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		entities: make(map[string]catalog.Entity),
		aliases:  make(map[string]catalog.Alias),
	}
}

func (m *memCatalog) Create(_ context.Context, e catalog.Entity) error {
	if m.err != nil {
		return m.err
	}
	m.entities[e.ID()] = e
	return nil
}

func (m *memCatalog) Get(_ context.Context, id string) (catalog.Entity, error) {
	if m.err != nil {
		return catalog.Entity{}, m.err
	}
	e, ok := m.entities[id]
	if !ok {
		return catalog.Entity{}, domain.ErrNotFound
	}
	return e, nil
}

func (m *memCatalog) GetMulti(_ context.Context, ids []string) ([]catalog.Entity, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []catalog.Entity
	for _, id := range ids {
		if e, ok := m.entities[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memCatalog) List(_ context.Context, kind catalog.Kind) ([]catalog.Entity, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []catalog.Entity
	for _, e := range m.entities {
		if e.Kind() == kind {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName() < out[j].DisplayName() })
	return out, nil
}

func (m *memCatalog) FindByBarcode(_ context.Context, barcode string) (catalog.Entity, error) {
	if m.err != nil {
		return catalog.Entity{}, m.err
	}
	for _, e := range m.entities {
		if f := e.Food(); f != nil && f.Barcode == barcode {
			return e, nil
		}
	}
	return catalog.Entity{}, domain.ErrNotFound
}

func (m *memCatalog) SetActive(_ context.Context, id string, active bool) (catalog.Entity, error) {
	e, ok := m.entities[id]
	if !ok {
		return catalog.Entity{}, domain.ErrNotFound
	}
	updated := catalog.Reconstruct(e.ID(), e.Kind(), e.DisplayName(), e.NormName(),
		active, e.CreatedAt(), e.UpdatedAt(), e.Exercise(), e.Food())
	m.entities[id] = updated
	return updated, nil
}

func (m *memCatalog) SetPublic(_ context.Context, id string, public bool) (catalog.Entity, error) {
	e, ok := m.entities[id]
	if !ok {
		return catalog.Entity{}, domain.ErrNotFound
	}
	f := e.Food()
	if f == nil {
		return catalog.Entity{}, domain.ErrInvalidEntity
	}
	info := *f
	info.Public = public
	updated := catalog.Reconstruct(e.ID(), e.Kind(), e.DisplayName(), e.NormName(),
		e.Active(), e.CreatedAt(), e.UpdatedAt(), nil, &info)
	m.entities[id] = updated
	return updated, nil
}

func (m *memCatalog) Upsert(_ context.Context, a catalog.Alias) (catalog.Alias, bool, error) {
	if m.err != nil {
		return catalog.Alias{}, false, m.err
	}
	for _, existing := range m.aliases {
		if existing.EntityID() == a.EntityID() && existing.Locale() == a.Locale() && existing.NormText() == a.NormText() {
			return existing, false, nil
		}
	}
	m.aliases[a.ID()] = a
	return a, true, nil
}

func (m *memCatalog) ListByEntity(_ context.Context, entityID string) ([]catalog.Alias, error) {
	var out []catalog.Alias
	for _, a := range m.aliases {
		if a.EntityID() == entityID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NormText() < out[j].NormText() })
	return out, nil
}

// memEntitySource and memAliasSource wrap memCatalog to satisfy the two
// resolver source interfaces, which differ in their first argument.
type memEntitySource struct{ *memCatalog }

func (m memEntitySource) MatchCandidates(_ context.Context, kind catalog.Kind, _ []string, activeOnly bool) ([]catalog.Entity, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []catalog.Entity
	for _, e := range m.entities {
		if e.Kind() != kind {
			continue
		}
		if activeOnly && !e.Active() {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type memAliasSource struct{ *memCatalog }

func (m memAliasSource) MatchCandidates(_ context.Context, locale string, _ []string, activeOnly bool) ([]catalog.Alias, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []catalog.Alias
	for _, a := range m.aliases {
		if a.Locale() != locale {
			continue
		}
		if activeOnly && !a.Active() {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type okPinger struct{}

func (okPinger) Ping(_ context.Context) error { return nil }

func newTestServer(t *testing.T, mem *memCatalog) *httptest.Server {
	t.Helper()

	resolver := resolveuc.New(memEntitySource{mem}, memAliasSource{mem})
	curation := cataloguc.New(mem, mem)
	health := healthuc.New(okPinger{}, nil)

	defaults := SearchDefaults{Limit: 25, MaxLimit: 100, Locale: "en"}
	s := NewServer(resolver, curation, health, defaults, zap.NewNop())
	r := chirouter.NewRouter()
	s.Routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func seedExercise(t *testing.T, mem *memCatalog, id, name, normName string) {
	t.Helper()
	e, err := catalog.NewExercise(id, name, normName, 1700000000000, catalog.ExerciseInfo{Modality: "machine"})
	if err != nil {
		t.Fatalf("NewExercise: %v", err)
	}
	mem.entities[id] = e
}

func seedFood(t *testing.T, mem *memCatalog, id, name, normName, barcode string, public bool) {
	t.Helper()
	f, err := catalog.NewFood(id, name, normName, 1700000000000, catalog.FoodInfo{
		Brand:   "Fage",
		Barcode: barcode,
		Kcal:    59,
		Public:  public,
	})
	if err != nil {
		t.Fatalf("NewFood: %v", err)
	}
	mem.entities[id] = f
}
