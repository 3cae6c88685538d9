package resolve

import (
	"context"
	"testing"

	"github.com/lifeswitch-cloud/catalogd/internal/domain/catalog"
	"github.com/lifeswitch-cloud/catalogd/internal/domain/match"
)

// fakeEntities serves candidates from an in-memory slice, mimicking the
// posting-set prefilter by returning every entity of the kind.
type fakeEntities struct {
	entities []catalog.Entity
	matchErr error
	calls    int
}

func (f *fakeEntities) MatchCandidates(_ context.Context, kind catalog.Kind, _ []string, activeOnly bool) ([]catalog.Entity, error) {
	f.calls++
	if f.matchErr != nil {
		return nil, f.matchErr
	}
	var out []catalog.Entity
	for _, e := range f.entities {
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

func (f *fakeEntities) GetMulti(_ context.Context, ids []string) ([]catalog.Entity, error) {
	var out []catalog.Entity
	for _, id := range ids {
		for _, e := range f.entities {
			if e.ID() == id {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

type fakeAliases struct {
	aliases []catalog.Alias
	calls   int
}

func (f *fakeAliases) MatchCandidates(_ context.Context, locale string, _ []string, activeOnly bool) ([]catalog.Alias, error) {
	f.calls++
	var out []catalog.Alias
	for _, a := range f.aliases {
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

func mkExercise(t *testing.T, id, name, normName string) catalog.Entity {
	t.Helper()
	e, err := catalog.NewExercise(id, name, normName, 1700000000000, catalog.ExerciseInfo{Modality: "machine"})
	if err != nil {
		t.Fatalf("NewExercise: %v", err)
	}
	return e
}

func mkFood(t *testing.T, id, name, normName string, public bool) catalog.Entity {
	t.Helper()
	f, err := catalog.NewFood(id, name, normName, 1700000000000, catalog.FoodInfo{Kcal: 100, Public: public})
	if err != nil {
		t.Fatalf("NewFood: %v", err)
	}
	return f
}

func mkAlias(t *testing.T, id, entityID, text, normText, brand, model string) catalog.Alias {
	t.Helper()
	a, err := catalog.NewAlias(id, entityID, text, normText, "en", brand, model, catalog.AliasSourceSeed, 0, 1700000000000)
	if err != nil {
		t.Fatalf("NewAlias: %v", err)
	}
	return a
}

func mustRequest(t *testing.T, query string, maxResults int, minScore float64) *match.Request {
	t.Helper()
	if maxResults == 0 {
		maxResults = match.DefaultLimit
	}
	req, err := match.NewRequest(query, "en", maxResults, minScore)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return &req
}
