package alias

import (
	"context"
	"testing"

	"github.com/lifeswitch-cloud/catalogd/internal/db"
	"github.com/lifeswitch-cloud/catalogd/internal/domain/catalog"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	delFn          func(ctx context.Context, key string) error
	saddFn         func(ctx context.Context, key string, members ...string) error
	saddMultiFn    func(ctx context.Context, items []db.SetItem) error
	sremMultiFn    func(ctx context.Context, items []db.SetItem) error
	smembersFn     func(ctx context.Context, key string) ([]string, error)
	sunionFn       func(ctx context.Context, keys []string) ([]string, error)
	getFn          func(ctx context.Context, key string) ([]byte, error)
	setFn          func(ctx context.Context, key string, value []byte) error
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) SAdd(ctx context.Context, key string, members ...string) error {
	if m.saddFn != nil {
		return m.saddFn(ctx, key, members...)
	}
	return nil
}

func (m *mockStore) SAddMulti(ctx context.Context, items []db.SetItem) error {
	if m.saddMultiFn != nil {
		return m.saddMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) SRemMulti(ctx context.Context, items []db.SetItem) error {
	if m.sremMultiFn != nil {
		return m.sremMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) SMembers(ctx context.Context, key string) ([]string, error) {
	if m.smembersFn != nil {
		return m.smembersFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) SUnion(ctx context.Context, keys []string) ([]string, error) {
	if m.sunionFn != nil {
		return m.sunionFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testAlias(t *testing.T) catalog.Alias {
	t.Helper()
	a, err := catalog.NewAlias(
		"al-1", "ex-1", "Lat Pull Down", "lat pull down", "en",
		"", "", catalog.AliasSourceSeed, 0.9, 1700000000000,
	)
	if err != nil {
		t.Fatalf("NewAlias: %v", err)
	}
	return a
}
