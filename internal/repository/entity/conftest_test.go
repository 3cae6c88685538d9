package entity

import (
	"context"
	"fmt"
	"strings"
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
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
	saddMultiFn    func(ctx context.Context, items []db.SetItem) error
	sremMultiFn    func(ctx context.Context, items []db.SetItem) error
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

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
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

// typedStore keeps hashes, sets, and strings in separate keyspaces and
// fails with a wrong-type error when a command crosses them, the way a
// real Redis does. The function-field mockStore cannot catch key
// collisions between row hashes and index sets; this can.
type typedStore struct {
	hashes  map[string]map[string]string
	sets    map[string]map[string]struct{}
	strings map[string][]byte
}

func newTypedStore() *typedStore {
	return &typedStore{
		hashes:  make(map[string]map[string]string),
		sets:    make(map[string]map[string]struct{}),
		strings: make(map[string][]byte),
	}
}

func (s *typedStore) wrongType(op, key string) error {
	return fmt.Errorf("%s: key %s: WRONGTYPE", op, key)
}

func (s *typedStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if _, ok := s.sets[key]; ok {
		return s.wrongType("HSET", key)
	}
	row := make(map[string]string, len(fields))
	for k, v := range fields {
		row[k] = v
	}
	s.hashes[key] = row
	return nil
}

func (s *typedStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if _, ok := s.sets[key]; ok {
		return nil, s.wrongType("HGETALL", key)
	}
	return s.hashes[key], nil
}

func (s *typedStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	out := make([]map[string]string, len(keys))
	for i, key := range keys {
		row, err := s.HGetAll(ctx, key)
		if err != nil {
			return nil, err
		}
		out[i] = row
	}
	return out, nil
}

func (s *typedStore) Del(_ context.Context, key string) error {
	delete(s.hashes, key)
	delete(s.sets, key)
	delete(s.strings, key)
	return nil
}

func (s *typedStore) Scan(_ context.Context, pattern string) ([]string, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	var out []string
	for key := range s.hashes {
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	for key := range s.sets {
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	for key := range s.strings {
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	return out, nil
}

func (s *typedStore) SAddMulti(_ context.Context, items []db.SetItem) error {
	for _, item := range items {
		if _, ok := s.hashes[item.Key]; ok {
			return s.wrongType("SADD", item.Key)
		}
		set, ok := s.sets[item.Key]
		if !ok {
			set = make(map[string]struct{})
			s.sets[item.Key] = set
		}
		for _, m := range item.Members {
			set[m] = struct{}{}
		}
	}
	return nil
}

func (s *typedStore) SRemMulti(_ context.Context, items []db.SetItem) error {
	for _, item := range items {
		for _, m := range item.Members {
			delete(s.sets[item.Key], m)
		}
	}
	return nil
}

func (s *typedStore) SUnion(_ context.Context, keys []string) ([]string, error) {
	union := make(map[string]struct{})
	for _, key := range keys {
		if _, ok := s.hashes[key]; ok {
			return nil, s.wrongType("SUNION", key)
		}
		for m := range s.sets[key] {
			union[m] = struct{}{}
		}
	}
	out := make([]string, 0, len(union))
	for m := range union {
		out = append(out, m)
	}
	return out, nil
}

func (s *typedStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.strings[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (s *typedStore) Set(_ context.Context, key string, value []byte) error {
	if _, ok := s.hashes[key]; ok {
		return s.wrongType("SET", key)
	}
	s.strings[key] = value
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testExercise(t *testing.T) catalog.Entity {
	t.Helper()
	e, err := catalog.NewExercise("ex-1", "Lat Pulldown", "lat pulldown", 1700000000000, catalog.ExerciseInfo{
		Modality:       "machine",
		PrimaryMuscles: []string{"lats", "biceps"},
	})
	if err != nil {
		t.Fatalf("NewExercise: %v", err)
	}
	return e
}

func testFood(t *testing.T) catalog.Entity {
	t.Helper()
	f, err := catalog.NewFood("f-1", "Greek Yogurt", "greek yogurt", 1700000000000, catalog.FoodInfo{
		Brand:    "Fage",
		Barcode:  "5201054018764",
		Kcal:     59,
		ProteinG: 10.3,
		Public:   true,
	})
	if err != nil {
		t.Fatalf("NewFood: %v", err)
	}
	return f
}
