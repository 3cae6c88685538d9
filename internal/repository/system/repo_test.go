package system

import (
	"context"
	"errors"
	"testing"

	"github.com/lifeswitch-cloud/catalogd/internal/db"
	"github.com/lifeswitch-cloud/catalogd/internal/domain"
	"github.com/lifeswitch-cloud/catalogd/internal/text"
)

type mockStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
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

func TestNormVersion_Unpinned(t *testing.T) {
	repo := New(&mockStore{})
	_, err := repo.NormVersion(context.Background())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestEnsureNormVersion_PinsOnFirstRun(t *testing.T) {
	ms := &mockStore{}
	var pinnedKey, pinnedVal string
	ms.setFn = func(_ context.Context, key string, value []byte) error {
		pinnedKey, pinnedVal = key, string(value)
		return nil
	}

	if err := New(ms).EnsureNormVersion(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pinnedKey != "catalog:norm:version" || pinnedVal != text.NormVersion {
		t.Errorf("pin = %q -> %q", pinnedKey, pinnedVal)
	}
}

func TestEnsureNormVersion_AcceptsMatchingPin(t *testing.T) {
	ms := &mockStore{
		getFn: func(_ context.Context, _ string) ([]byte, error) {
			return []byte(text.NormVersion), nil
		},
	}
	if err := New(ms).EnsureNormVersion(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEnsureNormVersion_RejectsMismatch(t *testing.T) {
	ms := &mockStore{
		getFn: func(_ context.Context, _ string) ([]byte, error) {
			return []byte("0"), nil
		},
	}
	err := New(ms).EnsureNormVersion(context.Background())
	if !errors.Is(err, domain.ErrNormVersionMismatch) {
		t.Errorf("error = %v, want ErrNormVersionMismatch", err)
	}
}
