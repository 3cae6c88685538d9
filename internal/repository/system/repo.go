// Package system persists instance-level metadata, currently only the
// normalization version pin.
package system

import (
	"context"
	"errors"
	"fmt"

	"github.com/lifeswitch-cloud/catalogd/internal/db"
	"github.com/lifeswitch-cloud/catalogd/internal/domain"
	"github.com/lifeswitch-cloud/catalogd/internal/text"
)

const normVersionKey = "catalog:norm:version"

// store is the consumer interface for system keys (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo reads and writes instance metadata.
type Repo struct {
	store store
}

// New creates a system repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// NormVersion returns the pinned normalization version, or ErrNotFound
// when the instance has never been pinned.
func (r *Repo) NormVersion(ctx context.Context) (string, error) {
	v, err := r.store.Get(ctx, normVersionKey)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get norm version: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return string(v), nil
}

// EnsureNormVersion pins the built-in normalization version on first run
// and rejects startup against an index written by a different version.
func (r *Repo) EnsureNormVersion(ctx context.Context) error {
	pinned, err := r.NormVersion(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		if err := r.store.Set(ctx, normVersionKey, []byte(text.NormVersion)); err != nil {
			return fmt.Errorf("pin norm version: %w: %w", domain.ErrStoreUnavailable, err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	if pinned != text.NormVersion {
		return fmt.Errorf("%w: index pinned to %q, binary uses %q",
			domain.ErrNormVersionMismatch, pinned, text.NormVersion)
	}
	return nil
}
