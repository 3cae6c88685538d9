// Package db defines the storage facade the catalog repositories consume.
// The resolver only ever reads; writes come from the curation/seed path.
package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
// Consumers depend on the narrow sub-interfaces, not on Store itself.
type Store interface {
	Pinger
	HashStore
	SetStore
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore provides hash-based row operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// SetItem holds a single key+members pair for pipelined SADD/SREM.
type SetItem struct {
	Key     string
	Members []string
}

// SetStore provides set operations backing the trigram posting lists.
type SetStore interface {
	SAdd(ctx context.Context, key string, members ...string) error
	SAddMulti(ctx context.Context, items []SetItem) error
	SRem(ctx context.Context, key string, members ...string) error
	SRemMulti(ctx context.Context, items []SetItem) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SUnion(ctx context.Context, keys []string) ([]string, error)
}

// KVStore provides plain key-value operations (normalizer version pin,
// alias uniqueness guards).
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
