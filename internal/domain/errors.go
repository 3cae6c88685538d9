package domain

import "errors"

var (
	// ErrInvalidQuery signals an empty or whitespace-only query. Caller error.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidArgument signals an out-of-range resolve parameter. Caller error.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrStoreUnavailable signals that the candidate store could not be
	// reached. Propagated as-is; retry policy belongs to the caller.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNotFound signals a missing entity.
	ErrNotFound = errors.New("not found")
	// ErrInvalidEntity signals an entity that fails validation.
	ErrInvalidEntity = errors.New("invalid entity")
	// ErrInvalidAlias signals an alias that fails validation.
	ErrInvalidAlias = errors.New("invalid alias")
	// ErrNormVersionMismatch signals stored data normalized by a different
	// normalizer version than this build's. Requires re-normalization.
	ErrNormVersionMismatch = errors.New("normalizer version mismatch")
)
