package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// NormPinReader reads the stored normalization version pin.
type NormPinReader interface {
	NormVersion(ctx context.Context) (string, error)
}
