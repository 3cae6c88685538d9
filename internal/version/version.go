// Package version exposes the build identity stamped into the binary.
package version

// Overridden at build time with
// -ldflags "-X .../internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
