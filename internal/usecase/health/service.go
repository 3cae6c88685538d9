package health

import (
	"context"

	"github.com/lifeswitch-cloud/catalogd/internal/text"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	normPin NormPinReader
}

// New creates a Service. normPin can be nil.
func New(db DBPinger, normPin NormPinReader) *Service {
	return &Service{db: db, normPin: normPin}
}

// Check runs health checks against all components. The normalization
// check fails when the stored pin does not match the built-in version,
// meaning the index was written by an incompatible normalizer.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	if s.normPin != nil {
		pinned, err := s.normPin.NormVersion(ctx)
		if err != nil || pinned != text.NormVersion {
			checks["normalization"] = CheckError
		} else {
			checks["normalization"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
