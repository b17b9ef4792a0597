package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates at least one failing check.
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
	db        DBPinger
	prober    BackendProber
	endpoints []string
}

// New creates a Service. prober can be nil, e.g. on a worker.
func New(db DBPinger, prober BackendProber, endpoints []string) *Service {
	return &Service{db: db, prober: prober, endpoints: endpoints}
}

// Check runs health checks against all components.
// Backend checks are keyed "backend:<endpoint>".
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.db != nil {
		checks["database"] = result(s.db.Ping(ctx))
	}

	if s.prober != nil {
		for _, ep := range s.endpoints {
			checks["backend:"+ep] = result(s.prober.Probe(ctx, ep))
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

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
