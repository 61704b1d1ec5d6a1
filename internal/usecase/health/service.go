package health

import (
	"context"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/cardoc/mechfind/internal/version"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the provider database is unreachable.
	Unhealthy Status = "error"
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
	Status    Status
	Version   string
	Timestamp time.Time
	Uptime    time.Duration
	Checks    map[string]CheckResult
}

type namedChecker struct {
	name    string
	checker Checker
}

// Service coordinates health checks.
type Service struct {
	db       DBPinger
	clock    clockwork.Clock
	started  time.Time
	checkers []namedChecker
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock (tests).
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithChecker adds a non-critical dependency check reported under name.
func WithChecker(name string, c Checker) Option {
	return func(s *Service) {
		s.checkers = append(s.checkers, namedChecker{name: name, checker: c})
	}
}

// New creates a Service. Uptime is measured from this call.
func New(db DBPinger, opts ...Option) *Service {
	s := &Service{db: db, clock: clockwork.NewRealClock()}
	for _, o := range opts {
		o(s)
	}
	sort.Slice(s.checkers, func(i, j int) bool { return s.checkers[i].name < s.checkers[j].name })
	s.started = s.clock.Now()
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.checkers)+1)
	status := Healthy

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		status = Unhealthy
	} else {
		checks["database"] = CheckOK
	}

	for _, c := range s.checkers {
		if err := c.checker.HealthCheck(ctx); err != nil {
			checks[c.name] = CheckError
			if status == Healthy {
				status = Degraded
			}
			continue
		}
		checks[c.name] = CheckOK
	}

	now := s.clock.Now()
	return Report{
		Status:    status,
		Version:   version.Version,
		Timestamp: now.UTC(),
		Uptime:    now.Sub(s.started),
		Checks:    checks,
	}
}
