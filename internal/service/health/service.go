package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// Probe reports a dependency as healthy by returning nil.
type Probe func(ctx context.Context) error

type check struct {
	probe Probe
	// optional dependencies only degrade readiness.
	optional bool
}

type CheckResult struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMS int64  `json:"durationMs"`
}

type LiveResponse struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

type ReadyResponse struct {
	Ready     bool          `json:"ready"`
	Status    Status        `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []CheckResult `json:"checks"`
}

type Service struct {
	version string
	started time.Time
	timeout time.Duration
	log     *zap.Logger

	mu     sync.RWMutex
	checks map[string]check
}

func NewService(version string, log *zap.Logger) *Service {
	return &Service{
		version: version,
		started: time.Now(),
		timeout: 3 * time.Second,
		log:     log,
		checks:  make(map[string]check),
	}
}

// Register adds a required dependency; a failing probe makes the service unready.
func (s *Service) Register(name string, p Probe) {
	s.add(name, check{probe: p})
}

// RegisterOptional adds a dependency whose failure only degrades the service.
func (s *Service) RegisterOptional(name string, p Probe) {
	s.add(name, check{probe: p, optional: true})
}

func (s *Service) add(name string, c check) {
	s.mu.Lock()
	s.checks[name] = c
	s.mu.Unlock()
	s.log.Debug("Registered health check", zap.String("name", name), zap.Bool("optional", c.optional))
}

func (s *Service) Live() LiveResponse {
	return LiveResponse{
		Status:    StatusHealthy,
		Version:   s.version,
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Timestamp: time.Now(),
	}
}

// Ready runs every probe concurrently.
func (s *Service) Ready(ctx context.Context) ReadyResponse {
	s.mu.RLock()
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	checks := make(map[string]check, len(s.checks))
	for k, v := range s.checks {
		checks[k] = v
	}
	s.mu.RUnlock()
	sort.Strings(names)

	results := make([]CheckResult, len(names))
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			results[i] = s.run(ctx, name, checks[name])
			return nil
		})
	}
	_ = g.Wait()

	resp := ReadyResponse{Ready: true, Status: StatusHealthy, Timestamp: time.Now(), Checks: results}
	for _, r := range results {
		switch r.Status {
		case StatusUnhealthy:
			resp.Ready = false
			resp.Status = StatusUnhealthy
		case StatusDegraded:
			if resp.Status == StatusHealthy {
				resp.Status = StatusDegraded
			}
		}
	}
	return resp
}

func (s *Service) run(ctx context.Context, name string, c check) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := c.probe(ctx)
	res := CheckResult{Name: name, Status: StatusHealthy, DurationMS: time.Since(start).Milliseconds()}
	if err != nil {
		res.Message = err.Error()
		res.Status = StatusUnhealthy
		if c.optional {
			res.Status = StatusDegraded
		}
		s.log.Warn("Health check failed", zap.String("name", name), zap.Error(err))
	}
	return res
}
