package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusUp   = "up"
	StatusDown = "down"

	defaultPingTimeout = 2 * time.Second
)

// Pinger is satisfied by every repository.UserRepository.
type Pinger interface {
	Ping(ctx context.Context) error
}

type CheckResult struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}

type HealthResult struct {
	Status        string                 `json:"status"`
	UptimeSeconds int64                  `json:"uptimeSeconds"`
	Checks        map[string]CheckResult `json:"checks,omitempty"`
}

// Checker reports whether the process is alive and its dependencies reachable.
type Checker struct {
	deps    map[string]Pinger
	timeout time.Duration
	started time.Time
	logger  *slog.Logger
	up      *prometheus.GaugeVec
	latency *prometheus.GaugeVec
}

type Option func(*Checker)

// WithPingTimeout bounds a whole readiness round.
func WithPingTimeout(d time.Duration) Option {
	return func(c *Checker) { c.timeout = d }
}

// NewChecker registers its gauges on reg. deps maps a dependency name, used
// as the gauge label, to its pinger.
func NewChecker(deps map[string]Pinger, logger *slog.Logger, reg prometheus.Registerer, opts ...Option) *Checker {
	c := &Checker{
		deps:    deps,
		timeout: defaultPingTimeout,
		started: time.Now(),
		logger:  logger.With("component", "health"),
		up: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "soundproxy",
			Name:      "health_check_up",
			Help:      "Whether a dependency is reachable. 1 = up, 0 = down.",
		}, []string{"dependency"}),
		latency: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "soundproxy",
			Name:      "health_check_latency_seconds",
			Help:      "Duration of the last readiness ping per dependency.",
		}, []string{"dependency"}),
	}
	for _, opt := range opts {
		opt(c)
	}
	reg.MustRegister(c.up, c.latency)
	return c
}

func (c *Checker) Liveness(_ context.Context) HealthResult {
	return HealthResult{Status: StatusUp, UptimeSeconds: int64(time.Since(c.started).Seconds())}
}

// Readiness pings all dependencies in parallel. One failed dependency makes
// the whole result down.
func (c *Checker) Readiness(ctx context.Context) HealthResult {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]CheckResult, len(c.deps))
	)
	for name, dep := range c.deps {
		wg.Go(func() {
			check := c.ping(checkCtx, name, dep)
			mu.Lock()
			checks[name] = check
			mu.Unlock()
		})
	}
	wg.Wait()

	result := c.Liveness(ctx)
	result.Checks = checks
	for _, check := range checks {
		if check.Status != StatusUp {
			result.Status = StatusDown
		}
	}
	return result
}

func (c *Checker) ping(ctx context.Context, name string, dep Pinger) CheckResult {
	start := time.Now()
	err := dep.Ping(ctx)
	elapsed := time.Since(start)
	c.latency.WithLabelValues(name).Set(elapsed.Seconds())

	if err != nil {
		c.logger.WarnContext(ctx, "health check failed", "dependency", name, "error", err)
		c.up.WithLabelValues(name).Set(0)
		return CheckResult{Status: StatusDown, LatencyMS: elapsed.Milliseconds(), Error: err.Error()}
	}
	c.up.WithLabelValues(name).Set(1)
	return CheckResult{Status: StatusUp, LatencyMS: elapsed.Milliseconds()}
}
