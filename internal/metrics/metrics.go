package metrics

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ErlanBelekov/soundproxy/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Spotify metrics

	TokenExchangesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "soundproxy",
		Name:      "token_exchanges_total",
		Help:      "Client-credentials exchanges against the Spotify token endpoint, by outcome.",
	}, []string{"outcome"})

	UpstreamRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "soundproxy",
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of authorized Spotify API calls.",
		Buckets:   []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"endpoint", "status"})

	CatalogFallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "soundproxy",
		Name:      "catalog_fallbacks_total",
		Help:      "Catalog reads that failed and were answered with a fallback result.",
	}, []string{"operation"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "soundproxy",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "soundproxy",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		TokenExchangesTotal,
		UpstreamRequestDuration,
		CatalogFallbacksTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves /metrics plus liveness and readiness probes on a separate port.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", probe(checker.Liveness))
	mux.HandleFunc("/readyz", probe(checker.Readiness))
	return &http.Server{Addr: addr, Handler: mux}
}

func probe(check func(context.Context) health.HealthResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := check(r.Context())
		status := http.StatusOK
		if result.Status != health.StatusUp {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(result)
	}
}
