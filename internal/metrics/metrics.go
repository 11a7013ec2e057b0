package metrics

import (
	"net/http"

	"github.com/ErlanBelekov/blog-api/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Account lifecycle

	SignupsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "blog",
		Name:      "signups_total",
		Help:      "Total accounts created.",
	})

	SigninsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blog",
		Name:      "signins_total",
		Help:      "Sign-in attempts, by outcome.",
	}, []string{"outcome"})

	CodesSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blog",
		Name:      "codes_sent_total",
		Help:      "One-time codes issued, by kind.",
	}, []string{"kind"})

	CodeVerificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blog",
		Name:      "code_verifications_total",
		Help:      "One-time code checks, by kind and outcome.",
	}, []string{"kind", "outcome"})

	// Sweeper

	SweptCodesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "blog",
		Name:      "sweeper_cleared_users_total",
		Help:      "Users whose expired codes were cleared by the sweeper.",
	})

	SweepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "blog",
		Name:      "sweeper_cycle_duration_seconds",
		Help:      "Time taken for one sweeper cycle.",
		Buckets:   prometheus.DefBuckets,
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blog",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blog",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		SignupsTotal,
		SigninsTotal,
		CodesSentTotal,
		CodeVerificationsTotal,
		SweptCodesTotal,
		SweepDuration,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves /metrics plus liveness and readiness probes.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", health.LivenessHandler(checker))
	mux.HandleFunc("/readyz", health.ReadinessHandler(checker))
	return &http.Server{Addr: addr, Handler: mux}
}
