package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spigell/lynxhire/internal/engine"
)

const namespace = "lynxhire"

type metrics struct {
	registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	scores      *prometheus.HistogramVec
	rateLimited prometheus.Counter
	candidates  prometheus.Gauge
}

// newMetrics uses a private registry so several servers can coexist in one process.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		scores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "candidate_score",
			Help:      "Scores of analysed candidates.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}, []string{"kind"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		candidates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_candidates",
			Help:      "Candidates in the current session.",
		}),
	}

	m.registry.MustRegister(
		m.requests, m.duration, m.scores, m.rateLimited, m.candidates,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) observeCandidate(c engine.CandidateRecord) {
	m.scores.WithLabelValues("fit").Observe(float64(c.FitScore))
	m.scores.WithLabelValues("fps").Observe(float64(c.FuturePerformanceScore))
	m.scores.WithLabelValues("geo").Observe(float64(c.GeoMatch))
	m.scores.WithLabelValues("stability").Observe(float64(c.StabilityScore))
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
