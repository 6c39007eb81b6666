package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for HTTP traffic and analyses.
type Metrics struct {
	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	analyses   *prometheus.CounterVec
	confidence prometheus.Histogram
}

// MustNewMetrics registers the collectors on reg and panics on conflicts.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "knex",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by route, method and status code.",
			},
			[]string{"route", "method", "code"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "knex",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "knex",
				Name:      "analyses_total",
				Help:      "Analyze calls by outcome.",
			},
			[]string{"outcome"},
		),
		confidence: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "knex",
				Name:      "keyword_confidence",
				Help:      "Confidence scores of stored analyses.",
				Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
			},
		),
	}
	reg.MustRegister(m.requests, m.latency, m.analyses, m.confidence)
	return m
}

func (m *Metrics) observeRequest(route, method string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, method, statusLabel(code)).Inc()
	m.latency.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) observeAnalysis(outcome string, confidence float64) {
	m.analyses.WithLabelValues(outcome).Inc()
	if outcome == outcomeStored {
		m.confidence.Observe(confidence)
	}
}

const (
	outcomeStored   = "stored"
	outcomeRejected = "rejected"
	outcomeLLMError = "llm_error"
	outcomeError    = "error"
)

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	}
	return "2xx"
}
