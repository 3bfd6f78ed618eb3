// Package metrics exposes Prometheus collectors for the API server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "natorvoice"

// Synthesis outcomes.
const (
	OutcomeSuccess       = "success"
	OutcomeQuotaExceeded = "quota_exceeded"
	OutcomeInvalid       = "invalid"
	OutcomeUpstreamError = "upstream_error"
)

// Caller classes for character accounting.
const (
	CallerUser      = "user"
	CallerAnonymous = "anonymous"
)

// Metrics owns a dedicated registry and the server collectors.
type Metrics struct {
	registry *prometheus.Registry

	synthesisTotal   *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	charactersTotal  *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
}

// New creates and registers every collector, including Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		synthesisTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "synthesis_total",
				Help:      "Total synthesis requests by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_duration_seconds",
				Help:      "Duration of upstream TTS calls in seconds",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 15},
			},
			[]string{"provider"},
		),
		charactersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "characters_total",
				Help:      "Characters charged against daily quotas",
			},
			[]string{"caller"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status",
			},
			[]string{"route", "status"},
		),
	}

	m.registry.MustRegister(
		m.synthesisTotal,
		m.upstreamDuration,
		m.charactersTotal,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordSynthesis counts one finished synthesis request.
func (m *Metrics) RecordSynthesis(provider, outcome string) {
	m.synthesisTotal.WithLabelValues(provider, outcome).Inc()
}

// ObserveUpstream records the duration of one upstream call.
func (m *Metrics) ObserveUpstream(provider string, d time.Duration) {
	m.upstreamDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// AddCharacters counts characters charged to a caller class.
func (m *Metrics) AddCharacters(caller string, n int) {
	if n > 0 {
		m.charactersTotal.WithLabelValues(caller).Add(float64(n))
	}
}

// RecordRequest counts one HTTP request.
func (m *Metrics) RecordRequest(route string, status int) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
