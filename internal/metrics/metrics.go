// Package metrics holds the Prometheus collectors exported by the server.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/at-ishikawa/studylog/internal/inference"
)

// Outcome labels for SuggestionsTotal.
const (
	OutcomeSuccess = "success"
	OutcomeTimeout = "timeout"
	OutcomeEmpty   = "empty"
	OutcomeFailed  = "transport_error"
)

type Metrics struct {
	registry *prometheus.Registry

	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	SuggestionsTotal *prometheus.CounterVec
	EntriesInserted  prometheus.Counter
}

// New registers every collector on a fresh registry, so tests can create as many as they need.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"method", "endpoint"},
		),
		SuggestionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studylog_suggestions_total",
				Help: "Suggestion requests by outcome",
			},
			[]string{"outcome"},
		),
		EntriesInserted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "studylog_entries_inserted_total",
				Help: "Study log entries inserted",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestCounter,
		m.RequestDuration,
		m.SuggestionsTotal,
		m.EntriesInserted,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSuggestion counts one suggestion request by the class of err.
func (m *Metrics) ObserveSuggestion(err error) {
	m.SuggestionsTotal.WithLabelValues(SuggestionOutcome(err)).Inc()
}

func SuggestionOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, inference.ErrTimeout):
		return OutcomeTimeout
	case errors.Is(err, inference.ErrEmptyResponse):
		return OutcomeEmpty
	default:
		return OutcomeFailed
	}
}
