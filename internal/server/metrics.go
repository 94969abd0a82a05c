package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	EvaluationsTotal *prometheus.CounterVec
	OverallScore     prometheus.Histogram
	EvidenceTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		EvaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "psgrade_evaluations_total",
				Help: "Total statements evaluated, by grade",
			},
			[]string{"grade"},
		),

		OverallScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "psgrade_overall_score",
				Help:    "Overall statement scores",
				Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			},
		),

		EvidenceTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "psgrade_evidence_scores_total",
				Help: "Total evidence items scored, by tier",
			},
			[]string{"tier"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "psgrade_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"route", "status"},
		),
	}

	m.registry.MustRegister(
		m.EvaluationsTotal,
		m.OverallScore,
		m.EvidenceTotal,
		m.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
