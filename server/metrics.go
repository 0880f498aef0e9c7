package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors published by the server.
type Metrics struct {
	registry    *prometheus.Registry
	jobsTotal   *prometheus.CounterVec
	jobDuration prometheus.Histogram
}

// NewMetrics creates and registers the server collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	jobsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "textmesh_jobs_total",
			Help: "Total number of executed jobs by terminal status",
		},
		[]string{"status"},
	)
	jobDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "textmesh_job_duration_seconds",
			Help:    "Duration of job executions",
			Buckets: prometheus.DefBuckets,
		},
	)

	registry.MustRegister(jobsTotal, jobDuration)

	return &Metrics{
		registry:    registry,
		jobsTotal:   jobsTotal,
		jobDuration: jobDuration,
	}
}

// Registry returns the underlying registry for the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveJob records one finished job.
func (m *Metrics) ObserveJob(status string, seconds float64) {
	m.jobsTotal.WithLabelValues(status).Inc()
	m.jobDuration.Observe(seconds)
}
