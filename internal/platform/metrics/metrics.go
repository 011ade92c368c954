package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route, and status",
	}, []string{"method", "route", "status"})
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	SessionTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "work_session_transitions_total",
		Help: "Work-session status transitions by target status",
	}, []string{"to"})
	PayrollRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payroll_runs_total",
		Help: "Payroll aggregation runs by outcome",
	}, []string{"outcome"})
	DisputesFiled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "disputes_filed_total",
		Help: "Disputes filed against computed sessions",
	})
	BatchesFinalized = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "settlement_batches_finalized_total",
		Help: "Settlement batches locked",
	})
)

// Handler exposes the /metrics endpoint with a singleton registry.
func Handler() http.Handler {
	once.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestDuration,
			SessionTransitions,
			PayrollRuns,
			DisputesFiled,
			BatchesFinalized,
		)
	})
	return promhttp.Handler()
}
