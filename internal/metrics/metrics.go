// Package metrics exposes client-side counters on a private Prometheus registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	MetricAPIRequestsTotal     = "datadetective_api_requests_total"
	MetricAPIRetriesTotal      = "datadetective_api_retries_total"
	MetricAPIRequestDuration   = "datadetective_api_request_duration_seconds"
	MetricQueryExecutionsTotal = "datadetective_query_executions_total"
	MetricQueryDurationSeconds = "datadetective_query_duration_seconds"
	MetricPanicsRecoveredTotal = "datadetective_panics_recovered_total"
)

// Metrics is safe for concurrent use. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests     *prometheus.CounterVec
	apiRetries      *prometheus.CounterVec
	apiDuration     *prometheus.HistogramVec
	queryExecutions *prometheus.CounterVec
	queryDuration   prometheus.Histogram
	panics          prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricAPIRequestsTotal,
			Help: "Backend API requests by method and response status.",
		}, []string{"method", "status"}),
		apiRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricAPIRetriesTotal,
			Help: "Backend API request retries by method.",
		}, []string{"method"}),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricAPIRequestDuration,
			Help:    "Backend API request latency including retries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		queryExecutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricQueryExecutionsTotal,
			Help: "Queries run on the embedded engine by outcome.",
		}, []string{"outcome"}),
		queryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricQueryDurationSeconds,
			Help:    "Embedded engine query latency.",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricPanicsRecoveredTotal,
			Help: "Panics caught by the error boundary.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiRetries,
		m.apiDuration,
		m.queryExecutions,
		m.queryDuration,
		m.panics,
	)

	return m
}

// ObserveAPIRequest records one finished request. status is 0 when no
// response was received.
func (m *Metrics) ObserveAPIRequest(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.apiRequests.WithLabelValues(method, label).Inc()
	m.apiDuration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) IncAPIRetry(method string) {
	if m == nil {
		return
	}
	m.apiRetries.WithLabelValues(method).Inc()
}

func (m *Metrics) ObserveQuery(success bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "error"
	}
	m.queryExecutions.WithLabelValues(outcome).Inc()
	m.queryDuration.Observe(d.Seconds())
}

func (m *Metrics) IncPanic() {
	if m == nil {
		return
	}
	m.panics.Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
