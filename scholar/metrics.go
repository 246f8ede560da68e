package scholar

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scraper.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	StubsTotal      prometheus.Counter
	EnrichedTotal   prometheus.Counter
	DegradedTotal   prometheus.Counter
	RetriesTotal    prometheus.Counter
	ErrorsTotal     *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholar_requests_total",
			Help: "Total HTTP requests issued, by pipeline phase.",
		},
		[]string{"phase"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scholar_request_duration_seconds",
			Help:    "HTTP request latency for Scholar pages.",
			Buckets: prometheus.DefBuckets,
		},
	)
	stubs := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scholar_stubs_scanned_total",
			Help: "Publication stubs collected from listing pages.",
		},
	)
	enriched := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scholar_records_enriched_total",
			Help: "Publication records fully enriched from detail pages.",
		},
	)
	degraded := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scholar_records_degraded_total",
			Help: "Publication records kept with stub fields only after a failed enrichment.",
		},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scholar_retries_total",
			Help: "Detail-page retry attempts scheduled.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholar_errors_total",
			Help: "Request errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(requests, requestDuration, stubs, enriched, degraded, retries, errorsTotal)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: requestDuration,
		StubsTotal:      stubs,
		EnrichedTotal:   enriched,
		DegradedTotal:   degraded,
		RetriesTotal:    retries,
		ErrorsTotal:     errorsTotal,
	}
}

// IncRequest increments the requests counter for a phase.
func (m *Metrics) IncRequest(phase string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(phase).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// AddStubs adds to the scanned stubs counter.
func (m *Metrics) AddStubs(n int) {
	if m == nil {
		return
	}
	m.StubsTotal.Add(float64(n))
}

// IncEnriched increments the enriched records counter.
func (m *Metrics) IncEnriched() {
	if m == nil {
		return
	}
	m.EnrichedTotal.Inc()
}

// IncDegraded increments the degraded records counter.
func (m *Metrics) IncDegraded() {
	if m == nil {
		return
	}
	m.DegradedTotal.Inc()
}

// IncRetries increments the retries counter.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
