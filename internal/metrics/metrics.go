package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/insightdelivered/bank-statement-processor/internal/models"
)

// Document outcome labels.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics holds the statement processing collectors on their own registry.
type Metrics struct {
	registry *prometheus.Registry

	// DocumentsProcessed counts processed documents by outcome
	DocumentsProcessed *prometheus.CounterVec

	// TransactionsExtracted counts emitted transactions by processing method
	TransactionsExtracted *prometheus.CounterVec

	// ProcessingDuration tracks time spent per document
	ProcessingDuration prometheus.Histogram
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		DocumentsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statement_documents_processed_total",
				Help: "Total number of statement documents processed",
			},
			[]string{"status"},
		),
		TransactionsExtracted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statement_transactions_extracted_total",
				Help: "Total number of transactions extracted",
			},
			[]string{"method"},
		),
		ProcessingDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "statement_processing_duration_seconds",
				Help:    "Statement processing duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// Observe records one processed document.
func (m *Metrics) Observe(result *models.Result, elapsed time.Duration) {
	if m == nil || result == nil {
		return
	}
	status := StatusSuccess
	if !result.Success {
		status = StatusFailure
	}
	m.DocumentsProcessed.WithLabelValues(status).Inc()
	if result.Success {
		m.TransactionsExtracted.WithLabelValues(string(result.Metadata.ProcessingMethod)).
			Add(float64(len(result.Transactions)))
	}
	m.ProcessingDuration.Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
