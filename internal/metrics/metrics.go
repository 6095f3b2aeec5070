// Package metrics exposes receipt parsing counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/foxxcyber/receipt-feed/internal/parser"
)

const namespace = "receipt_feed"

// Metrics holds the collectors on a private registry
type Metrics struct {
	registry       *prometheus.Registry
	receiptsParsed *prometheus.CounterVec
	itemsParsed    *prometheus.CounterVec
	parseDuration  *prometheus.HistogramVec
}

// New registers the parsing collectors plus the Go and process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		receiptsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipts_parsed_total",
			Help:      "Receipts run through a parser, by resolved source and outcome.",
		}, []string{"source", "outcome"}),
		itemsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_parsed_total",
			Help:      "Items extracted from receipts, by resolved source.",
		}, []string{"source"}),
		parseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time spent parsing one receipt.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"source"}),
	}

	m.registry.MustRegister(
		m.receiptsParsed,
		m.itemsParsed,
		m.parseDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveParse records one parser run
func (m *Metrics) ObserveParse(source parser.Source, items int, elapsed time.Duration) {
	outcome := "ok"
	if items == 0 {
		outcome = "empty"
	}

	label := string(source)
	m.receiptsParsed.WithLabelValues(label, outcome).Inc()
	m.itemsParsed.WithLabelValues(label).Add(float64(items))
	m.parseDuration.WithLabelValues(label).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
