// Package metrics counts harvest outcomes and writes them in the
// node_exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Harvest holds the counters of one harvest process.
type Harvest struct {
	registry *prometheus.Registry

	recordsTotal   *prometheus.CounterVec
	recordDuration *prometheus.HistogramVec
	categories     *prometheus.CounterVec
	discovered     *prometheus.GaugeVec
	lastRun        *prometheus.GaugeVec
	inFlight       prometheus.Gauge
}

func NewHarvest() *Harvest {
	registry := prometheus.NewRegistry()

	recordsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "metadown",
			Subsystem: "harvest",
			Name:      "records_total",
			Help:      "Records processed by catalog and status.",
		},
		[]string{"catalog", "status"},
	)
	recordDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "metadown",
			Subsystem: "harvest",
			Name:      "record_duration_seconds",
			Help:      "Time to fetch, transform, and write one record.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"catalog", "status"},
	)
	categories := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "metadown",
			Subsystem: "harvest",
			Name:      "category_labels_total",
			Help:      "Category labels attached to harvested records.",
		},
		[]string{"catalog"},
	)
	discovered := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "metadown",
			Subsystem: "harvest",
			Name:      "records_discovered",
			Help:      "ISO19139 records listed by the last catalog search.",
		},
		[]string{"catalog"},
	)
	lastRun := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "metadown",
			Subsystem: "harvest",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last harvest of a catalog finished.",
		},
		[]string{"catalog"},
	)
	inFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "metadown",
			Subsystem: "harvest",
			Name:      "records_in_flight",
			Help:      "Records currently being harvested.",
		},
	)

	registry.MustRegister(recordsTotal, recordDuration, categories, discovered, lastRun, inFlight)

	return &Harvest{
		registry:       registry,
		recordsTotal:   recordsTotal,
		recordDuration: recordDuration,
		categories:     categories,
		discovered:     discovered,
		lastRun:        lastRun,
		inFlight:       inFlight,
	}
}

// Gatherer exposes the registry.
func (m *Harvest) Gatherer() prometheus.Gatherer {
	return m.registry
}

func (m *Harvest) Discovered(catalog string, n int) {
	m.discovered.WithLabelValues(catalog).Set(float64(n))
}

func (m *Harvest) StartRecord() {
	m.inFlight.Inc()
}

// FinishRecord records one record's outcome. labels is the number of
// category labels attached; it is ignored for failed records.
func (m *Harvest) FinishRecord(catalog string, duration time.Duration, labels int, err error) {
	m.inFlight.Dec()

	status := StatusSuccess
	if err != nil {
		status = StatusError
	}

	m.recordsTotal.WithLabelValues(catalog, status).Inc()
	m.recordDuration.WithLabelValues(catalog, status).Observe(duration.Seconds())
	if err == nil && labels > 0 {
		m.categories.WithLabelValues(catalog).Add(float64(labels))
	}
}

func (m *Harvest) FinishRun(catalog string, at time.Time) {
	m.lastRun.WithLabelValues(catalog).Set(float64(at.Unix()))
}

// WriteTextfile writes every metric to path, replacing it atomically.
func (m *Harvest) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
