package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics defines counters for a batch extraction run.
type Metrics interface {
	IncPackagesScanned(format string)
	IncExtractions(status string)
	ObserveExtractionDuration(durationSeconds float64)
}

// Extraction statuses
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusTimeout = "timeout"
)

// Noop implements Metrics without emitting anything.
type Noop struct{}

func (Noop) IncPackagesScanned(string)         {}
func (Noop) IncExtractions(string)             {}
func (Noop) ObserveExtractionDuration(float64) {}

// Prom implements Metrics backed by Prometheus collectors.
type Prom struct {
	registry         *prometheus.Registry
	packagesScanned  *prometheus.CounterVec
	extractions      *prometheus.CounterVec
	extractionTiming prometheus.Histogram
}

// NewProm registers the collectors on a dedicated registry.
func NewProm(namespace string) *Prom {
	p := &Prom{
		registry: prometheus.NewRegistry(),
		packagesScanned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packages_scanned_total",
			Help:      "Decompiled packages found by manifest format",
		}, []string{"format"}),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "manifest_extractions_total",
			Help:      "Manifest extractions by status",
		}, []string{"status"}),
		extractionTiming: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "manifest_extraction_duration_seconds",
			Help:      "Time spent extracting one manifest",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	p.registry.MustRegister(p.packagesScanned, p.extractions, p.extractionTiming)
	return p
}

func (p *Prom) IncPackagesScanned(format string) {
	p.packagesScanned.WithLabelValues(format).Inc()
}

func (p *Prom) IncExtractions(status string) {
	p.extractions.WithLabelValues(status).Inc()
}

func (p *Prom) ObserveExtractionDuration(durationSeconds float64) {
	p.extractionTiming.Observe(durationSeconds)
}

// Gatherer exposes the registry for inspection.
func (p *Prom) Gatherer() prometheus.Gatherer {
	return p.registry
}

// WriteTextfile writes the collected metrics in the text exposition format,
// suitable for the node exporter textfile collector.
func (p *Prom) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, p.Gatherer())
}
