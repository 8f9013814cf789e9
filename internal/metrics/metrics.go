// Package metrics counts menu operations for the node_exporter textfile
// collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the operation metrics in a private registry.
type Recorder struct {
	registry *prometheus.Registry
	textfile string

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// New creates a Recorder. When textfile is non-empty every Observe
// rewrites it.
func New(textfile string) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		textfile: textfile,
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "menu_operations_total",
				Help: "Total number of menu operations run",
			},
			[]string{"operation", "result"}, // success, failure or cancelled
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "menu_operation_duration_seconds",
				Help:    "Duration of menu operations in seconds",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
			[]string{"operation"},
		),
	}
}

// Observe records one finished operation and flushes the textfile.
func (r *Recorder) Observe(operation, result string, elapsed time.Duration) error {
	r.operationsTotal.WithLabelValues(operation, result).Inc()
	r.operationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	return r.Flush()
}

// Flush writes all metrics to the textfile. It is a no-op without one.
func (r *Recorder) Flush() error {
	if r.textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(r.textfile, r.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", r.textfile, err)
	}
	return nil
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
