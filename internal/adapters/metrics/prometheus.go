// Package metrics contains a Prometheus implementation of the metrics recorder.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements secondary.MetricsRecorder on a private registry.
type PrometheusRecorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	outcomes   *prometheus.CounterVec
	skipped    prometheus.Counter
}

// NewPrometheusRecorder creates a recorder with its own registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eco",
			Name:      "operations_total",
			Help:      "Effort engine operations by result.",
		}, []string{"operation", "result"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eco",
			Name:      "delivery_outcomes_total",
			Help:      "Delivery outcomes by kind.",
		}, []string{"kind"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eco",
			Name:      "skipped_fragments_total",
			Help:      "Material block fragments the parser could not read.",
		}),
	}
	r.registry.MustRegister(r.operations, r.outcomes, r.skipped)
	return r
}

// RecordOperation counts one engine operation.
func (r *PrometheusRecorder) RecordOperation(operation, result string) {
	r.operations.WithLabelValues(operation, result).Inc()
}

// RecordOutcome counts one delivery outcome.
func (r *PrometheusRecorder) RecordOutcome(kind string) {
	r.outcomes.WithLabelValues(kind).Inc()
}

// RecordSkippedFragments counts dropped material block text.
func (r *PrometheusRecorder) RecordSkippedFragments(n int) {
	r.skipped.Add(float64(n))
}

// Registry exposes the underlying registry.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the current metrics in the node_exporter textfile
// collector format.
func (r *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
