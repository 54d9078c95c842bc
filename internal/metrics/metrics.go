// Package metrics provides Prometheus metrics for model executions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "co2js"
)

// Recorder owns a registry of execution metrics. A nil Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	// ExecutionsTotal counts Execute calls per plugin and outcome
	ExecutionsTotal *prometheus.CounterVec

	// ExecuteDuration observes Execute latency per plugin
	ExecuteDuration *prometheus.HistogramVec

	// CalculationsTotal counts records calculated per strategy
	CalculationsTotal *prometheus.CounterVec

	// ValidationFailuresTotal counts rejected static params and inputs per plugin
	ValidationFailuresTotal *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its own registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		ExecutionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "executions_total",
			Help:      "Total number of model executions",
		}, []string{"plugin", "status"}),
		ExecuteDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "execute_duration_seconds",
			Help:      "Duration of model executions",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"plugin"}),
		CalculationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Total number of records calculated",
		}, []string{"strategy"}),
		ValidationFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Total number of rejected parameters",
		}, []string{"plugin"}),
	}
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveExecution records one Execute call
func (r *Recorder) ObserveExecution(plugin string, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	r.ExecutionsTotal.WithLabelValues(plugin, status).Inc()
	r.ExecuteDuration.WithLabelValues(plugin).Observe(elapsed.Seconds())
}

// RecordCalculation records one calculated record
func (r *Recorder) RecordCalculation(strategy string) {
	if r == nil {
		return
	}
	r.CalculationsTotal.WithLabelValues(strategy).Inc()
}

// RecordValidationFailure records one rejected parameter set
func (r *Recorder) RecordValidationFailure(plugin string) {
	if r == nil {
		return
	}
	r.ValidationFailuresTotal.WithLabelValues(plugin).Inc()
}

// WriteTextfile writes the current metrics in the node exporter textfile format
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
