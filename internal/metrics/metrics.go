package metrics

import (
	"context"
	"fmt"

	"github.com/aretw0/iqcapture/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values of iqcapture_signals_total.
const (
	OutcomeCaptured     = "captured"
	OutcomeSpectral     = "spectral"
	OutcomeDeclined     = "declined"
	OutcomeUnrecognized = "unrecognized"
)

// Recorder collects per-run metrics from dispatcher hooks.
type Recorder struct {
	registry *prometheus.Registry

	signals     *prometheus.CounterVec
	measurement *prometheus.HistogramVec
	lines       prometheus.Counter
	disposed    *prometheus.CounterVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		signals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iqcapture_signals_total",
				Help: "Signal configurations handled, by personality and outcome",
			},
			[]string{"personality", "outcome"},
		),
		measurement: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "iqcapture_measurement_duration_seconds",
				Help:    "Time from initiate to measurement completion",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
			},
			[]string{"personality"},
		),
		lines: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "iqcapture_iq_lines_written_total",
			Help: "Lines written to IQ capture files",
		}),
		disposed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iqcapture_handles_disposed_total",
				Help: "Measurement handles released",
			},
			[]string{"result"},
		),
	}
	r.registry.MustRegister(r.signals, r.measurement, r.lines, r.disposed)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Hooks returns dispatcher hooks feeding this recorder.
func (r *Recorder) Hooks() domain.Hooks {
	return domain.Hooks{
		OnSignalSkipped: func(_ context.Context, e *domain.SignalEvent) {
			outcome := OutcomeUnrecognized
			if e.Decision == domain.DecisionDeclined {
				outcome = OutcomeDeclined
			}
			r.signals.WithLabelValues(e.Personality.String(), outcome).Inc()
		},
		OnMeasurementDone: func(_ context.Context, e *domain.SignalEvent) {
			r.measurement.WithLabelValues(e.Personality.String()).Observe(e.Duration.Seconds())
		},
		OnCaptureDone: func(_ context.Context, e *domain.SignalEvent) {
			if e.Capture.Skipped {
				r.signals.WithLabelValues(e.Personality.String(), OutcomeSpectral).Inc()
				return
			}
			r.signals.WithLabelValues(e.Personality.String(), OutcomeCaptured).Inc()
			r.lines.Add(float64(e.Capture.Lines))
		},
		OnSignalDisposed: func(_ context.Context, e *domain.SignalEvent) {
			result := "ok"
			if e.Err != nil {
				result = "error"
			}
			r.disposed.WithLabelValues(result).Inc()
		},
	}
}

// WriteTextfile writes the metrics in Prometheus text format, suitable for the
// node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %q: %w", path, err)
	}
	return nil
}
