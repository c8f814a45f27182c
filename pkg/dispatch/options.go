package dispatch

import (
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/iqcapture/pkg/domain"
	"github.com/aretw0/iqcapture/pkg/ports"
)

// Option defines a functional option for configuring the Dispatcher.
type Option func(*Dispatcher)

// WithConfirmer configures how the operator is asked before each measurement.
func WithConfirmer(c ports.Confirmer) Option {
	return func(d *Dispatcher) {
		d.confirmer = c
	}
}

// WithFetcher configures the result fetcher.
func WithFetcher(f Fetcher) Option {
	return func(d *Dispatcher) {
		d.fetcher = f
	}
}

// WithVariants replaces the personality table.
func WithVariants(variants ...Variant) Option {
	return func(d *Dispatcher) {
		d.variants = make(map[domain.Personality]Variant, len(variants))
		for _, v := range variants {
			d.variants[v.Personality] = v
		}
	}
}

// WithMeasurementTimeout bounds each wait for measurement completion.
func WithMeasurementTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.timeout = timeout
	}
}

// WithOutputDir sets the directory captures are written to. Empty means the working directory.
func WithOutputDir(dir string) Option {
	return func(d *Dispatcher) {
		d.outputDir = dir
	}
}

// WithOutput sets where progress messages are printed.
func WithOutput(w io.Writer) Option {
	return func(d *Dispatcher) {
		d.out = w
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks domain.Hooks) Option {
	return func(d *Dispatcher) {
		d.hooks = hooks
	}
}
