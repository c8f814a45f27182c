package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/iqcapture/internal/logging"
	"github.com/aretw0/iqcapture/pkg/capture"
	"github.com/aretw0/iqcapture/pkg/domain"
	"github.com/aretw0/iqcapture/pkg/ports"
)

// DefaultMeasurementTimeout bounds the wait for a measurement to complete.
const DefaultMeasurementTimeout = 10 * time.Second

// CompletionMessage is printed once every configuration has been handled.
const CompletionMessage = "All measurements complete."

// Fetcher pulls results after a measurement completes.
type Fetcher interface {
	FetchAndWrite(ctx context.Context, acq ports.Acquisition, personality domain.Personality, signal, outputDir string) (domain.CaptureResult, error)
}

// Dispatcher runs the configured measurements one at a time, in load order.
type Dispatcher struct {
	variants  map[domain.Personality]Variant
	confirmer ports.Confirmer
	fetcher   Fetcher
	timeout   time.Duration
	outputDir string
	out       io.Writer
	logger    *slog.Logger
	hooks     domain.Hooks
}

// New creates a Dispatcher with the default personality table and a 10 second
// measurement bound. A Confirmer must be supplied with WithConfirmer.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		timeout: DefaultMeasurementTimeout,
		out:     os.Stdout,
		logger:  logging.NewNop(),
	}
	WithVariants(DefaultVariants()...)(d)
	for _, opt := range opts {
		opt(d)
	}
	if d.fetcher == nil {
		d.fetcher = capture.NewFetcher(capture.WithOutput(d.out), capture.WithLogger(d.logger))
	}
	return d
}

// Run handles every configuration in order. The first failure aborts the remaining
// entries; handles opened so far have already been disposed.
func (d *Dispatcher) Run(ctx context.Context, inst ports.Instrument, configs []domain.SignalConfiguration) error {
	if d.confirmer == nil {
		return errors.New("dispatch: no confirmer configured")
	}

	for _, cfg := range configs {
		fmt.Fprintln(d.out)
		if err := d.runSignal(ctx, inst, cfg); err != nil {
			return err
		}
	}

	fmt.Fprintln(d.out, CompletionMessage)
	return nil
}

func (d *Dispatcher) runSignal(ctx context.Context, inst ports.Instrument, cfg domain.SignalConfiguration) (err error) {
	logger := d.logger.With("signal", cfg.Name, "personality", cfg.Personality)

	variant, ok := d.variants[cfg.Personality]
	if !ok {
		return d.opError("resolve", cfg, &domain.UnsupportedPersonalityError{Personality: cfg.Personality})
	}

	m, err := variant.Open(ctx, inst, cfg.Name)
	if err != nil {
		return d.opError("open", cfg, err)
	}
	d.emit(ctx, d.hooks.OnSignalStart, d.event(cfg))

	defer func() {
		derr := m.Dispose()
		ev := d.event(cfg)
		ev.Err = derr
		d.emit(ctx, d.hooks.OnSignalDisposed, ev)
		if derr != nil {
			logger.Warn("Failed to dispose measurement", "err", derr)
			err = errors.Join(err, d.opError("dispose", cfg, derr))
		}
	}()

	decision, err := d.confirmer.Confirm(ctx, ports.Prompt{Label: variant.Label, Signal: cfg.Name})
	if err != nil {
		return d.opError("confirm", cfg, err)
	}
	if decision != domain.DecisionAccepted {
		logger.Info("Measurement skipped", "decision", decision.String())
		ev := d.event(cfg)
		ev.Decision = decision
		d.emit(ctx, d.hooks.OnSignalSkipped, ev)
		return nil
	}

	start := time.Now()
	if err := m.Initiate(ctx, "", ""); err != nil {
		return d.opError("initiate", cfg, err)
	}
	if err := m.WaitForCompletion(ctx, "", d.timeout); err != nil {
		return d.opError("wait for", cfg, err)
	}
	done := d.event(cfg)
	done.Decision = decision
	done.Duration = time.Since(start)
	logger.Info("Measurement complete", "elapsed", done.Duration)
	d.emit(ctx, d.hooks.OnMeasurementDone, done)

	res, err := d.fetcher.FetchAndWrite(ctx, inst.Acquisition(), cfg.Personality, cfg.Name, d.outputDir)
	if err != nil {
		return d.opError("fetch", cfg, err)
	}
	captured := d.event(cfg)
	captured.Capture = res
	d.emit(ctx, d.hooks.OnCaptureDone, captured)
	return nil
}

func (d *Dispatcher) event(cfg domain.SignalConfiguration) *domain.SignalEvent {
	return &domain.SignalEvent{
		Timestamp:   time.Now(),
		Signal:      cfg.Name,
		Personality: cfg.Personality,
	}
}

func (d *Dispatcher) emit(ctx context.Context, fn func(context.Context, *domain.SignalEvent), ev *domain.SignalEvent) {
	if fn != nil {
		fn(ctx, ev)
	}
}

func (d *Dispatcher) opError(op string, cfg domain.SignalConfiguration, err error) error {
	return &domain.OpError{Op: op, Signal: cfg.Name, Personality: cfg.Personality, Err: err}
}
