package simulated

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/iqcapture/internal/logging"
	"github.com/aretw0/iqcapture/pkg/domain"
	"github.com/aretw0/iqcapture/pkg/ports"
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("simulated: session is closed")

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Instrument is an in-process stand-in for a vendor driver session.
// It implements ports.Instrument.
type Instrument struct {
	id     string
	logger *slog.Logger
	sleep  Sleeper

	mu        sync.Mutex
	signals   []Signal
	active    *AcquisitionSettings
	waveform  Waveform
	opened    int
	disposals int
	closed    bool
}

// Option configures a simulated Instrument.
type Option func(*Instrument)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Instrument) {
		i.logger = logger
	}
}

// WithSleeper replaces the clock used for measurement and fetch durations.
func WithSleeper(s Sleeper) Option {
	return func(i *Instrument) {
		i.sleep = s
	}
}

// NewOpener returns a ports.Opener for simulated instruments. When allow is non-empty only
// the listed identifiers (case-insensitive) can be opened.
func NewOpener(allow []string, opts ...Option) ports.Opener {
	return func(ctx context.Context, instrumentID string) (ports.Instrument, error) {
		return Open(ctx, instrumentID, allow, opts...)
	}
}

// Open starts a simulated session. Empty identifiers and identifiers outside a non-empty
// allow list fail with domain.ErrConnection.
func Open(ctx context.Context, instrumentID string, allow []string, opts ...Option) (*Instrument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := strings.TrimSpace(instrumentID)
	if id == "" {
		return nil, fmt.Errorf("%w: empty instrument identifier", domain.ErrConnection)
	}
	if len(allow) > 0 && !slices.ContainsFunc(allow, func(a string) bool { return strings.EqualFold(a, id) }) {
		return nil, fmt.Errorf("%w: instrument %q not found", domain.ErrConnection, id)
	}

	inst := &Instrument{
		id:     id,
		logger: logging.NewNop(),
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(inst)
	}
	inst.logger.Debug("Simulated session opened", "instrument", id)
	return inst, nil
}

// ID returns the instrument identifier.
func (i *Instrument) ID() string {
	return i.id
}

// LoadAllConfigurations decodes the container at path. Entries whose personality and name
// already exist on the session replace the old ones when reset is true and fail otherwise.
func (i *Instrument) LoadAllConfigurations(ctx context.Context, path string, reset bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	loaded, err := LoadContainer(path)
	if err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return ErrClosed
	}

	merged := slices.Clone(i.signals)
	for _, sig := range loaded {
		idx := slices.IndexFunc(merged, func(s Signal) bool { return s.Config == sig.Config })
		switch {
		case idx < 0:
			merged = append(merged, sig)
		case reset:
			merged[idx] = sig
		default:
			return fmt.Errorf("signal configuration %s already exists", sig.Config)
		}
	}
	i.signals = merged
	i.logger.Debug("Simulated configurations loaded", "path", path, "signals", len(loaded))
	return nil
}

// SignalConfigurations lists the loaded configurations in load order.
func (i *Instrument) SignalConfigurations(ctx context.Context) ([]domain.SignalConfiguration, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil, ErrClosed
	}

	configs := make([]domain.SignalConfiguration, len(i.signals))
	for n, s := range i.signals {
		configs[n] = s.Config
	}
	return configs, nil
}

// OpenSignal returns the handle of a loaded configuration.
func (i *Instrument) OpenSignal(ctx context.Context, personality domain.Personality, name string) (ports.Measurement, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil, ErrClosed
	}

	want := domain.SignalConfiguration{Name: name, Personality: personality}
	idx := slices.IndexFunc(i.signals, func(s Signal) bool { return s.Config == want })
	if idx < 0 {
		return nil, fmt.Errorf("signal configuration %s not found", want)
	}
	i.opened++
	return &measurement{inst: i, sig: i.signals[idx]}, nil
}

// Acquisition exposes the session's receiver.
func (i *Instrument) Acquisition() ports.Acquisition {
	return &acquisition{inst: i}
}

// Close releases the session. Closing twice is a no-op.
func (i *Instrument) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.closed {
		i.closed = true
		i.logger.Debug("Simulated session closed", "instrument", i.id, "opened", i.opened, "disposed", i.disposals)
	}
	return nil
}

// Closed reports whether Close has been called.
func (i *Instrument) Closed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.closed
}

// Handles returns how many measurement handles were opened and how many were disposed.
func (i *Instrument) Handles() (opened, disposed int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.opened, i.disposals
}

func (i *Instrument) activate(sig Signal) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return ErrClosed
	}
	acq := sig.Acquisition
	i.active = &acq
	i.waveform = sig.Waveform
	return nil
}

func (i *Instrument) current() (AcquisitionSettings, Waveform, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return AcquisitionSettings{}, Waveform{}, ErrClosed
	}
	if i.active == nil {
		return AcquisitionSettings{}, Waveform{}, errors.New("no measurement has been initiated on this session")
	}
	return *i.active, i.waveform, nil
}

// waitBounded sleeps for d, failing with ErrAcquisitionTimeout once timeout elapses first.
// A negative timeout never expires.
func (i *Instrument) waitBounded(ctx context.Context, what string, d, timeout time.Duration) error {
	if timeout >= 0 && d > timeout {
		if err := i.sleep(ctx, timeout); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s did not finish within %s", domain.ErrAcquisitionTimeout, what, timeout)
	}
	return i.sleep(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
