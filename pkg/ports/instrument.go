package ports

import (
	"context"
	"time"

	"github.com/aretw0/iqcapture/pkg/domain"
)

// Opener establishes a driver session with the named instrument.
type Opener func(ctx context.Context, instrumentID string) (Instrument, error)

// Instrument is an open driver session bound to one piece of hardware.
// A session is used by one logical operation at a time; implementations need not lock.
type Instrument interface {
	// LoadAllConfigurations restores every signal configuration stored in the container at path.
	// When reset is true, configurations already on the session are replaced.
	LoadAllConfigurations(ctx context.Context, path string, reset bool) error

	// SignalConfigurations lists the loaded configurations in container order.
	SignalConfigurations(ctx context.Context) ([]domain.SignalConfiguration, error)

	// OpenSignal returns the measurement handle of a loaded configuration.
	// The caller owns the handle and must Dispose it.
	OpenSignal(ctx context.Context, personality domain.Personality, name string) (Measurement, error)

	// Acquisition exposes the session's acquisition engine.
	Acquisition() Acquisition

	// Close releases the session.
	Close() error
}

// Measurement is the capability set shared by every personality's signal handle.
type Measurement interface {
	// Initiate starts the measurement. Empty selector and result name use the driver defaults.
	Initiate(ctx context.Context, selector, resultName string) error

	// WaitForCompletion blocks until the measurement completes or timeout elapses.
	// A negative timeout waits without bound.
	WaitForCompletion(ctx context.Context, selector string, timeout time.Duration) error

	// Dispose releases the handle.
	Dispose() error
}

// Acquisition reads the configuration and sample buffer of the session's receiver.
type Acquisition interface {
	AcquisitionType(ctx context.Context) (domain.AcquisitionType, error)
	IQParameters(ctx context.Context) (domain.IQParameters, error)

	// FetchIQ copies records [recordStart, recordStart+records) of samples each.
	FetchIQ(ctx context.Context, recordStart, records, samples int64, timeout time.Duration) (domain.IQRecords, error)
}
