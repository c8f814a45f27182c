package simulated

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/iqcapture/pkg/domain"
)

var errDisposed = errors.New("simulated: measurement handle has been disposed")

type measurement struct {
	inst      *Instrument
	sig       Signal
	initiated bool
	disposed  bool
}

// Initiate makes this signal's acquisition settings the session's active configuration.
func (m *measurement) Initiate(ctx context.Context, selector, resultName string) error {
	if m.disposed {
		return errDisposed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.inst.activate(m.sig); err != nil {
		return err
	}
	m.initiated = true
	m.inst.logger.Debug("Simulated measurement initiated", "signal", m.sig.Config.Name, "personality", m.sig.Config.Personality)
	return nil
}

func (m *measurement) WaitForCompletion(ctx context.Context, selector string, timeout time.Duration) error {
	if m.disposed {
		return errDisposed
	}
	if !m.initiated {
		return fmt.Errorf("measurement %s has not been initiated", m.sig.Config)
	}
	return m.inst.waitBounded(ctx, "measurement", m.sig.Acquisition.MeasurementTime, timeout)
}

// Dispose releases the handle once; later calls are no-ops.
func (m *measurement) Dispose() error {
	if m.disposed {
		return nil
	}
	m.disposed = true
	m.inst.mu.Lock()
	m.inst.disposals++
	m.inst.mu.Unlock()
	return nil
}

type acquisition struct {
	inst *Instrument
}

func (a *acquisition) AcquisitionType(ctx context.Context) (domain.AcquisitionType, error) {
	acq, _, err := a.inst.current()
	if err != nil {
		return "", err
	}
	return acq.Type, nil
}

func (a *acquisition) IQParameters(ctx context.Context) (domain.IQParameters, error) {
	acq, _, err := a.inst.current()
	if err != nil {
		return domain.IQParameters{}, err
	}
	return acq.Params(), nil
}

// FetchIQ copies records of the active acquisition. A negative samples count fetches the
// whole record.
func (a *acquisition) FetchIQ(ctx context.Context, recordStart, records, samples int64, timeout time.Duration) (domain.IQRecords, error) {
	acq, wave, err := a.inst.current()
	if err != nil {
		return nil, err
	}
	if acq.Type != domain.AcquisitionIQ {
		return nil, fmt.Errorf("cannot fetch IQ data from a %s acquisition", acq.Type)
	}
	if samples < 0 {
		samples = acq.Samples
	}
	if recordStart < 0 || records < 0 || recordStart+records > acq.Records || samples > acq.Samples {
		return nil, fmt.Errorf("requested records [%d,%d) x %d samples exceed acquisition %dx%d",
			recordStart, recordStart+records, samples, acq.Records, acq.Samples)
	}

	if err := a.inst.waitBounded(ctx, "fetch", acq.FetchDelay, timeout); err != nil {
		return nil, err
	}

	data := make(domain.IQRecords, records)
	for r := range data {
		data[r] = wave.Generate(acq.IQRate, recordStart+int64(r), samples)
	}
	return data, nil
}
