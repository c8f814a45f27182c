package testutils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/iqcapture/pkg/domain"
	"github.com/aretw0/iqcapture/pkg/ports"
	"github.com/stretchr/testify/require"
)

// WriteFile writes content under a fresh temp dir and returns its absolute path.
// It fails the test immediately on error.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	dir := t.TempDir()
	absDir, err := filepath.Abs(dir)
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	path := filepath.Join(absDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// FakeInstrument is an in-memory ports.Instrument that records every call.
type FakeInstrument struct {
	Configs   []domain.SignalConfiguration
	LoadErr   error
	OpenErr   error
	CloseErr  error
	Acq       *FakeAcquisition
	Opened    []*FakeMeasurement
	LoadPaths []string
	Closes    int

	// NewMeasurement, when set, builds the handle returned by OpenSignal.
	NewMeasurement func(cfg domain.SignalConfiguration) *FakeMeasurement
}

// NewFakeInstrument returns an instrument holding configs and an IQ acquisition.
func NewFakeInstrument(configs ...domain.SignalConfiguration) *FakeInstrument {
	return &FakeInstrument{
		Configs: configs,
		Acq: &FakeAcquisition{
			Type:   domain.AcquisitionIQ,
			Params: domain.IQParameters{Rate: 1e6, Records: 1, Samples: 4},
		},
	}
}

// Opener returns a ports.Opener that always yields f.
func (f *FakeInstrument) Opener() ports.Opener {
	return func(ctx context.Context, instrumentID string) (ports.Instrument, error) {
		return f, nil
	}
}

func (f *FakeInstrument) LoadAllConfigurations(ctx context.Context, path string, reset bool) error {
	f.LoadPaths = append(f.LoadPaths, path)
	return f.LoadErr
}

func (f *FakeInstrument) SignalConfigurations(ctx context.Context) ([]domain.SignalConfiguration, error) {
	return f.Configs, nil
}

func (f *FakeInstrument) OpenSignal(ctx context.Context, personality domain.Personality, name string) (ports.Measurement, error) {
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	cfg := domain.SignalConfiguration{Name: name, Personality: personality}
	m := &FakeMeasurement{Config: cfg}
	if f.NewMeasurement != nil {
		m = f.NewMeasurement(cfg)
	}
	f.Opened = append(f.Opened, m)
	return m, nil
}

func (f *FakeInstrument) Acquisition() ports.Acquisition {
	return f.Acq
}

func (f *FakeInstrument) Close() error {
	f.Closes++
	return f.CloseErr
}

// Disposals sums the Dispose calls across every opened handle.
func (f *FakeInstrument) Disposals() int {
	n := 0
	for _, m := range f.Opened {
		n += m.Disposals
	}
	return n
}

// FakeMeasurement counts lifecycle calls and can inject failures.
type FakeMeasurement struct {
	Config      domain.SignalConfiguration
	InitiateErr error
	WaitErr     error
	DisposeErr  error

	Initiates   int
	Waits       int
	Disposals   int
	LastTimeout time.Duration
}

func (m *FakeMeasurement) Initiate(ctx context.Context, selector, resultName string) error {
	m.Initiates++
	return m.InitiateErr
}

func (m *FakeMeasurement) WaitForCompletion(ctx context.Context, selector string, timeout time.Duration) error {
	m.Waits++
	m.LastTimeout = timeout
	return m.WaitErr
}

func (m *FakeMeasurement) Dispose() error {
	m.Disposals++
	return m.DisposeErr
}

// FakeAcquisition serves a fixed acquisition type and deterministic samples.
type FakeAcquisition struct {
	Type     domain.AcquisitionType
	Params   domain.IQParameters
	FetchErr error
	Fetches  int
}

func (a *FakeAcquisition) AcquisitionType(ctx context.Context) (domain.AcquisitionType, error) {
	return a.Type, nil
}

func (a *FakeAcquisition) IQParameters(ctx context.Context) (domain.IQParameters, error) {
	return a.Params, nil
}

// FetchIQ returns sample s of record r as complex(r*1000+s, r*1000+s+0.5).
func (a *FakeAcquisition) FetchIQ(ctx context.Context, recordStart, records, samples int64, timeout time.Duration) (domain.IQRecords, error) {
	a.Fetches++
	if a.FetchErr != nil {
		return nil, a.FetchErr
	}
	if a.Type != domain.AcquisitionIQ {
		return nil, errors.New("fake: not an IQ acquisition")
	}
	if records < 0 || samples < 0 {
		return nil, fmt.Errorf("fake: invalid shape %dx%d", records, samples)
	}
	data := make(domain.IQRecords, records)
	for r := range data {
		data[r] = make([]complex128, samples)
		for s := range data[r] {
			v := float64((recordStart+int64(r))*1000 + int64(s))
			data[r][s] = complex(v, v+0.5)
		}
	}
	return data, nil
}

// ScriptedConfirmer answers prompts from a fixed list of keys, then declines.
type ScriptedConfirmer struct {
	Keys    []rune
	Err     error
	Prompts []ports.Prompt
}

func (c *ScriptedConfirmer) Confirm(ctx context.Context, p ports.Prompt) (domain.Decision, error) {
	c.Prompts = append(c.Prompts, p)
	if c.Err != nil {
		return domain.DecisionUnrecognized, c.Err
	}
	if len(c.Keys) == 0 {
		return domain.DecisionDeclined, nil
	}
	key := c.Keys[0]
	c.Keys = c.Keys[1:]
	return domain.DecisionFor(key), nil
}
