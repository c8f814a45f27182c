package dispatch_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/iqcapture/internal/testutils"
	"github.com/aretw0/iqcapture/pkg/capture"
	"github.com/aretw0/iqcapture/pkg/dispatch"
	"github.com/aretw0/iqcapture/pkg/domain"
	"github.com/aretw0/iqcapture/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cfg(name string, p domain.Personality) domain.SignalConfiguration {
	return domain.SignalConfiguration{Name: name, Personality: p}
}

func newDispatcher(t *testing.T, confirmer ports.Confirmer, out *bytes.Buffer, opts ...dispatch.Option) *dispatch.Dispatcher {
	t.Helper()
	base := []dispatch.Option{
		dispatch.WithConfirmer(confirmer),
		dispatch.WithOutput(out),
		dispatch.WithOutputDir(t.TempDir()),
		dispatch.WithFetcher(capture.NewFetcher(capture.WithOutput(out))),
	}
	return dispatch.New(append(base, opts...)...)
}

func TestRun_DisposesEveryEntryOnce(t *testing.T) {
	configs := []domain.SignalConfiguration{
		cfg("a", domain.PersonalityWlan),
		cfg("b", domain.PersonalityBT),
		cfg("c", domain.PersonalityNR),
		cfg("d", domain.PersonalityLte),
		cfg("e", domain.PersonalitySpecAn),
	}
	inst := testutils.NewFakeInstrument(configs...)
	confirmer := &testutils.ScriptedConfirmer{Keys: []rune{'y', 'n', 'x', 'y', 'Y'}}
	var out bytes.Buffer

	err := newDispatcher(t, confirmer, &out).Run(context.Background(), inst, configs)
	require.NoError(t, err)

	require.Len(t, inst.Opened, len(configs))
	assert.Equal(t, len(configs), inst.Disposals())
	for _, m := range inst.Opened {
		assert.Equal(t, 1, m.Disposals, m.Config.String())
	}

	initiated := map[string]int{}
	for _, m := range inst.Opened {
		initiated[m.Config.Name] = m.Initiates
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 0, "c": 0, "d": 1, "e": 0}, initiated)
	assert.Equal(t, 2, inst.Acq.Fetches)
	assert.Contains(t, out.String(), dispatch.CompletionMessage)
}

func TestRun_PromptsInLoadOrder(t *testing.T) {
	configs := []domain.SignalConfiguration{
		cfg("first", domain.PersonalityBT),
		cfg("second", domain.PersonalityWlan),
		cfg("third", domain.PersonalityLte),
	}
	inst := testutils.NewFakeInstrument(configs...)
	confirmer := &testutils.ScriptedConfirmer{}

	err := newDispatcher(t, confirmer, &bytes.Buffer{}).Run(context.Background(), inst, configs)
	require.NoError(t, err)

	require.Len(t, confirmer.Prompts, 3)
	assert.Equal(t, ports.Prompt{Label: "Bluetooth", Signal: "first"}, confirmer.Prompts[0])
	assert.Equal(t, ports.Prompt{Label: "WLAN", Signal: "second"}, confirmer.Prompts[1])
	assert.Equal(t, ports.Prompt{Label: "LTE", Signal: "third"}, confirmer.Prompts[2])
	assert.Equal(t,
		`Enter 'y' to initiate acquisition for RFmx WLAN with signal "second"; any other key to skip.`,
		confirmer.Prompts[1].Text())
}

func TestRun_UnsupportedPersonalityAborts(t *testing.T) {
	configs := []domain.SignalConfiguration{
		cfg("ok", domain.PersonalityWlan),
		cfg("gsm", domain.PersonalityGsm),
		cfg("never", domain.PersonalityNR),
	}
	inst := testutils.NewFakeInstrument(configs...)
	var out bytes.Buffer

	err := newDispatcher(t, &testutils.ScriptedConfirmer{Keys: []rune{'y', 'y', 'y'}}, &out).Run(context.Background(), inst, configs)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedPersonality)
	assert.Contains(t, err.Error(), `"Gsm" personality`)

	var op *domain.OpError
	require.ErrorAs(t, err, &op)
	assert.Equal(t, "gsm", op.Signal)

	// Only the entry before the failure was opened, and it was disposed.
	require.Len(t, inst.Opened, 1)
	assert.Equal(t, 1, inst.Disposals())
	assert.NotContains(t, out.String(), dispatch.CompletionMessage)
}

func TestRun_SkipDoesNotInitiate(t *testing.T) {
	configs := []domain.SignalConfiguration{cfg("w", domain.PersonalityWlan)}
	inst := testutils.NewFakeInstrument(configs...)

	var skipped []domain.Decision
	hooks := domain.Hooks{OnSignalSkipped: func(_ context.Context, e *domain.SignalEvent) {
		skipped = append(skipped, e.Decision)
	}}

	for _, key := range []rune{'n', 'q'} {
		confirmer := &testutils.ScriptedConfirmer{Keys: []rune{key}}
		err := newDispatcher(t, confirmer, &bytes.Buffer{}, dispatch.WithHooks(hooks)).Run(context.Background(), inst, configs)
		require.NoError(t, err)
	}

	require.Len(t, inst.Opened, 2)
	for _, m := range inst.Opened {
		assert.Zero(t, m.Initiates)
		assert.Zero(t, m.Waits)
		assert.Equal(t, 1, m.Disposals)
	}
	assert.Zero(t, inst.Acq.Fetches)
	assert.Equal(t, []domain.Decision{domain.DecisionDeclined, domain.DecisionUnrecognized}, skipped)
}

func TestRun_SpectralContinues(t *testing.T) {
	configs := []domain.SignalConfiguration{
		cfg("sa", domain.PersonalitySpecAn),
		cfg("sa2", domain.PersonalitySpecAn),
	}
	inst := testutils.NewFakeInstrument(configs...)
	inst.Acq.Type = domain.AcquisitionSpectral
	var out bytes.Buffer

	var captures []domain.CaptureResult
	hooks := domain.Hooks{OnCaptureDone: func(_ context.Context, e *domain.SignalEvent) {
		captures = append(captures, e.Capture)
	}}

	err := newDispatcher(t, &testutils.ScriptedConfirmer{Keys: []rune{'y', 'y'}}, &out, dispatch.WithHooks(hooks)).
		Run(context.Background(), inst, configs)
	require.NoError(t, err)

	require.Len(t, captures, 2)
	assert.True(t, captures[0].Skipped)
	assert.True(t, captures[1].Skipped)
	assert.Equal(t, 2, inst.Disposals())
	assert.Contains(t, out.String(), capture.SpectralSkipNotice)
	assert.Contains(t, out.String(), dispatch.CompletionMessage)
}

func TestRun_FailureStillDisposes(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*testutils.FakeMeasurement)
		wantErr error
		wantOp  string
	}{
		{
			name:    "initiate",
			mutate:  func(m *testutils.FakeMeasurement) { m.InitiateErr = errors.New("hardware fault") },
			wantErr: nil,
			wantOp:  "initiate",
		},
		{
			name: "wait timeout",
			mutate: func(m *testutils.FakeMeasurement) {
				m.WaitErr = fmt.Errorf("%w: after 10s", domain.ErrAcquisitionTimeout)
			},
			wantErr: domain.ErrAcquisitionTimeout,
			wantOp:  "wait for",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configs := []domain.SignalConfiguration{cfg("x", domain.PersonalityLte), cfg("y", domain.PersonalityLte)}
			inst := testutils.NewFakeInstrument(configs...)
			inst.NewMeasurement = func(c domain.SignalConfiguration) *testutils.FakeMeasurement {
				m := &testutils.FakeMeasurement{Config: c}
				tt.mutate(m)
				return m
			}

			err := newDispatcher(t, &testutils.ScriptedConfirmer{Keys: []rune{'y', 'y'}}, &bytes.Buffer{}).
				Run(context.Background(), inst, configs)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			var op *domain.OpError
			require.ErrorAs(t, err, &op)
			assert.Equal(t, tt.wantOp, op.Op)

			require.Len(t, inst.Opened, 1, "failure aborts remaining entries")
			assert.Equal(t, 1, inst.Opened[0].Disposals)
			assert.Zero(t, inst.Acq.Fetches)
		})
	}
}

func TestRun_DisposeErrorIsReported(t *testing.T) {
	configs := []domain.SignalConfiguration{cfg("x", domain.PersonalityBT)}
	inst := testutils.NewFakeInstrument(configs...)
	disposeErr := errors.New("handle leaked")
	inst.NewMeasurement = func(c domain.SignalConfiguration) *testutils.FakeMeasurement {
		return &testutils.FakeMeasurement{Config: c, DisposeErr: disposeErr}
	}

	err := newDispatcher(t, &testutils.ScriptedConfirmer{Keys: []rune{'n'}}, &bytes.Buffer{}).
		Run(context.Background(), inst, configs)
	require.Error(t, err)
	assert.ErrorIs(t, err, disposeErr)
	assert.Equal(t, 1, inst.Disposals())
}

func TestRun_ConfirmErrorAborts(t *testing.T) {
	configs := []domain.SignalConfiguration{cfg("x", domain.PersonalityBT), cfg("y", domain.PersonalityBT)}
	inst := testutils.NewFakeInstrument(configs...)
	stop := errors.New("interrupted")

	err := newDispatcher(t, &testutils.ScriptedConfirmer{Err: stop}, &bytes.Buffer{}).
		Run(context.Background(), inst, configs)
	assert.ErrorIs(t, err, stop)
	assert.Len(t, inst.Opened, 1)
	assert.Equal(t, 1, inst.Disposals())
}

func TestRun_PassesMeasurementTimeout(t *testing.T) {
	configs := []domain.SignalConfiguration{cfg("x", domain.PersonalityNR)}
	inst := testutils.NewFakeInstrument(configs...)

	err := newDispatcher(t, &testutils.ScriptedConfirmer{Keys: []rune{'y'}}, &bytes.Buffer{},
		dispatch.WithMeasurementTimeout(3*time.Second)).Run(context.Background(), inst, configs)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, inst.Opened[0].LastTimeout)

	inst = testutils.NewFakeInstrument(configs...)
	err = newDispatcher(t, &testutils.ScriptedConfirmer{Keys: []rune{'y'}}, &bytes.Buffer{}).Run(context.Background(), inst, configs)
	require.NoError(t, err)
	assert.Equal(t, dispatch.DefaultMeasurementTimeout, inst.Opened[0].LastTimeout)
}

func TestRun_HookSequence(t *testing.T) {
	configs := []domain.SignalConfiguration{cfg("w", domain.PersonalityWlan)}
	inst := testutils.NewFakeInstrument(configs...)

	var seq []string
	record := func(name string) func(context.Context, *domain.SignalEvent) {
		return func(_ context.Context, e *domain.SignalEvent) {
			assert.Equal(t, "w", e.Signal)
			seq = append(seq, name)
		}
	}
	hooks := domain.Hooks{
		OnSignalStart:     record("start"),
		OnSignalSkipped:   record("skipped"),
		OnMeasurementDone: record("done"),
		OnCaptureDone:     record("capture"),
		OnSignalDisposed:  record("disposed"),
	}

	err := newDispatcher(t, &testutils.ScriptedConfirmer{Keys: []rune{'y'}}, &bytes.Buffer{}, dispatch.WithHooks(hooks)).
		Run(context.Background(), inst, configs)
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "done", "capture", "disposed"}, seq)
}

func TestRun_RequiresConfirmer(t *testing.T) {
	err := dispatch.New().Run(context.Background(), testutils.NewFakeInstrument(), nil)
	assert.Error(t, err)
}

func TestWithVariants_RestrictsTable(t *testing.T) {
	configs := []domain.SignalConfiguration{cfg("w", domain.PersonalityWlan)}
	inst := testutils.NewFakeInstrument(configs...)

	err := newDispatcher(t, &testutils.ScriptedConfirmer{}, &bytes.Buffer{},
		dispatch.WithVariants(dispatch.NewVariant(domain.PersonalityBT, "Bluetooth"))).
		Run(context.Background(), inst, configs)
	assert.ErrorIs(t, err, domain.ErrUnsupportedPersonality)
}
