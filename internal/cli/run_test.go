package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/iqcapture/internal/config"
	"github.com/aretw0/iqcapture/internal/logging"
	"github.com/aretw0/iqcapture/internal/testutils"
	"github.com/aretw0/iqcapture/pkg/adapters/console"
	"github.com/aretw0/iqcapture/pkg/adapters/simulated"
	"github.com/aretw0/iqcapture/pkg/domain"
	"github.com/aretw0/iqcapture/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	cfg       *config.Config
	out       bytes.Buffer
	confirmer *testutils.ScriptedConfirmer
	inst      *simulated.Instrument
}

func newHarness(t *testing.T, container string, keys ...rune) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.Instrument = "SIM1"
	cfg.Path = testutils.WriteFile(t, "signals.yaml", container)
	cfg.Output = filepath.Join(t.TempDir(), "captures")
	return &harness{cfg: cfg, confirmer: &testutils.ScriptedConfirmer{Keys: keys}}
}

func (h *harness) run() error {
	opener := func(ctx context.Context, id string) (ports.Instrument, error) {
		inst, err := simulated.Open(ctx, id, nil)
		if err != nil {
			return nil, err
		}
		h.inst = inst
		return inst, nil
	}
	return Execute(context.Background(), RunOptions{
		Config:    h.cfg,
		Confirmer: h.confirmer,
		Opener:    opener,
		Out:       &h.out,
		Logger:    logging.NewNop(),
	})
}

func TestExecute_CapturesIQ(t *testing.T) {
	h := newHarness(t, `
signals:
  - name: wifi
    personality: Wlan
    acquisition:
      iq_rate: 1e6
      records: 2
      samples: 3
`, 'y')

	require.NoError(t, h.run())

	path := filepath.Join(h.cfg.Output, "Wlan_wifi_IQ_1000000.txt")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	assert.Len(t, lines, 2*2*3)

	out := h.out.String()
	assert.Contains(t, out, `Initializing RFmx session with instrument "SIM1"...`)
	assert.Contains(t, out, `Loading configuration from "signals.yaml"...`)
	assert.Contains(t, out, "Configuration loaded successfully.")
	assert.Contains(t, out, `IQ data successfully saved to "`+path+`".`)
	assert.Contains(t, out, "All measurements complete.")

	require.Len(t, h.confirmer.Prompts, 1)
	assert.Equal(t, "WLAN", h.confirmer.Prompts[0].Label)

	assert.True(t, h.inst.Closed())
	opened, disposed := h.inst.Handles()
	assert.Equal(t, 1, opened)
	assert.Equal(t, 1, disposed)
}

func TestExecute_SpectralSkipped(t *testing.T) {
	h := newHarness(t, `
signals:
  - name: sweep
    personality: SpecAn
    acquisition:
      type: spectral
`, 'y')

	require.NoError(t, h.run())

	entries, err := os.ReadDir(h.cfg.Output)
	if err == nil {
		assert.Empty(t, entries)
	}
	out := h.out.String()
	assert.Contains(t, out, "This measurement uses a spectral acquisition mode, which is not possible to fetch. This measurement will be skipped.")
	assert.Contains(t, out, "All measurements complete.")
	assert.True(t, h.inst.Closed())
}

func TestExecute_UnsupportedPersonality(t *testing.T) {
	h := newHarness(t, `
signals:
  - name: wifi
    personality: Wlan
  - name: mesh
    personality: Zigbee
  - name: fr1
    personality: NR
`, 'n', 'y', 'y')

	err := h.run()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedPersonality)

	out := h.out.String()
	assert.Contains(t, out, `Error occurred: the "Zigbee" personality has not been implemented`)
	assert.Contains(t, out, `Location: resolve signal "mesh" (Zigbee)`)
	assert.NotContains(t, out, "All measurements complete.")

	assert.True(t, h.inst.Closed(), "session is released on failure")
	opened, disposed := h.inst.Handles()
	assert.Equal(t, 1, opened, "entries after the failure are never opened")
	assert.Equal(t, 1, disposed)
}

func TestExecute_NonYesSkips(t *testing.T) {
	h := newHarness(t, `
signals:
  - name: a
    personality: BT
  - name: b
    personality: Lte
  - name: c
    personality: NR
`, 'q', 'n', 'Y')

	require.NoError(t, h.run())

	_, err := os.Stat(h.cfg.Output)
	assert.True(t, os.IsNotExist(err), "nothing was captured")
	assert.Len(t, h.confirmer.Prompts, 3)

	opened, disposed := h.inst.Handles()
	assert.Equal(t, 3, opened)
	assert.Equal(t, 3, disposed)
	assert.Contains(t, h.out.String(), "All measurements complete.")
}

func TestExecute_ConnectionAndLoadFailures(t *testing.T) {
	h := newHarness(t, "signals:\n  - name: a\n    personality: BT\n")
	h.cfg.AllowInstr = []string{"PXI1"}

	err := Execute(context.Background(), RunOptions{
		Config:    h.cfg,
		Confirmer: h.confirmer,
		Out:       &h.out,
		Logger:    logging.NewNop(),
	})
	assert.ErrorIs(t, err, domain.ErrConnection)
	assert.Contains(t, h.out.String(), "Location: open session")

	h = newHarness(t, "signals: [")
	err = h.run()
	assert.ErrorIs(t, err, domain.ErrConfigLoad)
	assert.Contains(t, h.out.String(), `Location: load configuration "signals.yaml"`)
	assert.True(t, h.inst.Closed())
}

func TestExecute_MeasurementTimeout(t *testing.T) {
	h := newHarness(t, `
signals:
  - name: slow
    personality: NR
    acquisition:
      measurement_time: 1h
`, 'y')
	h.cfg.MeasurementTimeout = 0

	err := h.run()
	assert.ErrorIs(t, err, domain.ErrAcquisitionTimeout)
	assert.Contains(t, h.out.String(), `Location: wait for signal "slow" (NR)`)

	_, disposed := h.inst.Handles()
	assert.Equal(t, 1, disposed)
}

func TestExecute_Interrupted(t *testing.T) {
	h := newHarness(t, "signals:\n  - name: a\n    personality: BT\n")
	h.confirmer.Err = console.ErrInterrupted

	require.NoError(t, h.run())
	assert.Contains(t, h.out.String(), ">>> Interrupted.")
	assert.True(t, h.inst.Closed())
}

func TestExecute_MetricsAndSummary(t *testing.T) {
	h := newHarness(t, `
signals:
  - name: wifi
    personality: Wlan
    acquisition:
      samples: 4
  - name: bt
    personality: BT
`, 'y', 'n')
	h.cfg.MetricsFile = filepath.Join(t.TempDir(), "iqcapture.prom")
	h.cfg.Summary = true

	require.NoError(t, h.run())

	prom, err := os.ReadFile(h.cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `iqcapture_signals_total{outcome="captured",personality="Wlan"} 1`)
	assert.Contains(t, string(prom), `iqcapture_signals_total{outcome="declined",personality="BT"} 1`)
	assert.Contains(t, string(prom), `iqcapture_iq_lines_written_total 8`)

	out := h.out.String()
	assert.Contains(t, out, "# Capture summary")
	assert.Contains(t, out, "| Wlan_wifi_IQ_1000000.txt |")
	assert.Contains(t, out, "1 of 2 signal(s) captured.")
}

func TestReportError_PlainError(t *testing.T) {
	var out bytes.Buffer
	reportError(&out, console.Styler{}, assert.AnError)
	assert.Equal(t, "Error occurred: "+assert.AnError.Error()+"\nLocation: iqcapture\n", out.String())
}
