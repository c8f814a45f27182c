package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/iqcapture/internal/config"
	"github.com/aretw0/iqcapture/internal/metrics"
	"github.com/aretw0/iqcapture/internal/report"
	"github.com/aretw0/iqcapture/pkg/adapters/console"
	"github.com/aretw0/iqcapture/pkg/adapters/simulated"
	"github.com/aretw0/iqcapture/pkg/capture"
	"github.com/aretw0/iqcapture/pkg/dispatch"
	"github.com/aretw0/iqcapture/pkg/domain"
	"github.com/aretw0/iqcapture/pkg/ports"
	"github.com/aretw0/iqcapture/pkg/session"
	"github.com/google/uuid"
)

// RunOptions contains everything a capture run needs.
type RunOptions struct {
	Config    *config.Config
	Confirmer ports.Confirmer

	// Opener connects to the instrument. Defaults to the simulated driver restricted to
	// Config.AllowInstr.
	Opener ports.Opener
	Out    io.Writer
	Logger *slog.Logger
	Style  console.Styler
}

// Execute runs one capture session: open, load, measure every configuration, release.
// Failures are reported on Out and returned; operator interruptions are reported and
// return nil.
func Execute(ctx context.Context, opts RunOptions) error {
	cfg := opts.Config
	if cfg == nil {
		return fmt.Errorf("cli: no configuration")
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = createLogger(cfg.LogLevel)
	}
	logger = logger.With("run_id", uuid.NewString())
	opener := opts.Opener
	if opener == nil {
		opener = simulated.NewOpener(cfg.AllowInstr, simulated.WithLogger(logger))
	}

	recorder := metrics.New()
	summary := report.NewSummary()
	hooks := domain.ChainHooks(createDebugHooks(logger), recorder.Hooks(), summary.Hooks())

	fmt.Fprintf(out, "Initializing RFmx session with instrument \"%s\"...\n", cfg.Instrument)
	err := session.WithSession(ctx, opener, cfg.Instrument, func(ctx context.Context, s *session.Session) error {
		fmt.Fprintf(out, "Loading configuration from \"%s\"...\n", filepath.Base(cfg.Path))
		configs, err := s.LoadConfiguration(ctx, cfg.Path)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, opts.Style.Success("Configuration loaded successfully."))

		fetcher := capture.NewFetcher(
			capture.WithTimeout(cfg.FetchTimeout),
			capture.WithOutput(out),
			capture.WithLogger(logger),
			capture.WithPlot(cfg.Plot),
		)
		d := dispatch.New(
			dispatch.WithConfirmer(opts.Confirmer),
			dispatch.WithFetcher(fetcher),
			dispatch.WithMeasurementTimeout(cfg.MeasurementTimeout),
			dispatch.WithOutputDir(cfg.Output),
			dispatch.WithOutput(out),
			dispatch.WithLogger(logger),
			dispatch.WithHooks(hooks),
		)
		return d.Run(ctx, s.Instrument(), configs)
	}, session.WithLogger(logger))

	if cfg.MetricsFile != "" {
		if merr := recorder.WriteTextfile(cfg.MetricsFile); merr != nil {
			logger.Warn("Failed to write metrics", "err", merr)
		}
	}
	if cfg.Summary {
		printSummary(out, summary, opts.Style.Enabled(), logger)
	}

	if err == nil {
		return nil
	}
	if isInterrupted(err) {
		logger.Info("Capture interrupted", "err", err)
		printSystemMessage(out, "Interrupted. The instrument session has been released.")
		return nil
	}
	logger.Error("Capture failed", "err", err)
	reportError(out, opts.Style, err)
	return err
}

func printSummary(out io.Writer, summary *report.Summary, styled bool, logger *slog.Logger) {
	rendered, err := report.NewRenderer(styled)(summary.Markdown())
	if err != nil {
		logger.Debug("Summary rendering failed", "err", err)
		rendered = summary.Markdown()
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, rendered)
}
