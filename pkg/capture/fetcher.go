package capture

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/iqcapture/internal/logging"
	"github.com/aretw0/iqcapture/pkg/domain"
	"github.com/aretw0/iqcapture/pkg/ports"
)

// DefaultFetchTimeout bounds the transfer of the sample buffer.
const DefaultFetchTimeout = 10 * time.Second

// SpectralSkipNotice is printed instead of writing a file for spectral acquisitions.
const SpectralSkipNotice = "This measurement uses a spectral acquisition mode, which is not possible to fetch. This measurement will be skipped."

// Fetcher pulls IQ samples from the session's acquisition buffer and writes them to disk.
type Fetcher struct {
	timeout time.Duration
	out     io.Writer
	logger  *slog.Logger
	plot    bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the fetch bound.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithOutput sets where operator notices are printed.
func WithOutput(w io.Writer) Option {
	return func(f *Fetcher) {
		f.out = w
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithPlot enables a PNG plot next to every written capture.
func WithPlot(enabled bool) Option {
	return func(f *Fetcher) {
		f.plot = enabled
	}
}

// NewFetcher creates a Fetcher with a 10 second fetch bound, printing to stdout.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
		out:     os.Stdout,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchAndWrite writes the current IQ acquisition to
// <outputDir>/<personality>_<signal>_IQ_<rate>.txt, creating the directory if needed.
// Spectral acquisitions produce no file and a skip notice; that is not an error.
func (f *Fetcher) FetchAndWrite(ctx context.Context, acq ports.Acquisition, personality domain.Personality, signal, outputDir string) (domain.CaptureResult, error) {
	typ, err := acq.AcquisitionType(ctx)
	if err != nil {
		return domain.CaptureResult{}, fmt.Errorf("reading acquisition type: %w", err)
	}

	if typ != domain.AcquisitionIQ {
		fmt.Fprintln(f.out, SpectralSkipNotice)
		f.logger.Info("Capture skipped", "signal", signal, "personality", personality, "acquisition", typ)
		return domain.CaptureResult{Skipped: true}, nil
	}

	params, err := acq.IQParameters(ctx)
	if err != nil {
		return domain.CaptureResult{}, fmt.Errorf("reading IQ parameters: %w", err)
	}

	start := time.Now()
	data, err := acq.FetchIQ(ctx, 0, params.Records, params.Samples, f.timeout)
	if err != nil {
		return domain.CaptureResult{}, fmt.Errorf("fetching IQ data: %w", err)
	}
	f.logger.Debug("IQ data fetched", "signal", signal, "records", params.Records, "samples", params.Samples, "elapsed", time.Since(start))

	path, err := OutputPath(outputDir, FileName(personality, signal, params.Rate))
	if err != nil {
		return domain.CaptureResult{}, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.CaptureResult{}, fmt.Errorf("%w: creating output directory: %w", domain.ErrIO, err)
	}

	lines, err := WriteFile(path, data)
	if err != nil {
		return domain.CaptureResult{}, err
	}

	if f.plot {
		plotPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
		if err := PlotIQ(plotPath, fmt.Sprintf("%s %s", personality, signal), data, params.Rate); err != nil {
			return domain.CaptureResult{}, err
		}
		f.logger.Debug("IQ plot written", "path", plotPath)
	}

	fmt.Fprintf(f.out, "IQ data successfully saved to \"%s\".\n", path)
	f.logger.Info("Capture written", "signal", signal, "personality", personality, "path", path, "lines", lines)
	return domain.CaptureResult{Path: path, Lines: lines}, nil
}
