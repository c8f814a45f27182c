package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/iqcapture/internal/logging"
	"github.com/aretw0/iqcapture/pkg/adapters/console"
	"github.com/aretw0/iqcapture/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger on stderr, keeping stdout for the
// operator dialogue.
func createLogger(level string) *slog.Logger {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return logging.New(slog.LevelWarn)
	}
	return logging.New(lvl)
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnSignalStart: func(ctx context.Context, e *domain.SignalEvent) {
			logger.Debug("Signal Opened", "signal", e.Signal, "personality", e.Personality)
		},
		OnSignalSkipped: func(ctx context.Context, e *domain.SignalEvent) {
			logger.Debug("Signal Skipped", "signal", e.Signal, "decision", e.Decision.String())
		},
		OnMeasurementDone: func(ctx context.Context, e *domain.SignalEvent) {
			logger.Debug("Measurement Done", "signal", e.Signal, "elapsed", e.Duration)
		},
		OnCaptureDone: func(ctx context.Context, e *domain.SignalEvent) {
			if e.Capture.Skipped {
				logger.Debug("Capture Skipped (Spectral)", "signal", e.Signal)
			} else {
				logger.Debug("Capture Written", "signal", e.Signal, "path", e.Capture.Path, "lines", e.Capture.Lines)
			}
		},
		OnSignalDisposed: func(ctx context.Context, e *domain.SignalEvent) {
			if e.Err != nil {
				logger.Debug("Signal Disposed (Error)", "signal", e.Signal, "err", e.Err)
			} else {
				logger.Debug("Signal Disposed", "signal", e.Signal)
			}
		},
	}
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, console.ErrInterrupted)
}

// reportError prints the failure and where it happened.
func reportError(w io.Writer, style console.Styler, err error) {
	msg, loc := err.Error(), "iqcapture"
	var op *domain.OpError
	if errors.As(err, &op) {
		msg, loc = op.Err.Error(), op.Location()
	}
	fmt.Fprintln(w, style.Error("Error occurred: "+msg))
	fmt.Fprintln(w, "Location: "+loc)
}
