package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/aretw0/iqcapture/internal/logging"
	"github.com/aretw0/iqcapture/pkg/domain"
	"github.com/aretw0/iqcapture/pkg/ports"
)

// Session owns the single driver session of a run.
// It is not safe for concurrent use; the capture flow is strictly sequential.
type Session struct {
	id     string
	inst   ports.Instrument
	logger *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// Option configures a Session.
type Option func(*Session)

// WithLogger configures a logger for session events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// Open establishes a session with the named instrument.
func Open(ctx context.Context, opener ports.Opener, instrumentID string, opts ...Option) (*Session, error) {
	s := &Session{
		id:     instrumentID,
		logger: logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(s)
	}

	inst, err := opener(ctx, instrumentID)
	if err != nil {
		if !errors.Is(err, domain.ErrConnection) {
			err = fmt.Errorf("%w: %w", domain.ErrConnection, err)
		}
		return nil, &domain.OpError{Op: "open session", Err: err}
	}
	if inst == nil {
		return nil, &domain.OpError{Op: "open session", Err: fmt.Errorf("%w: driver returned no session for %q", domain.ErrConnection, instrumentID)}
	}
	s.inst = inst
	s.logger.Info("Session opened", "instrument", instrumentID)
	return s, nil
}

// ID returns the instrument identifier the session was opened with.
func (s *Session) ID() string {
	return s.id
}

// Instrument returns the underlying driver session.
func (s *Session) Instrument() ports.Instrument {
	return s.inst
}

// LoadConfiguration loads every configuration stored in the container at path,
// replacing any already on the session, and returns them in container order.
func (s *Session) LoadConfiguration(ctx context.Context, path string) ([]domain.SignalConfiguration, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, s.loadError(path, err)
	}

	if err := s.inst.LoadAllConfigurations(ctx, abs, true); err != nil {
		return nil, s.loadError(abs, err)
	}

	configs, err := s.inst.SignalConfigurations(ctx)
	if err != nil {
		return nil, s.loadError(abs, err)
	}

	s.logger.Info("Configuration loaded", "path", abs, "signals", len(configs))
	return configs, nil
}

func (s *Session) loadError(path string, err error) error {
	if !errors.Is(err, domain.ErrConfigLoad) {
		err = fmt.Errorf("%w: %w", domain.ErrConfigLoad, err)
	}
	return &domain.OpError{Op: fmt.Sprintf("load configuration %q", filepath.Base(path)), Err: err}
}

// Close releases the driver session. Only the first call reaches the driver;
// later calls return the same result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.inst.Close()
		if s.closeErr != nil {
			s.logger.Warn("Failed to close session", "instrument", s.id, "err", s.closeErr)
			return
		}
		s.logger.Info("Session closed", "instrument", s.id)
	})
	return s.closeErr
}

// WithSession opens a session, runs fn with it and always closes it afterwards,
// including when fn fails or panics. A close failure is joined to fn's error.
func WithSession(ctx context.Context, opener ports.Opener, instrumentID string, fn func(context.Context, *Session) error, opts ...Option) (err error) {
	s, err := Open(ctx, opener, instrumentID, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			err = errors.Join(err, &domain.OpError{Op: "close session", Err: cerr})
		}
	}()

	return fn(ctx, s)
}
