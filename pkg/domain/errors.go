package domain

import (
	"errors"
	"fmt"
)

// ErrConnection is returned when the instrument session cannot be opened.
var ErrConnection = errors.New("instrument connection failed")

// ErrConfigLoad is returned when a configuration container is missing or malformed.
var ErrConfigLoad = errors.New("configuration load failed")

// ErrUnsupportedPersonality is returned when a configuration entry has no measurement variant.
var ErrUnsupportedPersonality = errors.New("unsupported personality")

// ErrAcquisitionTimeout is returned when a measurement wait or a fetch exceeds its bound.
var ErrAcquisitionTimeout = errors.New("acquisition timed out")

// ErrIO is returned when writing output files or creating their directory fails.
var ErrIO = errors.New("output i/o failed")

// UnsupportedPersonalityError names the personality that could not be mapped.
type UnsupportedPersonalityError struct {
	Personality Personality
}

func (e *UnsupportedPersonalityError) Error() string {
	return fmt.Sprintf("the %q personality has not been implemented", e.Personality.String())
}

func (e *UnsupportedPersonalityError) Unwrap() error {
	return ErrUnsupportedPersonality
}

// OpError records which step failed and for which signal.
type OpError struct {
	Op          string
	Signal      string
	Personality Personality
	Err         error
}

func (e *OpError) Error() string {
	return e.Location() + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Location describes where the failure happened, without the cause.
func (e *OpError) Location() string {
	if e.Signal == "" {
		return e.Op
	}
	if e.Personality == "" {
		return fmt.Sprintf("%s signal %q", e.Op, e.Signal)
	}
	return fmt.Sprintf("%s signal %q (%s)", e.Op, e.Signal, e.Personality)
}
