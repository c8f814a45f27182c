// Package capture fetches IQ samples from an acquisition and serializes them as text,
// one number per line.
package capture
