// Package metrics records run metrics from dispatcher hooks and writes them as a
// Prometheus textfile at the end of the run.
package metrics
