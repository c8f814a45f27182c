/*
Package iqcapture captures raw IQ samples from an instrument's stored signal configurations.

An operator points the tool at an instrument and a configuration container. Every signal
configuration in the container is visited in order: the operator confirms it with a single
key, the measurement runs, and the acquired samples are written to a text file named after
the personality, the signal and the IQ rate.

# Architecture

  - pkg/domain: personalities, signal configurations, IQ shapes, errors and lifecycle hooks.
  - pkg/ports: the driver capability set (Instrument, Measurement, Acquisition) and the
    operator console (Confirmer, Pauser).
  - pkg/session: scoped instrument sessions with guaranteed release.
  - pkg/dispatch: the measurement loop and the personality table.
  - pkg/capture: fetching IQ buffers and writing them to disk.
  - pkg/adapters: the simulated driver and the console prompts.

# Usage

	iqcapture -i PXI1Slot2 -f signals.yaml -o captures

	Initializing RFmx session with instrument "PXI1Slot2"...
	Loading configuration from "signals.yaml"...
	Configuration loaded successfully.

	Enter 'y' to initiate acquisition for RFmx WLAN with signal "wifi_80mhz"; any other key to skip.
	y
	IQ data successfully saved to "/home/op/captures/Wlan_wifi_80mhz_IQ_120000000.txt".
	All measurements complete.

Each capture file holds one value per line: the real part then the imaginary part of every
sample, record by record.
*/
package iqcapture
