/*
Package simulated provides an in-process instrument driver.

It implements the ports.Instrument capability set over a configuration container file so the
capture tool can run end to end without hardware. The container is YAML (or JSON by
extension):

	signals:
	  - name: wifi_80mhz
	    personality: Wlan
	    acquisition:
	      type: iq
	      iq_rate: 120e6
	      records: 1
	      samples: 2000
	      measurement_time: 50ms
	    waveform:
	      kind: tone
	      frequency: 1e6
	      noise: 0.01
	      seed: 7

Initiating a signal makes its acquisition block the session's active receiver
configuration, which is what the Acquisition then reports and fetches. Measurement and
fetch durations are simulated against the caller's timeout and fail with
domain.ErrAcquisitionTimeout when they exceed it.
*/
package simulated
