/*
Package ports defines the driven ports (interfaces) of the capture tool.

The measurement driver is an external collaborator. These interfaces keep the dispatcher
and the writer independent of any concrete driver, so a simulated instrument and a real
one are interchangeable.

# Key Interfaces

  - Instrument: an open driver session (load configurations, open signal handles, close).
  - Measurement: initiate / wait / dispose, common to every personality.
  - Acquisition: acquisition type, IQ parameters and buffer fetch.
  - Confirmer / Pauser: operator interaction on the console.
*/
package ports
