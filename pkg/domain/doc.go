/*
Package domain contains the core types shared by the capture tool.

It is kept free of I/O. Drivers, console adapters and writers all speak in these types.

# Key Entities

  - Personality: the measurement type of a configuration entry (SpecAn, Wlan, NR, ...).
  - SignalConfiguration: a named entry of a loaded configuration container.
  - IQParameters / IQRecords: the shape and contents of a time-domain acquisition.
  - Decision: the operator's answer to a measurement prompt.
  - Hooks: callbacks fired by the dispatcher for logging, metrics and reporting.
*/
package domain
