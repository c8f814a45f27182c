package domain

import "fmt"

// SignalConfiguration is one named entry of a loaded configuration container.
type SignalConfiguration struct {
	Name        string
	Personality Personality
}

func (s SignalConfiguration) String() string {
	return fmt.Sprintf("%s/%s", s.Personality, s.Name)
}

// AcquisitionType is the acquisition mode currently configured on the session.
type AcquisitionType string

const (
	// AcquisitionIQ is a time-domain IQ acquisition; samples can be fetched.
	AcquisitionIQ AcquisitionType = "iq"
	// AcquisitionSpectral is a spectral acquisition; there is nothing to fetch.
	AcquisitionSpectral AcquisitionType = "spectral"
)

// IQParameters describes the shape of an IQ acquisition.
type IQParameters struct {
	Rate    float64 // samples per second
	Records int64
	Samples int64 // per record
}

// Lines returns the number of text lines a serialized capture of this shape occupies.
func (p IQParameters) Lines() int64 {
	return 2 * p.Records * p.Samples
}

// IQRecords holds complex samples indexed by [record][sample].
type IQRecords [][]complex128

// Shape returns the record count and the sample count of the first record.
func (r IQRecords) Shape() (records, samples int) {
	if len(r) == 0 {
		return 0, 0
	}
	return len(r), len(r[0])
}

// CaptureResult is the outcome of a fetch-and-write step.
type CaptureResult struct {
	Path    string // absolute path of the written file, empty when skipped
	Lines   int
	Skipped bool // true for spectral acquisitions
}

// Decision is the operator's answer to a measurement prompt.
type Decision int

const (
	DecisionUnrecognized Decision = iota
	DecisionAccepted
	DecisionDeclined
)

func (d Decision) String() string {
	switch d {
	case DecisionAccepted:
		return "accepted"
	case DecisionDeclined:
		return "declined"
	default:
		return "unrecognized"
	}
}

// DecisionFor maps a single key to a decision. Only a lowercase 'y' runs a measurement.
func DecisionFor(key rune) Decision {
	switch key {
	case 'y':
		return DecisionAccepted
	case 'n', 'N':
		return DecisionDeclined
	default:
		return DecisionUnrecognized
	}
}
