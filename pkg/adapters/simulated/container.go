package simulated

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/iqcapture/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// AcquisitionSettings is the receiver configuration a signal applies to the session when
// it is initiated.
type AcquisitionSettings struct {
	Type            domain.AcquisitionType `mapstructure:"type"`
	IQRate          float64                `mapstructure:"iq_rate"`
	Records         int64                  `mapstructure:"records"`
	Samples         int64                  `mapstructure:"samples"`
	MeasurementTime time.Duration          `mapstructure:"measurement_time"`
	FetchDelay      time.Duration          `mapstructure:"fetch_delay"`
}

// Params returns the IQ shape of the settings.
func (a AcquisitionSettings) Params() domain.IQParameters {
	return domain.IQParameters{Rate: a.IQRate, Records: a.Records, Samples: a.Samples}
}

// Signal is one decoded container entry.
type Signal struct {
	Config      domain.SignalConfiguration
	Acquisition AcquisitionSettings
	Waveform    Waveform
}

// signalEntry is the raw YAML/JSON form of a container entry.
// Nested blocks stay generic until decodeBlock applies defaults and hooks.
type signalEntry struct {
	Name        string         `yaml:"name" json:"name"`
	Personality string         `yaml:"personality" json:"personality"`
	Acquisition map[string]any `yaml:"acquisition" json:"acquisition"`
	Waveform    map[string]any `yaml:"waveform" json:"waveform"`
}

// containerFile represents the structure of a configuration container.
type containerFile struct {
	Signals []signalEntry `yaml:"signals" json:"signals"`
}

// DefaultAcquisition is applied before an entry's acquisition block is decoded.
func DefaultAcquisition() AcquisitionSettings {
	return AcquisitionSettings{
		Type:    domain.AcquisitionIQ,
		IQRate:  1e6,
		Records: 1,
		Samples: 1000,
	}
}

// LoadContainer reads a configuration container (YAML, or JSON by extension).
func LoadContainer(path string) ([]Signal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration container: %w", err)
	}
	return ParseContainer(data, filepath.Ext(path))
}

// ParseContainer decodes container bytes. ext selects JSON when it is ".json"; anything else
// is treated as YAML.
func ParseContainer(data []byte, ext string) ([]Signal, error) {
	var file containerFile
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse container: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse container: %w", err)
		}
	}

	if len(file.Signals) == 0 {
		return nil, errors.New("container holds no signal configurations")
	}

	signals := make([]Signal, 0, len(file.Signals))
	seen := make(map[domain.SignalConfiguration]bool, len(file.Signals))
	for i, entry := range file.Signals {
		sig, err := decodeEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("signal #%d: %w", i+1, err)
		}
		if seen[sig.Config] {
			return nil, fmt.Errorf("signal #%d: duplicate configuration %s", i+1, sig.Config)
		}
		seen[sig.Config] = true
		signals = append(signals, sig)
	}
	return signals, nil
}

func decodeEntry(entry signalEntry) (Signal, error) {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return Signal{}, errors.New("missing name")
	}
	if strings.TrimSpace(entry.Personality) == "" {
		return Signal{}, fmt.Errorf("%q: missing personality", name)
	}
	// Unknown personalities are kept verbatim; the dispatcher reports them.
	p, _ := domain.ParsePersonality(entry.Personality)

	sig := Signal{
		Config:      domain.SignalConfiguration{Name: name, Personality: p},
		Acquisition: DefaultAcquisition(),
		Waveform:    DefaultWaveform(),
	}
	if err := decodeBlock(entry.Acquisition, &sig.Acquisition); err != nil {
		return Signal{}, fmt.Errorf("%q: acquisition: %w", name, err)
	}
	if err := decodeBlock(entry.Waveform, &sig.Waveform); err != nil {
		return Signal{}, fmt.Errorf("%q: waveform: %w", name, err)
	}
	if err := validate(sig); err != nil {
		return Signal{}, fmt.Errorf("%q: %w", name, err)
	}
	return sig, nil
}

func decodeBlock(raw map[string]any, out any) error {
	if len(raw) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

func validate(sig Signal) error {
	acq := sig.Acquisition
	switch acq.Type {
	case domain.AcquisitionIQ, domain.AcquisitionSpectral:
	default:
		return fmt.Errorf("unknown acquisition type %q", acq.Type)
	}
	if acq.IQRate <= 0 {
		return fmt.Errorf("iq_rate must be positive, got %v", acq.IQRate)
	}
	if acq.Records < 0 || acq.Samples < 0 {
		return fmt.Errorf("invalid shape %dx%d", acq.Records, acq.Samples)
	}
	if acq.MeasurementTime < 0 || acq.FetchDelay < 0 {
		return errors.New("durations must not be negative")
	}
	switch sig.Waveform.Kind {
	case WaveTone, WaveNoise, WaveZero:
	default:
		return fmt.Errorf("unknown waveform kind %q", sig.Waveform.Kind)
	}
	return nil
}
