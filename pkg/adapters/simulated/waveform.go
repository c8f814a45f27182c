package simulated

import (
	"math"
	"math/rand/v2"
)

// Waveform kinds.
const (
	WaveTone  = "tone"
	WaveNoise = "noise"
	WaveZero  = "zero"
)

// Waveform describes the samples the simulated receiver produces.
type Waveform struct {
	Kind      string  `mapstructure:"kind"`
	Frequency float64 `mapstructure:"frequency"` // Hz offset of the tone
	Amplitude float64 `mapstructure:"amplitude"`
	Noise     float64 `mapstructure:"noise"` // standard deviation per component
	Seed      uint64  `mapstructure:"seed"`
}

// DefaultWaveform is a clean unit tone at 10 kHz.
func DefaultWaveform() Waveform {
	return Waveform{Kind: WaveTone, Frequency: 10e3, Amplitude: 1}
}

// Generate returns samples of one record. Records are contiguous in time, and the output is
// deterministic for a given seed and record index.
func (w Waveform) Generate(rate float64, record, samples int64) []complex128 {
	out := make([]complex128, samples)
	if w.Kind == WaveZero {
		return out
	}

	rng := rand.New(rand.NewPCG(w.Seed, uint64(record)))
	offset := record * samples
	for n := range out {
		var v complex128
		switch w.Kind {
		case WaveTone:
			t := float64(offset+int64(n)) / rate
			phase := 2 * math.Pi * w.Frequency * t
			v = complex(w.Amplitude*math.Cos(phase), w.Amplitude*math.Sin(phase))
			if w.Noise > 0 {
				v += complex(w.Noise*rng.NormFloat64(), w.Noise*rng.NormFloat64())
			}
		case WaveNoise:
			sigma := w.Amplitude
			if w.Noise > 0 {
				sigma = w.Noise
			}
			v = complex(sigma*rng.NormFloat64(), sigma*rng.NormFloat64())
		}
		out[n] = v
	}
	return out
}
