package dispatch

import (
	"context"

	"github.com/aretw0/iqcapture/pkg/domain"
	"github.com/aretw0/iqcapture/pkg/ports"
)

// Variant binds a personality to the way its measurement handle is obtained.
type Variant struct {
	Personality domain.Personality
	Label       string // shown in the operator prompt
	Open        func(ctx context.Context, inst ports.Instrument, signal string) (ports.Measurement, error)
}

// NewVariant returns a variant that opens handles through Instrument.OpenSignal.
func NewVariant(p domain.Personality, label string) Variant {
	return Variant{
		Personality: p,
		Label:       label,
		Open: func(ctx context.Context, inst ports.Instrument, signal string) (ports.Measurement, error) {
			return inst.OpenSignal(ctx, p, signal)
		},
	}
}

// DefaultVariants returns the personalities the tool can drive.
func DefaultVariants() []Variant {
	return []Variant{
		NewVariant(domain.PersonalityBT, "Bluetooth"),
		NewVariant(domain.PersonalityWlan, "WLAN"),
		NewVariant(domain.PersonalitySpecAn, "SpecAn"),
		NewVariant(domain.PersonalityNR, "NR"),
		NewVariant(domain.PersonalityLte, "LTE"),
	}
}
