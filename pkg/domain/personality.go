package domain

import "strings"

// Personality is the measurement-type classification of a signal configuration.
// Its string form is the driver's identifier and appears verbatim in output file names.
type Personality string

const (
	PersonalityNone    Personality = "None"
	PersonalitySpecAn  Personality = "SpecAn"
	PersonalityDemod   Personality = "Demod"
	PersonalityLte     Personality = "Lte"
	PersonalityGsm     Personality = "Gsm"
	PersonalityWCdma   Personality = "WCdma"
	PersonalityCdma2k  Personality = "Cdma2k"
	PersonalityTDScdma Personality = "TDScdma"
	PersonalityEVDO    Personality = "EVDO"
	PersonalityNR      Personality = "NR"
	PersonalityBT      Personality = "BT"
	PersonalityWlan    Personality = "Wlan"
)

// Personalities lists every personality the driver can report, in driver order.
var Personalities = []Personality{
	PersonalityNone,
	PersonalitySpecAn,
	PersonalityDemod,
	PersonalityLte,
	PersonalityGsm,
	PersonalityWCdma,
	PersonalityCdma2k,
	PersonalityTDScdma,
	PersonalityEVDO,
	PersonalityNR,
	PersonalityBT,
	PersonalityWlan,
}

func (p Personality) String() string {
	return string(p)
}

// Known reports whether p is one of the driver personalities.
func (p Personality) Known() bool {
	for _, k := range Personalities {
		if p == k {
			return true
		}
	}
	return false
}

// ParsePersonality resolves a personality name case-insensitively.
// Unknown names are returned unchanged (trimmed) with ok set to false, so callers
// can still report the raw value.
func ParsePersonality(s string) (p Personality, ok bool) {
	s = strings.TrimSpace(s)
	for _, k := range Personalities {
		if strings.EqualFold(s, string(k)) {
			return k, true
		}
	}
	return Personality(s), false
}
