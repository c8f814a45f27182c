package ports

import (
	"context"
	"fmt"

	"github.com/aretw0/iqcapture/pkg/domain"
)

// Prompt is the question put to the operator before a measurement runs.
type Prompt struct {
	Label  string // human name of the personality, e.g. "WLAN"
	Signal string
}

// Text renders the prompt as shown on the console.
func (p Prompt) Text() string {
	return fmt.Sprintf("Enter 'y' to initiate acquisition for RFmx %s with signal %q; any other key to skip.", p.Label, p.Signal)
}

// Confirmer asks the operator whether a measurement should run.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (domain.Decision, error)
}

// Pauser holds the console open until the operator presses a key.
type Pauser interface {
	WaitForKey(ctx context.Context) error
}
