package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/iqcapture/pkg/ports"
)

// PauseMessage is printed before waiting for the final key.
const PauseMessage = "\n\nPress any key to exit."

// KeyPauser waits for any single keypress.
type KeyPauser struct {
	out io.Writer
	settings
}

// NewKeyPauser creates a pauser reading raw keys from the terminal.
func NewKeyPauser(out io.Writer, opts ...Option) *KeyPauser {
	if out == nil {
		out = os.Stdout
	}
	return &KeyPauser{out: out, settings: newSettings(opts)}
}

func (p *KeyPauser) WaitForKey(ctx context.Context) error {
	fmt.Fprintln(p.out, PauseMessage)
	if _, _, err := p.readKey(); err != nil {
		return fmt.Errorf("reading key: %w", err)
	}
	return nil
}

// LinePauser waits for a line (Enter) or end of input.
type LinePauser struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewLinePauser creates a pauser reading lines from r.
func NewLinePauser(r io.Reader, out io.Writer) *LinePauser {
	if r == nil {
		r = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &LinePauser{reader: bufio.NewReader(r), out: out}
}

func (p *LinePauser) WaitForKey(ctx context.Context) error {
	fmt.Fprintln(p.out, PauseMessage)
	if _, err := p.reader.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

// New returns the confirmer and pauser suited to in: raw keypresses on a terminal,
// line reads otherwise. Both share one reader so buffered input is not lost between them.
func New(in *os.File, out io.Writer, opts ...Option) (ports.Confirmer, ports.Pauser) {
	if IsInteractive(in) {
		return NewKeyConfirmer(out, opts...), NewKeyPauser(out, opts...)
	}
	var r io.Reader = in
	if in == nil {
		r = os.Stdin
	}
	shared := bufio.NewReader(r)
	confirmer := NewLineConfirmer(shared, out, opts...)
	pauser := &LinePauser{reader: confirmer.reader, out: confirmer.out}
	return confirmer, pauser
}
