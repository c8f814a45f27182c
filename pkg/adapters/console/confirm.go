package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/iqcapture/pkg/domain"
	"github.com/aretw0/iqcapture/pkg/ports"
	"github.com/eiannone/keyboard"
)

// ErrInterrupted is returned when the operator presses Ctrl+C at a prompt.
// Raw keyboard mode swallows SIGINT, so the key is turned into an error instead.
var ErrInterrupted = errors.New("interrupted by operator")

// KeyReader reads a single keypress.
type KeyReader func() (rune, keyboard.Key, error)

// Option configures the console adapters.
type Option func(*settings)

type settings struct {
	readKey KeyReader
	style   Styler
}

// WithKeyReader replaces the keyboard source.
func WithKeyReader(r KeyReader) Option {
	return func(s *settings) {
		s.readKey = r
	}
}

// WithStyler configures prompt styling.
func WithStyler(st Styler) Option {
	return func(s *settings) {
		s.style = st
	}
}

func newSettings(opts []Option) settings {
	s := settings{readKey: keyboard.GetSingleKey}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// KeyConfirmer asks for a single keypress without waiting for Enter.
type KeyConfirmer struct {
	out io.Writer
	settings
}

// NewKeyConfirmer creates a confirmer reading raw keys from the terminal.
func NewKeyConfirmer(out io.Writer, opts ...Option) *KeyConfirmer {
	if out == nil {
		out = os.Stdout
	}
	return &KeyConfirmer{out: out, settings: newSettings(opts)}
}

func (c *KeyConfirmer) Confirm(ctx context.Context, p ports.Prompt) (domain.Decision, error) {
	if err := ctx.Err(); err != nil {
		return domain.DecisionUnrecognized, err
	}
	fmt.Fprintln(c.out, c.style.Prompt(p.Text()))

	ch, key, err := c.readKey()
	if err != nil {
		return domain.DecisionUnrecognized, fmt.Errorf("reading key: %w", err)
	}
	if key == keyboard.KeyCtrlC {
		fmt.Fprintln(c.out)
		return domain.DecisionUnrecognized, ErrInterrupted
	}
	if ch != 0 {
		fmt.Fprint(c.out, string(ch))
	}
	fmt.Fprintln(c.out)
	return domain.DecisionFor(ch), nil
}

// LineConfirmer reads a whole line and decides on its first character.
// It serves redirected or piped input where raw keys are unavailable.
type LineConfirmer struct {
	reader *bufio.Reader
	out    io.Writer
	style  Styler
}

// NewLineConfirmer creates a confirmer reading lines from r.
func NewLineConfirmer(r io.Reader, out io.Writer, opts ...Option) *LineConfirmer {
	if r == nil {
		r = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	s := newSettings(opts)
	return &LineConfirmer{reader: bufio.NewReader(r), out: out, style: s.style}
}

// Confirm prints the prompt and reads one line. End of input counts as an unrecognized answer.
func (c *LineConfirmer) Confirm(ctx context.Context, p ports.Prompt) (domain.Decision, error) {
	if err := ctx.Err(); err != nil {
		return domain.DecisionUnrecognized, err
	}
	fmt.Fprintln(c.out, c.style.Prompt(p.Text()))

	line, err := c.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return domain.DecisionUnrecognized, fmt.Errorf("reading answer: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return domain.DecisionUnrecognized, nil
	}
	r, _ := utf8.DecodeRuneInString(line)
	return domain.DecisionFor(r), nil
}
