package console

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Styler decorates console messages. The zero value prints plain text.
type Styler struct {
	profile termenv.Profile
	enabled bool
}

// NewStyler returns a Styler using the terminal's color profile when enabled.
func NewStyler(enabled bool) Styler {
	if !enabled {
		return Styler{profile: termenv.Ascii}
	}
	return Styler{profile: termenv.ColorProfile(), enabled: true}
}

// Enabled reports whether styling is applied.
func (s Styler) Enabled() bool {
	return s.enabled
}

func (s Styler) Prompt(text string) string {
	return s.apply(text, func(st termenv.Style) termenv.Style {
		return st.Bold().Foreground(s.profile.Color("#818cf8"))
	})
}

func (s Styler) Notice(text string) string {
	return s.apply(text, func(st termenv.Style) termenv.Style {
		return st.Foreground(s.profile.Color("#facc15"))
	})
}

func (s Styler) Success(text string) string {
	return s.apply(text, func(st termenv.Style) termenv.Style {
		return st.Foreground(s.profile.Color("#4ade80"))
	})
}

func (s Styler) Error(text string) string {
	return s.apply(text, func(st termenv.Style) termenv.Style {
		return st.Bold().Foreground(s.profile.Color("#f87171"))
	})
}

func (s Styler) apply(text string, fn func(termenv.Style) termenv.Style) string {
	if !s.enabled {
		return text
	}
	return fn(s.profile.String(text)).String()
}
