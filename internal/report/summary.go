package report

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/iqcapture/pkg/domain"
)

// Row outcomes.
const (
	OutcomeIncomplete = "incomplete"
	OutcomeCaptured   = "captured"
	OutcomeSpectral   = "spectral, not fetched"
)

// Row is one handled signal configuration.
type Row struct {
	Signal      string
	Personality domain.Personality
	Outcome     string
	Duration    time.Duration // measurement time, zero when not measured
	Path        string
}

// Summary accumulates rows from dispatcher hooks.
type Summary struct {
	rows []Row
}

// NewSummary creates an empty summary.
func NewSummary() *Summary {
	return &Summary{}
}

// Rows returns the rows in handling order.
func (s *Summary) Rows() []Row {
	return s.rows
}

// Hooks returns dispatcher hooks feeding this summary. Entries are appended on
// OnSignalStart and refined by later events for the same signal.
func (s *Summary) Hooks() domain.Hooks {
	return domain.Hooks{
		OnSignalStart: func(_ context.Context, e *domain.SignalEvent) {
			s.rows = append(s.rows, Row{Signal: e.Signal, Personality: e.Personality, Outcome: OutcomeIncomplete})
		},
		OnSignalSkipped: func(_ context.Context, e *domain.SignalEvent) {
			s.update(e, func(r *Row) { r.Outcome = "skipped (" + e.Decision.String() + ")" })
		},
		OnMeasurementDone: func(_ context.Context, e *domain.SignalEvent) {
			s.update(e, func(r *Row) { r.Duration = e.Duration })
		},
		OnCaptureDone: func(_ context.Context, e *domain.SignalEvent) {
			s.update(e, func(r *Row) {
				if e.Capture.Skipped {
					r.Outcome = OutcomeSpectral
					return
				}
				r.Outcome = OutcomeCaptured
				r.Path = e.Capture.Path
			})
		},
	}
}

func (s *Summary) update(e *domain.SignalEvent, fn func(*Row)) {
	for i := len(s.rows) - 1; i >= 0; i-- {
		r := &s.rows[i]
		if r.Signal == e.Signal && r.Personality == e.Personality {
			fn(r)
			return
		}
	}
}

// Markdown renders the summary as a markdown table.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("# Capture summary\n\n")
	if len(s.rows) == 0 {
		b.WriteString("No signal configurations were handled.\n")
		return b.String()
	}

	b.WriteString("| # | Signal | Personality | Outcome | Measurement | File |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	captured := 0
	for i, r := range s.rows {
		measured := "-"
		if r.Duration > 0 {
			measured = r.Duration.Round(time.Millisecond).String()
		}
		file := "-"
		if r.Path != "" {
			file = filepath.Base(r.Path)
			captured++
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			i+1, cell(r.Signal), cell(r.Personality.String()), r.Outcome, measured, cell(file))
	}
	fmt.Fprintf(&b, "\n%d of %d signal(s) captured.\n", captured, len(s.rows))
	return b.String()
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
