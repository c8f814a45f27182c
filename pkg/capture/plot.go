package capture

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"

	"github.com/aretw0/iqcapture/pkg/domain"
)

// maxPlotPoints caps the samples drawn per trace.
const maxPlotPoints = 4096

// PlotIQ draws the I and Q traces of the first record against time and saves a PNG.
func PlotIQ(path, title string, data domain.IQRecords, rate float64) error {
	if len(data) == 0 || len(data[0]) == 0 {
		return nil
	}
	record := data[0]
	if len(record) > maxPlotPoints {
		record = record[:maxPlotPoints]
	}

	in := make(plotter.XYs, len(record))
	quad := make(plotter.XYs, len(record))
	for i, s := range record {
		t := float64(i)
		if rate > 0 {
			t /= rate
		}
		in[i].X, in[i].Y = t, real(s)
		quad[i].X, quad[i].Y = t, imag(s)
	}

	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("creating plot: %w", err)
	}
	p.Title.Text = title
	p.X.Label.Text = "s"
	p.Y.Label.Text = "amplitude"

	li, err := plotter.NewLine(in)
	if err != nil {
		return fmt.Errorf("plotting I: %w", err)
	}
	li.Color = color.RGBA{R: 0x81, G: 0x8c, B: 0xf8, A: 255}

	lq, err := plotter.NewLine(quad)
	if err != nil {
		return fmt.Errorf("plotting Q: %w", err)
	}
	lq.Color = color.RGBA{R: 0xfb, G: 0x71, B: 0x85, A: 255}

	p.Add(li, lq)
	p.Legend.Add("I", li)
	p.Legend.Add("Q", lq)

	wt, err := p.WriterTo(1024, 384, "png")
	if err != nil {
		return fmt.Errorf("rendering plot: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("%w: writing %s: %w", domain.ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	return nil
}
