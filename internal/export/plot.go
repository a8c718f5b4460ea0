// Package export renders stored runs as image files.
package export

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/metrics"
)

var (
	potentialColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	kineticColor   = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	totalColor     = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
)

// EnergyPlot draws per-atom Epot, Ekin and Etot against step. The format
// follows the file extension (.png, .svg, .pdf, ...).
func EnergyPlot(path, title string, records []metrics.Record) error {
	if len(records) == 0 {
		return fmt.Errorf("%w: no energy samples to plot", dynamo.ErrInvalidState)
	}

	epot := make(plotter.XYs, len(records))
	ekin := make(plotter.XYs, len(records))
	etot := make(plotter.XYs, len(records))
	for i, r := range records {
		x := float64(r.Step)
		epot[i] = plotter.XY{X: x, Y: r.PotentialPerAtom}
		ekin[i] = plotter.XY{X: x, Y: r.KineticPerAtom}
		etot[i] = plotter.XY{X: x, Y: r.TotalPerAtom}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "step"
	p.Y.Label.Text = "energy per atom (eV)"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	for _, s := range []struct {
		name string
		xys  plotter.XYs
		c    color.Color
	}{
		{"Epot", epot, potentialColor},
		{"Ekin", ekin, kineticColor},
		{"Etot", etot, totalColor},
	} {
		l, err := plotter.NewLine(s.xys)
		if err != nil {
			return fmt.Errorf("%w: %s series: %w", dynamo.ErrInvalidState, s.name, err)
		}
		l.LineStyle.Color = s.c
		l.LineStyle.Width = vg.Points(1.5)
		p.Add(l)
		p.Legend.Add(s.name, l)
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("%w: save plot: %w", dynamo.ErrIO, err)
	}
	return nil
}
