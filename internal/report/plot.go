package report

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ayusman/roitrack/internal/results"
)

// ErrNothingToPlot is returned when no frame was tracked successfully.
var ErrNothingToPlot = errors.New("no tracked frames to plot")

var (
	centerXColor = color.RGBA{R: 0, G: 114, B: 178, A: 255}
	centerYColor = color.RGBA{R: 213, G: 94, B: 0, A: 255}
	failureColor = color.RGBA{R: 200, G: 0, B: 0, A: 255}
)

// Trajectory writes a PNG (or any format gonum/plot infers from the
// extension) with the box centre x and y over frame ID. Failed frames are
// marked along the x axis.
func Trajectory(records []results.Record, title, path string) error {
	xs := make(plotter.XYs, 0, len(records))
	ys := make(plotter.XYs, 0, len(records))
	var failed plotter.XYs

	for _, r := range records {
		if !r.OK {
			failed = append(failed, plotter.XY{X: float64(r.FrameID), Y: 0})
			continue
		}
		cx, cy := r.Center()
		xs = append(xs, plotter.XY{X: float64(r.FrameID), Y: cx})
		ys = append(ys, plotter.XY{X: float64(r.FrameID), Y: cy})
	}

	if len(xs) == 0 {
		return ErrNothingToPlot
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Pixels"

	xLine, err := plotter.NewLine(xs)
	if err != nil {
		return err
	}
	xLine.Color = centerXColor
	xLine.Width = vg.Points(1)
	p.Add(xLine)
	p.Legend.Add("centre x", xLine)

	yLine, err := plotter.NewLine(ys)
	if err != nil {
		return err
	}
	yLine.Color = centerYColor
	yLine.Width = vg.Points(1)
	p.Add(yLine)
	p.Legend.Add("centre y", yLine)

	if len(failed) > 0 {
		marks, err := plotter.NewScatter(failed)
		if err != nil {
			return err
		}
		marks.GlyphStyle.Color = failureColor
		marks.GlyphStyle.Shape = draw.CrossGlyph{}
		p.Add(marks)
		p.Legend.Add("failure", marks)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save trajectory plot: %w", err)
	}
	return nil
}
