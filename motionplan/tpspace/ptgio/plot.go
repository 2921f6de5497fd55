package ptgio

import (
	"fmt"
	"image/color"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"go.viam.com/ptgnav/motionplan/tpspace"
)

const (
	defaultPlotSize     = 6 * vg.Inch
	defaultDecimateDist = 0.05 // meters
)

// PlotOptions selects what PlotPaths draws.
type PlotOptions struct {
	Title string
	// Indices are the trajectories to draw. Empty means every trajectory.
	Indices []uint
	// DecimateDist is the minimum spacing between drawn points, in meters.
	DecimateDist float64
	// MaxDist cuts every path at this many meters when > 0.
	MaxDist float64
	// Obstacles are drawn as points on top of the paths.
	Obstacles []r2.Point
	Size      vg.Length
}

// PlotPaths renders trajectories of ptg into file. The image format follows the file extension, e.g. .png or .svg.
func PlotPaths(ptg tpspace.PTG, file string, opts PlotOptions) error {
	if opts.DecimateDist <= 0 {
		opts.DecimateDist = defaultDecimateDist
	}
	if opts.Size <= 0 {
		opts.Size = defaultPlotSize
	}
	indices := opts.Indices
	if len(indices) == 0 {
		for k := uint(0); k < ptg.AlphaCount(); k++ {
			indices = append(indices, k)
		}
	}

	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = ptg.Description()
	}
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"
	p.Add(plotter.NewGrid())

	colors := pathColors(len(indices))
	for i, k := range indices {
		path, err := tpspace.SimplePath(ptg, k, opts.DecimateDist, opts.MaxDist)
		if err != nil {
			return err
		}
		pts := make(plotter.XYs, 0, len(path))
		for _, pt := range path {
			pts = append(pts, plotter.XY{X: pt.X, Y: pt.Y})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrapf(err, "failed to draw trajectory %d", k)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		if len(opts.Indices) > 0 {
			p.Legend.Add(fmt.Sprintf("k=%d", k), line)
		}
	}

	if len(opts.Obstacles) > 0 {
		pts := make(plotter.XYs, 0, len(opts.Obstacles))
		for _, obs := range opts.Obstacles {
			pts = append(pts, plotter.XY{X: obs.X, Y: obs.Y})
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return errors.Wrap(err, "failed to draw obstacles")
		}
		scatter.GlyphStyle.Shape = draw.CrossGlyph{}
		scatter.GlyphStyle.Color = color.RGBA{R: 200, A: 255}
		p.Add(scatter)
		p.Legend.Add("obstacles", scatter)
	}
	p.Legend.Top = true

	if err := p.Save(opts.Size, opts.Size, file); err != nil {
		return errors.Wrapf(err, "failed to save plot %q", file)
	}
	return nil
}

// pathColors spreads n colors from blue to green around the hue wheel.
func pathColors(n int) []color.Color {
	colors := make([]color.Color, n)
	for i := range colors {
		frac := 0.
		if n > 1 {
			frac = float64(i) / float64(n-1)
		}
		colors[i] = color.RGBA{
			R: uint8(40 + 60*frac),
			G: uint8(60 + 160*frac),
			B: uint8(220 - 160*frac),
			A: 255,
		}
	}
	return colors
}
