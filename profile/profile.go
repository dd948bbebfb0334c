// Package profile plots isoptic fields along rays.
package profile

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/isoptic"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Sample evaluates f at n evenly spaced points of the ray starting at origin
// with direction dir, up to a distance length. X of each returned point is
// the distance from origin, Y the field value. Points where the field is not
// finite are omitted.
func Sample(f isoptic.Field, origin, dir r3.Vec, length float64, n int) (plotter.XYs, error) {
	if n < 2 {
		return nil, errors.New("need at least 2 samples")
	}
	if !(length > 0) {
		return nil, fmt.Errorf("ray length must be positive, got %g", length)
	}
	if r3.Norm(dir) == 0 {
		return nil, errors.New("zero ray direction")
	}
	dir = r3.Unit(dir)
	xys := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		t := length * float64(i) / float64(n-1)
		v := f.Evaluate(r3.Add(origin, r3.Scale(t, dir)))
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: t, Y: v})
	}
	if len(xys) == 0 {
		return nil, errors.New("field undefined along the whole ray")
	}
	return xys, nil
}

// Plot returns a plot of f along a ray together with a horizontal line at
// the isoptic level.
func Plot(f isoptic.Field, origin, dir r3.Vec, length float64, n int, level float64) (*plot.Plot, error) {
	xys, err := Sample(f, origin, dir, length, n)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = "Isoptic field profile"
	p.X.Label.Text = "distance"
	p.Y.Label.Text = "angle [rad]"
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	levelLine := plotter.NewFunction(func(float64) float64 { return level })
	levelLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(plotter.NewGrid(), line, levelLine)
	p.Legend.Add("field", line)
	p.Legend.Add(fmt.Sprintf("level %.4g", level), levelLine)
	return p, nil
}

// Save plots f along a ray and writes the image to path. The image format
// is chosen by the file extension (png, svg, pdf, ...).
func Save(path string, f isoptic.Field, origin, dir r3.Vec, length float64, n int, level float64) error {
	p, err := Plot(f, origin, dir, length, n, level)
	if err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
