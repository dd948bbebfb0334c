package d3

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Box is a 3d bounding box.
type Box r3.Box

// Equals test the equality of 3d boxes.
func (a Box) Equals(b Box, tol float64) bool {
	return EqualWithin(a.Min, b.Min, tol) && EqualWithin(a.Max, b.Max, tol)
}

// Size returns the size of a 3d box.
func (a Box) Size() r3.Vec {
	return r3.Sub(a.Max, a.Min)
}

// Center returns the center of a 3d box.
func (a Box) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(a.Min, a.Max))
}

// ScaleAboutCenter returns a new 3d box scaled about the center of a box.
// Each corner is moved to center + k*(corner-center). A factor of 1
// returns the box unchanged.
func (a Box) ScaleAboutCenter(k float64) Box {
	if k == 1 {
		return a
	}
	c := a.Center()
	return Box{
		Min: r3.Add(c, r3.Scale(k, r3.Sub(a.Min, c))),
		Max: r3.Add(c, r3.Scale(k, r3.Sub(a.Max, c))),
	}
}
