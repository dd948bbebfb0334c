package isoptic

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an indexed triangle mesh. Each triangle holds three indices
// into Points. A Mesh is never modified by the field evaluators so it may
// be shared between goroutines once built.
type Mesh struct {
	Points    []r3.Vec
	Triangles [][3]int
}

// Validate checks the mesh is non-empty and that every triangle index
// references an existing point.
func (m Mesh) Validate() error {
	if len(m.Points) == 0 {
		return errors.New("mesh has no points")
	}
	if len(m.Triangles) == 0 {
		return errors.New("mesh has no triangles")
	}
	for i, tri := range m.Triangles {
		for _, idx := range tri {
			if idx < 0 || idx >= len(m.Points) {
				return fmt.Errorf("triangle %d: index %d out of range [0,%d)", i, idx, len(m.Points))
			}
		}
	}
	return nil
}

// Triangle returns the vertex positions of the ith triangle.
func (m Mesh) Triangle(i int) [3]r3.Vec {
	tri := m.Triangles[i]
	return [3]r3.Vec{m.Points[tri[0]], m.Points[tri[1]], m.Points[tri[2]]}
}

// faceNormal returns the unit normal of the triangle a,b,c following the
// right hand rule.
func faceNormal(a, b, c r3.Vec) r3.Vec {
	return r3.Unit(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
}
