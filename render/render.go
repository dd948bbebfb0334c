package render

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer produces the triangles of a surface incrementally.
type Renderer interface {
	// ReadTriangles writes triangles into dst and returns the number
	// written. It returns io.EOF once the surface has been fully read.
	ReadTriangles(dst []Triangle3) (int, error)
}

// Triangle3 is a triangle in 3D space. Its front face is the one whose
// vertices are counter clockwise when viewed.
type Triangle3 [3]r3.Vec

// Normal returns the unit normal of the triangle.
func (t Triangle3) Normal() r3.Vec {
	return r3.Unit(t.cross())
}

// Degenerate returns true if two vertices of the triangle are within tol
// of one another.
func (t Triangle3) Degenerate(tol float64) bool {
	return r3.Norm(r3.Sub(t[0], t[1])) <= tol ||
		r3.Norm(r3.Sub(t[1], t[2])) <= tol ||
		r3.Norm(r3.Sub(t[2], t[0])) <= tol
}

func (t Triangle3) cross() r3.Vec {
	return r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
}
