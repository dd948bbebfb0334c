package isoptic

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Angle returns the solid angle in steradians subtended by the closed mesh m
// as seen from p. Each triangle contributes its spherical excess when
// projected onto the unit sphere centered at p, following
// G. Csima, J. Szirmai: Isoptic surfaces of polyhedra. CAGD 47, pp. 55-60, 2016.
//
// Seen from outside a closed convex mesh both the front and the back faces
// cover the silhouette so the summed excess is halved. The result lies in
// [0, 4π] for convex meshes and points off the surface.
//
// Angle does not guard against p lying on a mesh vertex or on the line of a
// mesh edge: the result is NaN in that case.
func Angle(m Mesh, p r3.Vec) float64 {
	var sum float64
	for _, tri := range m.Triangles {
		sum += sphericalExcess([3]r3.Vec{
			r3.Sub(m.Points[tri[0]], p),
			r3.Sub(m.Points[tri[1]], p),
			r3.Sub(m.Points[tri[2]], p),
		})
	}
	return sum / 2
}

// sphericalExcess returns the area of the spherical triangle formed by
// projecting the vectors of tri onto the unit sphere. The exterior angle at
// each corner is the angle between the normals of the planes spanned by the
// corner and its two neighbours.
func sphericalExcess(tri [3]r3.Vec) float64 {
	omega := tau
	for j := 0; j < 3; j++ {
		v := tri[j]
		vPrev := tri[(j+2)%3]
		vNext := tri[(j+1)%3]
		c1 := r3.Unit(r3.Cross(vPrev, v))
		c2 := r3.Unit(r3.Cross(v, vNext))
		omega -= acos(r3.Dot(c1, c2))
	}
	return omega
}

// SolidAngleField is the isoptic field of convex meshes: the solid angle
// subtended by Mesh. It holds no state beyond its inputs and is safe
// for concurrent use.
type SolidAngleField struct {
	Mesh Mesh
	Box  r3.Box
}

var _ Field = SolidAngleField{}

// Evaluate returns the solid angle subtended by the mesh at p.
func (f SolidAngleField) Evaluate(p r3.Vec) float64 { return Angle(f.Mesh, p) }

// Bounds returns the sampling domain of the field.
func (f SolidAngleField) Bounds() r3.Box { return f.Box }
