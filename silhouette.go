package isoptic

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// NormalSet holds, for every vertex of a mesh, the unit normals of the
// triangles incident to it in triangle order. Normals are not averaged or
// deduplicated since silhouette classification needs the orientation of
// each individual face.
type NormalSet [][]r3.Vec

// BuildNormals returns the per-vertex incident face normals of m. The normal
// of a triangle a,b,c is the unit vector along (b-a)×(c-a).
func BuildNormals(m Mesh) NormalSet {
	normals := make(NormalSet, len(m.Points))
	for _, tri := range m.Triangles {
		n := faceNormal(m.Points[tri[0]], m.Points[tri[1]], m.Points[tri[2]])
		for _, idx := range tri {
			normals[idx] = append(normals[idx], n)
		}
	}
	return normals
}

type facing uint8

const (
	facingUnset facing = iota
	facingAway
	facingToward
)

// IsSilhouette reports whether the vertex at position vertex with incident
// face normals lies on the outline of the mesh as seen from q. A vertex
// with a single incident face is always on the outline. Otherwise the vertex
// is on the outline when its incident faces do not all share the same
// orientation with respect to the view direction vertex-q. The walk stops
// at the first change of orientation.
func IsSilhouette(vertex r3.Vec, normals []r3.Vec, q r3.Vec) bool {
	if len(normals) == 1 {
		return true
	}
	u := r3.Sub(vertex, q)
	state := facingUnset
	for _, n := range normals {
		current := facingToward
		if r3.Dot(n, u) < 0 {
			current = facingAway
		}
		if state != facingUnset && state != current {
			return true
		}
		state = current
	}
	return false
}

// SilhouetteVertices returns the indices of the vertices of m that lie on
// the outline of m as seen from p, in ascending order. normals must be the
// result of BuildNormals(m).
func SilhouetteVertices(m Mesh, normals NormalSet, p r3.Vec) []int {
	var silhouette []int
	for i, v := range m.Points {
		if IsSilhouette(v, normals[i], p) {
			silhouette = append(silhouette, i)
		}
	}
	return silhouette
}

// SilhouetteExtent returns the largest angle in radians between any two
// silhouette vertices of m as seen from p. It generalizes the visual angle
// to meshes that are not convex. The result is zero when there are fewer
// than two silhouette vertices.
func SilhouetteExtent(m Mesh, normals NormalSet, p r3.Vec) float64 {
	return maxPairAngle(m.Points, SilhouetteVertices(m, normals, p), p)
}

// maxPairAngle returns the largest angle subtended at p by two of the
// indexed points. Every ordered pair is visited, self pairs included, which
// contribute zero.
func maxPairAngle(points []r3.Vec, indices []int, p r3.Vec) float64 {
	dirs := make([]r3.Vec, len(indices))
	for i, idx := range indices {
		dirs[i] = r3.Unit(r3.Sub(points[idx], p))
	}
	var result float64
	for _, d1 := range dirs {
		for _, d2 := range dirs {
			if angle := acos(r3.Dot(d1, d2)); angle > result {
				result = angle
			}
		}
	}
	return result
}

// SilhouetteField is the isoptic field of meshes that need not be convex:
// the angular extent of the silhouette of Mesh. Normals must be built from
// Mesh before the field is evaluated. The field is safe for concurrent use.
type SilhouetteField struct {
	Mesh    Mesh
	Normals NormalSet
	Box     r3.Box
}

var _ Field = SilhouetteField{}

// Evaluate returns the silhouette angular extent at p.
func (f SilhouetteField) Evaluate(p r3.Vec) float64 {
	return SilhouetteExtent(f.Mesh, f.Normals, p)
}

// Bounds returns the sampling domain of the field.
func (f SilhouetteField) Bounds() r3.Box { return f.Box }
