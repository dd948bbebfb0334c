package meshio

import (
	"github.com/soypat/isoptic"
	"github.com/soypat/isoptic/render"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var _ kdtree.Comparable = weldVertex{}

// weldVertex is a mesh vertex stored in a kd-tree during welding.
type weldVertex struct {
	pos r3.Vec
	idx int
}

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
func (a weldVertex) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	q := b.(weldVertex)
	switch d {
	case 0:
		return a.pos.X - q.pos.X
	case 1:
		return a.pos.Y - q.pos.Y
	case 2:
		return a.pos.Z - q.pos.Z
	}
	panic("illegal dimension")
}

// Dims returns the number of dimensions described in the Comparable.
func (a weldVertex) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between the receiver and
// the parameter.
func (a weldVertex) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.pos, b.(weldVertex).pos))
}

// Weld builds an indexed mesh from a triangle soup. Vertices within tol of
// an already indexed vertex are merged with it; tol of zero merges only
// identical vertices. Triangles which collapse after welding are dropped.
func Weld(model []render.Triangle3, tol float64) isoptic.Mesh {
	var (
		tree kdtree.Tree
		m    isoptic.Mesh
	)
	tol2 := tol * tol
	index := func(v r3.Vec) int {
		q := weldVertex{pos: v}
		if tree.Root != nil {
			got, dist2 := tree.Nearest(q)
			if dist2 <= tol2 {
				return got.(weldVertex).idx
			}
		}
		q.idx = len(m.Points)
		m.Points = append(m.Points, v)
		tree.Insert(q, false)
		return q.idx
	}
	m.Triangles = make([][3]int, 0, len(model))
	for _, t := range model {
		tri := [3]int{index(t[0]), index(t[1]), index(t[2])}
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[2] == tri[0] {
			continue
		}
		m.Triangles = append(m.Triangles, tri)
	}
	return m
}

// Triangles expands the indexed mesh m into a triangle soup.
func Triangles(m isoptic.Mesh) []render.Triangle3 {
	model := make([]render.Triangle3, len(m.Triangles))
	for i := range m.Triangles {
		model[i] = render.Triangle3(m.Triangle(i))
	}
	return model
}
