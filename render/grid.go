package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/soypat/isoptic"
	"github.com/soypat/isoptic/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultRefineSteps is the number of bisection steps used to place
	// surface vertices on the level set.
	DefaultRefineSteps = 32
	// maxCellTriangles is the most triangles marching tetrahedra can
	// produce from one grid cell: two for each of six tetrahedra.
	maxCellTriangles = 12
)

// kuhnTetrahedra splits a cell into six tetrahedra sharing the diagonal
// from corner 0 to corner 7. Corner bits 0, 1 and 2 are the x, y and z
// offsets. Every face diagonal runs from the face's lowest corner to its
// highest so neighbouring cells split shared faces identically.
var kuhnTetrahedra = [6][4]int{
	{0, 1, 3, 7},
	{0, 1, 5, 7},
	{0, 2, 3, 7},
	{0, 2, 6, 7},
	{0, 4, 5, 7},
	{0, 4, 6, 7},
}

type ivec struct {
	x int
	y int
	z int
}

func (a ivec) Add(b ivec) ivec { return ivec{x: a.x + b.x, y: a.y + b.y, z: a.z + b.z} }

// GridRenderer renders the level set of a field sampled on a uniform grid
// spanning the field bounds. Cells are split into tetrahedra which are
// polygonized with marching tetrahedra. The resulting mesh is closed where
// the level set does not reach the bounds.
type GridRenderer struct {
	// Workers is the number of goroutines sampling the field. Values below
	// 2 sample on the calling goroutine. Must be set before the first call
	// to ReadTriangles.
	Workers int
	// RefineSteps is the number of bisection steps taken along a cell edge to
	// locate a surface vertex. Zero places vertices by linear interpolation
	// of the samples.
	RefineSteps int

	s     isoptic.Field
	level float64
	box   d3.Box
	n     ivec // samples per axis.
	// values holds the field sampled at every grid node. nil until sampled.
	values []float64
	// edges caches surface vertices by the grid nodes of the edge they lie on
	// so that triangles of neighbouring tetrahedra share them exactly.
	edges map[[2]int]r3.Vec
	// jumps holds the surface vertices placed on a field discontinuity.
	jumps     []r3.Vec
	next      int // next cell to process.
	unwritten triangle3Buffer
	triangles int // triangles produced.
}

// NewGridRenderer returns a renderer of the surface where s equals level.
// samples is the number of grid nodes along each axis of s.Bounds(), at
// least 2 per axis.
func NewGridRenderer(s isoptic.Field, level float64, samples [3]int) (*GridRenderer, error) {
	if s == nil {
		return nil, errors.New("nil field")
	}
	for _, n := range samples {
		if n < 2 {
			return nil, fmt.Errorf("need at least 2 samples per axis, got %v", samples)
		}
	}
	bb := d3.Box(s.Bounds())
	size := bb.Size()
	if !(size.X > 0 && size.Y > 0 && size.Z > 0) || !d3.IsFinite(size) {
		return nil, fmt.Errorf("invalid sampling box %+v", bb)
	}
	return &GridRenderer{
		Workers:     1,
		RefineSteps: DefaultRefineSteps,
		s:           s,
		level:       level,
		box:         bb,
		n:           ivec{samples[0], samples[1], samples[2]},
		edges:       make(map[[2]int]r3.Vec),
	}, nil
}

// Isosurface returns the triangles of the isoptic surface iso, sampling its
// field with the given number of goroutines.
func Isosurface(iso isoptic.Isoptic, workers int) ([]Triangle3, error) {
	g, err := NewGridRenderer(iso, iso.Level, iso.Resolution)
	if err != nil {
		return nil, err
	}
	g.Workers = workers
	return RenderAll(g)
}

// ReadTriangles writes triangles rendered from the field into the argument buffer.
// returns number of triangles written and an error if present.
func (g *GridRenderer) ReadTriangles(dst []Triangle3) (n int, err error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	if g.values == nil {
		g.sample()
	}
	if g.unwritten.Len() > 0 {
		n += g.unwritten.Read(dst)
		if n == len(dst) {
			return n, nil
		}
	}
	cells := g.cells()
	if g.next >= cells {
		// Done rendering the surface.
		return n, io.EOF
	}
	var tmp [maxCellTriangles]Triangle3
	for g.next < cells && n < len(dst) {
		nt := g.processCell(tmp[:], g.next)
		g.next++
		written := copy(dst[n:], tmp[:nt])
		if written < nt {
			// Not enough room in buffer for all triangles of the cell.
			g.unwritten.Write(tmp[written:nt])
		}
		n += written
	}
	return n, nil
}

// sample evaluates the field at every grid node. Nodes are split among
// workers by z-slab so each worker writes a disjoint part of values.
func (g *GridRenderer) sample() {
	g.values = make([]float64, g.n.x*g.n.y*g.n.z)
	workers := g.Workers
	if workers > g.n.z {
		workers = g.n.z
	}
	if workers < 2 {
		for k := 0; k < g.n.z; k++ {
			g.sampleSlab(k)
		}
		return
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(first int) {
			defer wg.Done()
			for k := first; k < g.n.z; k += workers {
				g.sampleSlab(k)
			}
		}(w)
	}
	wg.Wait()
}

func (g *GridRenderer) sampleSlab(k int) {
	for j := 0; j < g.n.y; j++ {
		for i := 0; i < g.n.x; i++ {
			idx := g.node(ivec{i, j, k})
			g.values[idx] = g.s.Evaluate(g.position(idx))
		}
	}
}

// cells returns the number of grid cells.
func (g *GridRenderer) cells() int {
	return (g.n.x - 1) * (g.n.y - 1) * (g.n.z - 1)
}

// node returns the linear index of the grid node at v.
func (g *GridRenderer) node(v ivec) int {
	return v.x + g.n.x*(v.y+g.n.y*v.z)
}

// position returns the location in space of the grid node with linear index idx.
func (g *GridRenderer) position(idx int) r3.Vec {
	i := idx % g.n.x
	j := (idx / g.n.x) % g.n.y
	k := idx / (g.n.x * g.n.y)
	return r3.Vec{
		X: mix(g.box.Min.X, g.box.Max.X, float64(i)/float64(g.n.x-1)),
		Y: mix(g.box.Min.Y, g.box.Max.Y, float64(j)/float64(g.n.y-1)),
		Z: mix(g.box.Min.Z, g.box.Max.Z, float64(k)/float64(g.n.z-1)),
	}
}

// processCell writes the triangles of the cell with linear index c to dst.
func (g *GridRenderer) processCell(dst []Triangle3, c int) (written int) {
	cx, cy := g.n.x-1, g.n.y-1
	origin := ivec{x: c % cx, y: (c / cx) % cy, z: c / (cx * cy)}
	var corners [8]int
	for i := range corners {
		corners[i] = g.node(origin.Add(ivec{i & 1, (i >> 1) & 1, (i >> 2) & 1}))
	}
	for _, tet := range kuhnTetrahedra {
		written += g.marchTetrahedron(dst[written:], [4]int{
			corners[tet[0]], corners[tet[1]], corners[tet[2]], corners[tet[3]],
		})
	}
	g.triangles += written
	return written
}

// marchTetrahedron writes the triangles separating the nodes of tet above
// the level from those at or below it. Tetrahedra with an undefined sample
// produce no triangles.
func (g *GridRenderer) marchTetrahedron(dst []Triangle3, tet [4]int) int {
	var above, below [4]int
	na, nb := 0, 0
	for _, idx := range tet {
		v := g.values[idx]
		switch {
		case math.IsNaN(v):
			return 0
		case v > g.level:
			above[na] = idx
			na++
		default:
			below[nb] = idx
			nb++
		}
	}
	switch na {
	case 1:
		a := above[0]
		dst[0] = g.orient(Triangle3{g.crossing(a, below[0]), g.crossing(a, below[1]), g.crossing(a, below[2])}, above[:1], below[:3])
		return 1
	case 3:
		b := below[0]
		dst[0] = g.orient(Triangle3{g.crossing(above[0], b), g.crossing(above[1], b), g.crossing(above[2], b)}, above[:3], below[:1])
		return 1
	case 2:
		// The crossings form a quad a0-b0, a0-b1, a1-b1, a1-b0.
		p0 := g.crossing(above[0], below[0])
		p1 := g.crossing(above[0], below[1])
		p2 := g.crossing(above[1], below[1])
		p3 := g.crossing(above[1], below[0])
		dst[0] = g.orient(Triangle3{p0, p1, p2}, above[:2], below[:2])
		dst[1] = g.orient(Triangle3{p0, p2, p3}, above[:2], below[:2])
		return 2
	}
	return 0
}

// orient flips t if needed so its normal points from the nodes above the
// level towards the nodes below it.
func (g *GridRenderer) orient(t Triangle3, above, below []int) Triangle3 {
	var ca, cb r3.Vec
	for _, idx := range above {
		ca = r3.Add(ca, g.position(idx))
	}
	for _, idx := range below {
		cb = r3.Add(cb, g.position(idx))
	}
	dir := r3.Sub(r3.Scale(1/float64(len(below)), cb), r3.Scale(1/float64(len(above)), ca))
	if r3.Dot(t.cross(), dir) < 0 {
		t[1], t[2] = t[2], t[1]
	}
	return t
}

// Discontinuities returns the surface vertices rendered so far whose edge
// bracket did not converge onto the level during refinement. The field
// jumps across the level there instead of crossing it, as it does on the
// mesh surface and at mesh vertices, so these vertices do not evaluate to
// the level. They are kept so the output stays closed.
func (g *GridRenderer) Discontinuities() []r3.Vec {
	return g.jumps
}

// crossing returns the surface vertex on the edge between grid nodes a and
// b. Exactly one of the nodes must be above the level.
func (g *GridRenderer) crossing(a, b int) r3.Vec {
	if a > b {
		a, b = b, a
	}
	key := [2]int{a, b}
	if v, ok := g.edges[key]; ok {
		return v
	}
	pa, pb := g.position(a), g.position(b)
	fa, fb := g.values[a]-g.level, g.values[b]-g.level
	span := math.Abs(fa - fb)
	for i := 0; i < g.RefineSteps; i++ {
		pm := r3.Scale(0.5, r3.Add(pa, pb))
		fm := g.s.Evaluate(pm) - g.level
		if math.IsNaN(fm) {
			break
		}
		if (fm > 0) == (fa > 0) {
			pa, fa = pm, fm
		} else {
			pb, fb = pm, fm
		}
	}
	t := fa / (fa - fb)
	v := r3.Add(pa, r3.Scale(t, r3.Sub(pb, pa)))
	g.edges[key] = v
	// A continuous field shrinks the bracket's value span about as fast as
	// its length. Keeping more than 2^(-steps/2) of it means a jump.
	if g.RefineSteps > 0 && !(math.Abs(fa-fb) <= math.Ldexp(span, -g.RefineSteps/2)) {
		g.jumps = append(g.jumps, v)
	}
	return v
}

// mix does a linear interpolation from x to y, a = [0,1]
func mix(x, y, a float64) float64 {
	if a == 1 {
		return y
	}
	return x + (a * (y - x))
}
