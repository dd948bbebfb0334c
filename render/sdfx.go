package render

import (
	"errors"
	"io"

	sdfxrender "github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/soypat/isoptic"
	"gonum.org/v1/gonum/spatial/r3"
)

var _ sdf.SDF3 = sdfxField{}

// sdfxField presents a field to sdfx as a signed distance function whose
// interior is the region where the field is above level.
type sdfxField struct {
	s     isoptic.Field
	level float64
	bb    sdf.Box3
}

func (f sdfxField) Evaluate(p v3.Vec) float64 {
	return f.level - f.s.Evaluate(r3.Vec{X: p.X, Y: p.Y, Z: p.Z})
}

func (f sdfxField) BoundingBox() sdf.Box3 { return f.bb }

// sdfxRenderer renders a field with sdfx's uniform marching cubes.
type sdfxRenderer struct {
	field     sdfxField
	mc        *sdfxrender.MarchingCubesUniform
	done      bool
	unwritten triangle3Buffer
}

// NewSDFXRenderer returns a renderer of the surface where s equals level
// using the uniform marching cubes implementation of github.com/deadsy/sdfx.
// meshCells is the number of cells along the longest axis of s.Bounds().
// sdfx evaluates the field point-wise, the whole surface is produced on
// the first call to ReadTriangles.
func NewSDFXRenderer(s isoptic.Field, level float64, meshCells int) (Renderer, error) {
	if s == nil {
		return nil, errors.New("nil field")
	}
	if meshCells < 2 {
		return nil, errors.New("meshCells must be 2 or larger")
	}
	bb := s.Bounds()
	return &sdfxRenderer{
		field: sdfxField{
			s:     s,
			level: level,
			bb: sdf.Box3{
				Min: v3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
				Max: v3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
			},
		},
		mc: sdfxrender.NewMarchingCubesUniform(meshCells),
	}, nil
}

func (r *sdfxRenderer) ReadTriangles(dst []Triangle3) (int, error) {
	if !r.done {
		r.done = true
		for _, t := range sdfxrender.ToTriangles(r.field, r.mc) {
			r.unwritten.Write([]Triangle3{{fromV3(t[0]), fromV3(t[1]), fromV3(t[2])}})
		}
	}
	if r.unwritten.Len() == 0 {
		return 0, io.EOF
	}
	return r.unwritten.Read(dst), nil
}

func fromV3(v v3.Vec) r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }
