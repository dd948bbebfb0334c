package isoptic

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/soypat/isoptic/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Field is the interface to a scalar field over 3D space together with the
// domain over which it is sampled.
type Field interface {
	// Evaluate returns the value of the field at p. Implementations must be
	// safe to call concurrently.
	Evaluate(p r3.Vec) float64
	// Bounds returns the box over which the field is sampled.
	Bounds() r3.Box
}

// Mode selects the field used to build an isoptic surface.
type Mode int

const (
	// Convex selects the solid angle field. Only meaningful for convex meshes.
	Convex Mode = iota
	// Concave selects the silhouette angular extent field.
	Concave
)

func (m Mode) String() string {
	switch m {
	case Convex:
		return "convex"
	case Concave:
		return "concave"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode returns the Mode named by s.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "convex", "angle", "":
		return Convex, nil
	case "concave", "silhouette":
		return Concave, nil
	}
	return 0, fmt.Errorf("unknown isoptic mode %q", s)
}

// BoundingBox returns the axis aligned box enclosing all points of m scaled
// about its center by scaling. Scaling greater than 1 enlarges the box.
// BoundingBox panics if m has no points.
func BoundingBox(m Mesh, scaling float64) r3.Box {
	if len(m.Points) == 0 {
		panic("bounding box of mesh without points")
	}
	pts := d3.Set(m.Points)
	bb := d3.Box{Min: pts.Min(), Max: pts.Max()}
	return r3.Box(bb.ScaleAboutCenter(scaling))
}

// Options configures the construction of an Isoptic.
type Options struct {
	Mode Mode
	// Scaling of the mesh bounding box that yields the sampling domain.
	Scaling float64
	// Resolution is the number of field samples along each axis.
	Resolution int
	// Angle is the visual angle of the surface in radians. In Convex mode
	// it is a solid angle in steradians.
	Angle float64
}

// DefaultOptions returns the options of a convex isoptic surface of angle
// π/2 sampled at 30 points per axis over a box 2.5 times the mesh size.
func DefaultOptions() Options {
	return Options{
		Mode:       Convex,
		Scaling:    DefaultScaling,
		Resolution: DefaultResolution,
		Angle:      DefaultAngle,
	}
}

// Isoptic binds a field evaluator to the level and sampling grid of an
// isoptic surface. It is itself a Field and is safe for concurrent use.
type Isoptic struct {
	Field Field
	// Level is the field value of the surface.
	Level float64
	// Resolution is the number of samples along each axis.
	Resolution [3]int
}

var _ Field = Isoptic{}

// New validates m and returns the isoptic surface description selected by
// opts. In Concave mode the per-vertex normal table is built here, before
// any evaluation takes place.
func New(m Mesh, opts Options) (Isoptic, error) {
	if err := m.Validate(); err != nil {
		return Isoptic{}, err
	}
	switch {
	case opts.Scaling <= 0 || math.IsNaN(opts.Scaling):
		return Isoptic{}, fmt.Errorf("bounding box scaling must be positive, got %g", opts.Scaling)
	case opts.Resolution < 2:
		return Isoptic{}, fmt.Errorf("resolution must be 2 or larger, got %d", opts.Resolution)
	case !(opts.Angle > 0):
		return Isoptic{}, errors.New("isoptic angle must be positive")
	}
	box := BoundingBox(m, opts.Scaling)
	var f Field
	switch opts.Mode {
	case Convex:
		f = SolidAngleField{Mesh: m, Box: box}
	case Concave:
		f = SilhouetteField{Mesh: m, Normals: BuildNormals(m), Box: box}
	default:
		return Isoptic{}, fmt.Errorf("unsupported %v", opts.Mode)
	}
	res := opts.Resolution
	return Isoptic{
		Field:      f,
		Level:      opts.Angle,
		Resolution: [3]int{res, res, res},
	}, nil
}

// Evaluate returns the value of the underlying field at p.
func (iso Isoptic) Evaluate(p r3.Vec) float64 { return iso.Field.Evaluate(p) }

// Bounds returns the sampling domain of the underlying field.
func (iso Isoptic) Bounds() r3.Box { return iso.Field.Bounds() }
