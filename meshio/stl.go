package meshio

import (
	"fmt"

	"github.com/hschendel/stl"
	"github.com/soypat/isoptic"
	"github.com/soypat/isoptic/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// ReadSTL reads an ASCII or binary STL file into an indexed mesh. STL files
// store every triangle separately so coincident vertices are welded.
func ReadSTL(path string) (isoptic.Mesh, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return isoptic.Mesh{}, err
	}
	if len(solid.Triangles) == 0 {
		return isoptic.Mesh{}, fmt.Errorf("%s: STL solid %q has no triangles", path, solid.Name)
	}
	model := make([]render.Triangle3, len(solid.Triangles))
	for i, t := range solid.Triangles {
		for j, v := range t.Vertices {
			model[i][j] = r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
		}
	}
	return Weld(model, 0), nil
}
