// Package meshio reads and writes triangle meshes in the Wavefront OBJ and
// STL file formats.
package meshio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/soypat/isoptic"
	"github.com/soypat/isoptic/render"
)

// Load reads the mesh at path. The format is chosen by file extension,
// .obj or .stl.
func Load(path string) (isoptic.Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		fp, err := os.Open(path)
		if err != nil {
			return isoptic.Mesh{}, err
		}
		defer fp.Close()
		m, err := ReadOBJ(fp)
		if err != nil {
			return isoptic.Mesh{}, fmt.Errorf("%s: %w", path, err)
		}
		return m, nil
	case ".stl":
		return ReadSTL(path)
	default:
		return isoptic.Mesh{}, fmt.Errorf("unsupported mesh format %q", ext)
	}
}

// Save writes the triangles of model to path. OBJ output is welded into an
// indexed mesh, STL output is written as binary STL. Triangles with
// coincident vertices are dropped from both.
func Save(path string, model []render.Triangle3) error {
	if len(model) == 0 {
		return errors.New("no triangles to save")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".obj" && ext != ".stl" {
		return fmt.Errorf("unsupported mesh format %q", ext)
	}
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	model = nonDegenerate(model)
	if ext == ".stl" {
		err = render.WriteSTL(fp, model)
	} else {
		err = WriteOBJ(fp, Weld(model, 0))
	}
	if err != nil {
		return err
	}
	return fp.Close()
}

// nonDegenerate returns the triangles of model with three distinct vertices.
func nonDegenerate(model []render.Triangle3) []render.Triangle3 {
	kept := make([]render.Triangle3, 0, len(model))
	for _, t := range model {
		if !t.Degenerate(0) {
			kept = append(kept, t)
		}
	}
	return kept
}
