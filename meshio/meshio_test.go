package meshio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soypat/isoptic"
	"github.com/soypat/isoptic/render"
	"gonum.org/v1/gonum/spatial/r3"
)

const tetraOBJ = `# regular tetrahedron
o tetra
v 1 1 1
v 1 -1 -1
v -1 1 -1
v -1 -1 1
vn 0 0 1
f 1 2 3
f 1 4 2
f 1 3 4
f 2 4 3
`

func tetrahedron() isoptic.Mesh {
	return isoptic.Mesh{
		Points: []r3.Vec{
			{X: 1, Y: 1, Z: 1},
			{X: 1, Y: -1, Z: -1},
			{X: -1, Y: 1, Z: -1},
			{X: -1, Y: -1, Z: 1},
		},
		Triangles: [][3]int{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}},
	}
}

func equalMesh(a, b isoptic.Mesh) bool {
	if len(a.Points) != len(b.Points) || len(a.Triangles) != len(b.Triangles) {
		return false
	}
	for i := range a.Points {
		if a.Points[i] != b.Points[i] {
			return false
		}
	}
	for i := range a.Triangles {
		if a.Triangles[i] != b.Triangles[i] {
			return false
		}
	}
	return true
}

func TestReadOBJ(t *testing.T) {
	m, err := ReadOBJ(strings.NewReader(tetraOBJ))
	if err != nil {
		t.Fatal(err)
	}
	if !equalMesh(m, tetrahedron()) {
		t.Errorf("got mesh %+v", m)
	}
}

func TestOBJRoundTrip(t *testing.T) {
	want := isoptic.Mesh{
		Points:    []r3.Vec{{X: 0.1, Y: -2.5e-7, Z: 3}, {X: 1. / 3}, {Y: 1e10}},
		Triangles: [][3]int{{0, 1, 2}, {2, 1, 0}},
	}
	var b bytes.Buffer
	if err := WriteOBJ(&b, want); err != nil {
		t.Fatal(err)
	}
	got, err := ReadOBJ(&b)
	if err != nil {
		t.Fatal(err)
	}
	if !equalMesh(got, want) {
		t.Errorf("got mesh %+v, want %+v", got, want)
	}
}

func TestReadOBJFaces(t *testing.T) {
	const obj = `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0 1.0
f 1/1/1 2/2/2 3//3 4
f -4 -2 -1
`
	m, err := ReadOBJ(strings.NewReader(obj))
	if err != nil {
		t.Fatal(err)
	}
	want := [][3]int{{0, 1, 2}, {0, 2, 3}, {0, 2, 3}}
	if len(m.Triangles) != len(want) {
		t.Fatalf("got triangles %v, want %v", m.Triangles, want)
	}
	for i := range want {
		if m.Triangles[i] != want[i] {
			t.Fatalf("got triangles %v, want %v", m.Triangles, want)
		}
	}
}

func TestReadOBJErrors(t *testing.T) {
	for _, test := range []struct {
		obj  string
		line string
	}{
		{obj: "v 1 2\n", line: "line 1"},
		{obj: "v 0 0 0\nv 1 0 0\nv x 0 0\n", line: "line 3"},
		{obj: "v 0 0 0\nv 1 0 0\nv 0 1 0\n\nf 1 2\n", line: "line 5"},
		{obj: "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", line: "line 4"},
		{obj: "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", line: "line 4"},
		{obj: "v 0 0 0\nf 1 -2 1\n", line: "line 2"},
	} {
		_, err := ReadOBJ(strings.NewReader(test.obj))
		if err == nil {
			t.Errorf("%q: expected error", test.obj)
			continue
		}
		if !strings.Contains(err.Error(), test.line) {
			t.Errorf("%q: error %q does not mention %s", test.obj, err, test.line)
		}
	}
}

func TestWeld(t *testing.T) {
	model := Triangles(tetrahedron())
	m := Weld(model, 0)
	if !equalMesh(m, tetrahedron()) {
		t.Errorf("welding an exact soup: got %+v", m)
	}
	// Vertices closer than the tolerance merge.
	model[3][0] = r3.Add(model[3][0], r3.Vec{X: 1e-7})
	if m = Weld(model, 0); len(m.Points) != 5 {
		t.Errorf("got %d points without tolerance, want 5", len(m.Points))
	}
	if m = Weld(model, 1e-6); len(m.Points) != 4 {
		t.Errorf("got %d points with tolerance, want 4", len(m.Points))
	}
	// Triangles collapsing to an edge are dropped.
	model = append(model, render.Triangle3{{X: 5}, {X: 5}, {Y: 5}})
	if m = Weld(model, 1e-6); len(m.Triangles) != 4 {
		t.Errorf("got %d triangles, want 4", len(m.Triangles))
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	model := Triangles(tetrahedron())
	for _, name := range []string{"tetra.obj", "tetra.STL"} {
		path := filepath.Join(dir, name)
		if err := Save(path, model); err != nil {
			t.Fatal(err)
		}
		m, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		// Coordinates are small integers, exact in float32.
		if !equalMesh(m, tetrahedron()) {
			t.Errorf("%s: got mesh %+v", name, m)
		}
	}
	if err := Save(filepath.Join(dir, "tetra.ply"), model); err == nil {
		t.Error("expected error for unknown extension")
	}
	if err := Save(filepath.Join(dir, "empty.obj"), nil); err == nil {
		t.Error("expected error saving no triangles")
	}
	if _, err := Load(filepath.Join(dir, "tetra.3mf")); err == nil {
		t.Error("expected error for unknown extension")
	}
	if _, err := Load(filepath.Join(dir, "missing.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveDropsDegenerate(t *testing.T) {
	dir := t.TempDir()
	model := Triangles(tetrahedron())
	model = append(model,
		render.Triangle3{{X: 5}, {X: 5}, {Y: 5}},
		render.Triangle3{{Z: 2}, {X: 1}, {Z: 2}},
	)
	for _, name := range []string{"tetra.stl", "tetra.obj"} {
		path := filepath.Join(dir, name)
		if err := Save(path, model); err != nil {
			t.Fatal(err)
		}
		m, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(m.Triangles) != 4 {
			t.Errorf("%s: got %d triangles, want 4", name, len(m.Triangles))
		}
	}
	collapsed := []render.Triangle3{{{X: 1}, {X: 1}, {X: 1}}}
	if err := Save(filepath.Join(dir, "collapsed.stl"), collapsed); err == nil {
		t.Error("expected error saving only degenerate triangles")
	}
}

func TestReadSTLASCII(t *testing.T) {
	const ascii = `solid tri
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 1 0 0
    vertex 0 1 0
  endloop
endfacet
facet normal 0 0 1
  outer loop
    vertex 1 0 0
    vertex 1 1 0
    vertex 0 1 0
  endloop
endfacet
endsolid tri
`
	path := filepath.Join(t.TempDir(), "quad.stl")
	if err := os.WriteFile(path, []byte(ascii), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := ReadSTL(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Points) != 4 || len(m.Triangles) != 2 {
		t.Errorf("got %d points and %d triangles, want 4 and 2", len(m.Points), len(m.Triangles))
	}
}
