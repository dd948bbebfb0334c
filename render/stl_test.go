package render_test

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/isoptic"
	"github.com/soypat/isoptic/render"
)

func TestSTLCreateWrite(t *testing.T) {
	iso := tetraIsoptic(t, isoptic.Convex)
	path := filepath.Join(t.TempDir(), "isoptic.stl")
	g, err := render.NewGridRenderer(iso, iso.Level, iso.Resolution)
	if err != nil {
		t.Fatal(err)
	}
	err = render.CreateSTL(path, g)
	if err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	model, err := render.Isosurface(iso, 1)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	err = render.WriteSTL(&b, model)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != len(bfile) {
		t.Fatalf("WriteSTL and CreateSTL output length mismatch: %d != %d", b.Len(), len(bfile))
	}
	if !bytes.Equal(b.Bytes(), bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}
	if want := 84 + 50*len(model); len(bfile) != want {
		t.Errorf("got STL of %d bytes, want %d", len(bfile), want)
	}
}

func TestWriteSTLEmpty(t *testing.T) {
	var b bytes.Buffer
	if err := render.WriteSTL(&b, nil); err == nil {
		t.Error("expected error writing empty model")
	}
}

func TestSTLToPNG(t *testing.T) {
	iso := tetraIsoptic(t, isoptic.Convex)
	model, err := render.Isosurface(iso, 2)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	stlPath := filepath.Join(dir, "isoptic.stl")
	fp, err := os.Create(stlPath)
	if err != nil {
		t.Fatal(err)
	}
	err = render.WriteSTL(fp, model)
	fp.Close()
	if err != nil {
		t.Fatal(err)
	}
	view := render.DefaultView()
	view.Width, view.Height, view.Scale = 64, 48, 1
	pngPath := filepath.Join(dir, "isoptic.png")
	err = render.STLToPNG(stlPath, pngPath, view)
	if err != nil {
		t.Fatal(err)
	}
	fp, err = os.Open(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	img, err := png.Decode(fp)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("got image size %v, want 64x48", b.Size())
	}
}
