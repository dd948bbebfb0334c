package render

import (
	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// View configures the camera of a preview image.
type View struct {
	// LookAt is the point the camera looks at.
	LookAt r3.Vec
	// Up is the up direction of the camera.
	Up r3.Vec
	// Eye is the camera position.
	Eye       r3.Vec
	Near, Far float64
	// Width and Height of the image in pixels.
	Width, Height int
	// Supersampling factor for antialiasing.
	Scale int
}

// DefaultView looks at the origin from a corner with Z up. Models are
// scaled to fit a bi-unit cube before rendering so the view works for any
// model size.
func DefaultView() View {
	return View{
		Up:     r3.Vec{Z: 1},
		Eye:    r3.Vec{X: 3, Y: 3, Z: 3},
		Near:   1,
		Far:    10,
		Width:  768,
		Height: 432,
		Scale:  2,
	}
}

// STLToPNG renders the STL file at stlName to a PNG image at outputName.
func STLToPNG(stlName, outputName string, view View) error {
	mesh, err := fauxgl.LoadSTL(stlName)
	if err != nil {
		return err
	}
	const fovy = 30 // vertical field of view in degrees
	scale := view.Scale
	if scale < 1 {
		scale = 1
	}
	var (
		eye    = fauxgl.V(view.Eye.X, view.Eye.Y, view.Eye.Z)
		center = fauxgl.V(view.LookAt.X, view.LookAt.Y, view.LookAt.Z)
		up     = fauxgl.V(view.Up.X, view.Up.Y, view.Up.Z)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
		color  = fauxgl.HexColor("#468966")
	)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	context := fauxgl.NewContext(view.Width*scale, view.Height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(view.Width) / float64(view.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	image := context.Image()
	image = resize.Resize(uint(view.Width), uint(view.Height), image, resize.Bilinear)
	return fauxgl.SavePNG(outputName, image)
}
