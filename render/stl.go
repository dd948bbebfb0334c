package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	stlHeaderSize   = 84
	stlTriangleSize = 50
)

// CreateSTL renders the surface read from r into a binary STL file at path.
func CreateSTL(path string, r Renderer) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	// The triangle count is only known after rendering, header is written last.
	_, err = file.Seek(stlHeaderSize, io.SeekStart)
	if err != nil {
		return err
	}
	rd := &stlReader{r: r}
	n, err := io.CopyBuffer(file, rd, make([]byte, stlTriangleSize*trianglesInBuffer))
	if err != nil {
		return err
	}
	_, err = file.Seek(0, io.SeekStart)
	if err != nil {
		return err
	}
	header := stlHeader{Count: uint32(n / stlTriangleSize)}
	if err = binary.Write(file, binary.LittleEndian, &header); err != nil {
		return err
	}
	return file.Close()
}

// WriteSTL writes model triangles to a writer in binary STL file format.
func WriteSTL(w io.Writer, model []Triangle3) error {
	if len(model) == 0 {
		return errors.New("empty triangle slice")
	}
	header := stlHeader{Count: uint32(len(model))}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	var b [stlTriangleSize]byte
	for _, triangle := range model {
		newSTLTriangle(triangle).put(b[:])
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

// stlHeader defines the STL file header.
type stlHeader struct {
	_     [80]uint8 // Header
	Count uint32    // Number of triangles
}

const trianglesInBuffer = 1 << 10

// stlReader encodes triangles of a Renderer as STL triangle records.
type stlReader struct {
	r   Renderer
	buf [trianglesInBuffer]Triangle3
	err error
}

func (w *stlReader) Read(b []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	ntMax := min(len(b)/stlTriangleSize, len(w.buf))
	if ntMax == 0 {
		return 0, errors.New("stlReader requires at least 50 bytes to write a single triangle")
	}
	var nt int
	nt, w.err = w.r.ReadTriangles(w.buf[:ntMax])
	for i, triangle := range w.buf[:nt] {
		newSTLTriangle(triangle).put(b[i*stlTriangleSize:])
	}
	if nt > 0 && w.err == io.EOF {
		// Report the remaining triangles first, EOF on next call.
		return nt * stlTriangleSize, nil
	}
	return nt * stlTriangleSize, w.err
}

// readBinarySTL reads the triangles of a binary STL file.
func readBinarySTL(r io.Reader) (output []Triangle3, readErr error) {
	var header stlHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.New("encountered EOF while reading STL header")
		}
		return nil, errors.New("STL header read failed: " + err.Error())
	}
	if header.Count == 0 {
		return nil, errors.New("STL header indicates 0 triangles present")
	}
	var (
		buf [stlTriangleSize]byte
		d   stlTriangle
		i   int
	)
	defer func() {
		if readErr != nil && !softSTLError(readErr) {
			readErr = fmt.Errorf("%d/%d STL triangles read: %w", i+1, header.Count, readErr)
		}
	}()
	output = make([]Triangle3, 0, header.Count)
	for i = 0; i < int(header.Count); i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		d.get(buf[:])
		if err := d.validate(); err != nil {
			if !softSTLError(err) {
				return nil, err
			}
			// Fine triangles lose accuracy when stored as float32.
			readErr = err
		}
		output = append(output, d.toTriangle3())
	}
	return output, readErr
}

// stlTriangle defines the triangle data within an STL file.
type stlTriangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16 // Attribute byte count
}

func newSTLTriangle(t Triangle3) stlTriangle {
	return stlTriangle{
		Normal:  to3F32(t.Normal()),
		Vertex1: to3F32(t[0]),
		Vertex2: to3F32(t[1]),
		Vertex3: to3F32(t[2]),
	}
}

func (t stlTriangle) put(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need length 50 to marshal stlTriangle")
	}
	put3F32(b, t.Normal)
	put3F32(b[12:], t.Vertex1)
	put3F32(b[24:], t.Vertex2)
	put3F32(b[36:], t.Vertex3)
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func (t *stlTriangle) get(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need length 50 to unmarshal stlTriangle")
	}
	get3F32(b, &t.Normal)
	get3F32(b[12:], &t.Vertex1)
	get3F32(b[24:], &t.Vertex2)
	get3F32(b[36:], &t.Vertex3)
}

func to3F32(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

func get3F32(b []byte, f *[3]float32) {
	_ = b[11] // early bounds check
	f[0] = math.Float32frombits(binary.LittleEndian.Uint32(b))
	f[1] = math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
	f[2] = math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))
}

func bad3F32(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}

var (
	errCalculatedNormalMismatch = errors.New("triangle normal not approximately equal to calculated normal from vertices. Ignore this error if model is OK")
	// errDegenerate is returned for triangles whose vertices collapse when
	// stored as float32. The model remains usable.
	errDegenerate = errors.New("triangle is degenerate")
)

// softSTLError reports whether err leaves the read triangles usable.
func softSTLError(err error) bool {
	return errors.Is(err, errCalculatedNormalMismatch) || errors.Is(err, errDegenerate)
}

func (t stlTriangle) validate() error {
	const normTol = 5e-2
	if bad3F32(t.Vertex1) || bad3F32(t.Vertex2) || bad3F32(t.Vertex3) {
		return errors.New("inf/NaN STL triangle vertex")
	}
	if t.degenerate(0) {
		return errDegenerate
	}
	if bad3F32(t.Normal) {
		return errors.New("inf/NaN STL triangle normal")
	}
	calc := to3F32(t.toTriangle3().Normal())
	calcNeg := [3]float32{-calc[0], -calc[1], -calc[2]}
	if !equalWithin3F32(calc, t.Normal, normTol) && !equalWithin3F32(calcNeg, t.Normal, normTol) {
		return errCalculatedNormalMismatch // sometimes may fail
	}
	return nil
}

// degenerate returns true if two vertices are within tol of each other.
func (t stlTriangle) degenerate(tol float32) bool {
	return equalWithin3F32(t.Vertex1, t.Vertex2, tol) ||
		equalWithin3F32(t.Vertex2, t.Vertex3, tol) ||
		equalWithin3F32(t.Vertex3, t.Vertex1, tol)
}

func equalWithin3F32(a, b [3]float32, tol float32) bool {
	return math32.Abs(a[0]-b[0]) <= tol &&
		math32.Abs(a[1]-b[1]) <= tol &&
		math32.Abs(a[2]-b[2]) <= tol
}

func r3From3F32(f [3]float32) r3.Vec {
	return r3.Vec{X: float64(f[0]), Y: float64(f[1]), Z: float64(f[2])}
}

func (t stlTriangle) toTriangle3() Triangle3 {
	return Triangle3{
		r3From3F32(t.Vertex1),
		r3From3F32(t.Vertex2),
		r3From3F32(t.Vertex3),
	}
}
