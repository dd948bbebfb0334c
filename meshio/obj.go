package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/soypat/isoptic"
	"gonum.org/v1/gonum/spatial/r3"
)

// ReadOBJ reads the vertices and faces of a Wavefront OBJ stream into a
// mesh. Faces with more than three vertices are triangulated as a fan
// around their first vertex. Face vertex references may carry texture and
// normal indices (v/vt/vn) which are discarded. Negative indices are
// relative to the vertices read so far. Records other than v and f are
// ignored.
func ReadOBJ(r io.Reader) (isoptic.Mesh, error) {
	var m isoptic.Mesh
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		words := strings.Fields(scanner.Text())
		if len(words) == 0 || strings.HasPrefix(words[0], "#") {
			continue
		}
		switch words[0] {
		case "v":
			// A fourth w component is allowed and ignored.
			if len(words) < 4 {
				return isoptic.Mesh{}, fmt.Errorf("line %d: vertex needs 3 coordinates", line)
			}
			var xyz [3]float64
			for i := range xyz {
				f, err := strconv.ParseFloat(words[i+1], 64)
				if err != nil {
					return isoptic.Mesh{}, fmt.Errorf("line %d: %w", line, err)
				}
				xyz[i] = f
			}
			m.Points = append(m.Points, r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]})

		case "f":
			if len(words) < 4 {
				return isoptic.Mesh{}, fmt.Errorf("line %d: face needs at least 3 vertices", line)
			}
			face := make([]int, len(words)-1)
			for i, word := range words[1:] {
				idx, err := parseFaceIndex(word, len(m.Points))
				if err != nil {
					return isoptic.Mesh{}, fmt.Errorf("line %d: %w", line, err)
				}
				face[i] = idx
			}
			for i := 1; i+1 < len(face); i++ {
				m.Triangles = append(m.Triangles, [3]int{face[0], face[i], face[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return isoptic.Mesh{}, err
	}
	return m, nil
}

// parseFaceIndex returns the 0-based vertex index of a face vertex
// reference given n vertices read so far.
func parseFaceIndex(word string, n int) (int, error) {
	if slash := strings.IndexByte(word, '/'); slash >= 0 {
		word = word[:slash]
	}
	value, err := strconv.Atoi(word)
	if err != nil {
		return 0, err
	}
	switch {
	case value > 0:
		value-- // OBJ indices are 1-based.
	case value < 0:
		value += n
	default:
		return 0, fmt.Errorf("invalid vertex index 0")
	}
	if value < 0 || value >= n {
		return 0, fmt.Errorf("vertex index %s references undefined vertex", word)
	}
	return value, nil
}

// WriteOBJ writes m to w in Wavefront OBJ format. Coordinates are written
// with the fewest digits that read back to the same value.
func WriteOBJ(w io.Writer, m isoptic.Mesh) error {
	bw := bufio.NewWriter(w)
	for _, v := range m.Points {
		_, err := fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z)
		if err != nil {
			return err
		}
	}
	for _, tri := range m.Triangles {
		// One has to be added to every triangle index
		_, err := fmt.Fprintf(bw, "f %d %d %d\n", tri[0]+1, tri[1]+1, tri[2]+1)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}
