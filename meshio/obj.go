// Readers and writers for the file formats the CLI works with: Wavefront OBJ
// meshes, plain text and SVG constraint polylines, and GeoJSON output.
package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/osuushi/cdt"
	"github.com/pkg/errors"
)

// Raw mesh data, as read from or written to a file
type Mesh struct {
	Vertices  []cdt.Point
	Triangles []int
}

// Read vertices and faces from a Wavefront OBJ file. Only "v" and "f" lines
// are used; the z coordinate is dropped. Face tokens may carry texture and
// normal indices ("3/1/2"), which are ignored, and negative indices count back
// from the last vertex. Faces with more than three vertices are split into a
// fan.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	mesh := &Mesh{}
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 3 {
				return nil, errors.Errorf("line %d: vertex needs at least two coordinates", lineNumber)
			}
			x, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: bad x coordinate", lineNumber)
			}
			y, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: bad y coordinate", lineNumber)
			}
			mesh.Vertices = append(mesh.Vertices, cdt.Point{X: x, Y: y})
		case "f":
			if len(fields) < 4 {
				return nil, errors.Errorf("line %d: face needs at least three vertices", lineNumber)
			}
			indices := make([]int, len(fields)-1)
			for i, token := range fields[1:] {
				index, err := parseFaceIndex(token, len(mesh.Vertices))
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", lineNumber)
				}
				indices[i] = index
			}
			for i := 1; i+1 < len(indices); i++ {
				mesh.Triangles = append(mesh.Triangles, indices[0], indices[i], indices[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading OBJ")
	}
	return mesh, nil
}

// Convert a face token to a zero based vertex index
func parseFaceIndex(token string, vertexCount int) (int, error) {
	if slash := strings.IndexByte(token, '/'); slash >= 0 {
		token = token[:slash]
	}
	index, err := strconv.Atoi(token)
	if err != nil {
		return 0, errors.Wrapf(err, "bad face index %q", token)
	}
	switch {
	case index > 0:
		index--
	case index < 0:
		index += vertexCount
	default:
		return 0, errors.New("face index 0 is not valid in OBJ")
	}
	if index < 0 || index >= vertexCount {
		return 0, errors.Errorf("face index %s refers to a missing vertex", token)
	}
	return index, nil
}

// Write vertices as "v x y 0.0" and triangles as one based "f i j k" lines.
// Coordinates are written with full precision, so reading the file back gives
// the same mesh.
func WriteOBJ(w io.Writer, vertices []cdt.Point, triangles [][3]int) error {
	buffered := bufio.NewWriter(w)
	for _, v := range vertices {
		fmt.Fprintf(buffered, "v %s %s 0.0\n", formatFloat(v.X), formatFloat(v.Y))
	}
	for _, t := range triangles {
		fmt.Fprintf(buffered, "f %d %d %d\n", t[0]+1, t[1]+1, t[2]+1)
	}
	return errors.Wrap(buffered.Flush(), "writing OBJ")
}

// Write the current state of a triangulation as OBJ.
func WriteTriangulation(w io.Writer, t *cdt.Triangulation) error {
	return WriteOBJ(w, t.VertexPositions(), t.Triangles())
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
