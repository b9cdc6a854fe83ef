package internal

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Build a mesh from vertex positions and a flat list of triangle vertex
// indices, three per triangle. Clockwise triangles are reversed. Malformed
// input is reported as an error rather than a panic, since it comes from the
// caller rather than from a broken mesh.
func BuildMesh(positions []Point, triangles []int, options Options) (mesh *Mesh, err error) {
	defer func() {
		recoveredErr := HandleMeshPanicRecover(recover())
		if recoveredErr != nil {
			mesh = nil
			err = recoveredErr
		}
	}()

	if len(triangles)%3 != 0 {
		return nil, errors.Errorf("triangle index count %d is not a multiple of 3", len(triangles))
	}
	for i, index := range triangles {
		if index < 0 || index >= len(positions) {
			return nil, errors.Errorf("triangle %d references vertex %d, but there are %d vertices", i/3, index, len(positions))
		}
	}

	for i, p := range positions {
		if !IsFinite(p) {
			return nil, errors.Errorf("vertex %d has a non-finite coordinate %v", i, p)
		}
	}

	m := NewMesh(options)
	for _, p := range positions {
		m.AddVertex(p)
	}

	owners := make(map[halfEdge]int)
	reversed := 0
	for t := 0; t < len(triangles)/3; t++ {
		a, b, c := triangles[3*t], triangles[3*t+1], triangles[3*t+2]
		if a == b || b == c || c == a {
			return nil, errors.Errorf("triangle %d (%d %d %d) repeats a vertex", t, a, b, c)
		}
		switch Orient(m.position(a), m.position(b), m.position(c)) {
		case Collinear:
			return nil, errors.Errorf("triangle %d (%d %d %d) is degenerate", t, a, b, c)
		case Clockwise:
			b, c = c, b
			reversed++
		}
		vertices := [3]int{a, b, c}
		for i := range vertices {
			key := halfEdge{vertices[i], vertices[CircularIndex(i+1, 3)]}
			if other, ok := owners[key]; ok {
				return nil, errors.Errorf("triangles %d and %d share the directed edge %d->%d", other, t, key[0], key[1])
			}
			owners[key] = t
		}
		m.AddFace(a, b, c)
	}
	if reversed > 0 {
		m.log.Debug("reversed clockwise triangles", zap.Int("count", reversed))
	}

	if options.Delaunize {
		flips := m.LegalizeAll()
		m.log.Debug("delaunized mesh", zap.Int("flips", flips))
	}
	m.checkInvariants("build")
	return m, nil
}

// Run the full validation when CheckInvariants is set, panicking on failure.
func (m *Mesh) checkInvariants(operation string) {
	if !m.options.CheckInvariants {
		return
	}
	if err := m.Validate(); err != nil {
		fatalWrap(err, "invariants broken after %s", operation)
	}
}
