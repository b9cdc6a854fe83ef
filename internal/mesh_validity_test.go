package internal

// This contains no actual tests. It is just a helper for testing mesh
// validity.

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to check that a mesh is valid. The rules are:
// 1. The structural invariants hold (see Validate)
// 2. Every face is counterclockwise with nonzero area
// 3. V - E + F = 1, which holds for any triangulated disc
// 4. The faces cover the same area as before any mutation
func AssertValidMesh(t *testing.T, m *Mesh, expectedArea float64) {
	t.Helper()
	require.NoError(t, m.Validate())
	for _, face := range m.Faces() {
		a, b, c := m.facePoints(face.ID)
		require.Greater(t, SignedArea(a, b, c), 0.0, "clockwise or degenerate face: %s", &face)
	}
	assert.Equal(t, 1, m.EulerCharacteristic(), "V - E + F")
	assert.InDelta(t, expectedArea, MeshArea(m), 1e-9, "faces must cover the original domain")
}

func MeshArea(m *Mesh) float64 {
	var area float64
	for _, face := range m.Faces() {
		a, b, c := m.facePoints(face.ID)
		area += SignedArea(a, b, c) / 2
	}
	return area
}

// Check that the edges marked with the polyline's id cover each of its
// segments exactly, and that no marked edge strays off the polyline.
func AssertConstraintFidelity(t *testing.T, m *Mesh, polyline Polyline) {
	t.Helper()
	var marked []Edge
	for _, edge := range m.Edges() {
		if edge.Constraints.Has(polyline.ID) {
			marked = append(marked, edge)
		}
	}
	require.NotEmpty(t, marked, "constraint %d has no edges", polyline.ID)

	onSegment := func(edge Edge, p, q Point) bool {
		return PointOnSegment(m.position(edge.A), p, q) && PointOnSegment(m.position(edge.B), p, q)
	}
	for i := 1; i < len(polyline.Points); i++ {
		p, q := polyline.Points[i-1], polyline.Points[i]
		var covered float64
		for _, edge := range marked {
			if onSegment(edge, p, q) {
				covered += Distance(m.position(edge.A), m.position(edge.B))
			}
		}
		assert.InDelta(t, Distance(p, q), covered, 1e-6, "segment %d of constraint %d is not covered", i-1, polyline.ID)
	}
	for _, edge := range marked {
		found := false
		for i := 1; i < len(polyline.Points) && !found; i++ {
			found = onSegment(edge, polyline.Points[i-1], polyline.Points[i])
		}
		assert.True(t, found, "%s is off constraint %d", &edge, polyline.ID)
	}
}

// Check that the located points are exactly the points inside the domain
// outline, by sampling a grid over its bounding box. Samples too close to the
// outline to call are skipped.
func validateCoverageBySampling(t *testing.T, m *Mesh, outline Polyline) {
	t.Helper()
	minX, minY, maxX, maxY := math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	for _, p := range outline.Points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	// Pad the bounding box by 10%
	xPadding := (maxX - minX) * 0.1
	yPadding := (maxY - minY) * 0.1
	minX -= xPadding
	minY -= yPadding
	maxX += xPadding
	maxY += yPadding

	step := math.Max(maxX-minX, maxY-minY) / 37
	closed := outline.Closed()
	for y := minY; y <= maxY; y += step {
		for x := minX; x <= maxX; x += step {
			p := Point{X: x, Y: y}
			nearOutline := false
			for i := 1; i < len(closed.Points); i++ {
				projected, _ := ProjectOntoSegment(p, closed.Points[i-1], closed.Points[i])
				nearOutline = nearOutline || Distance(p, projected) < 1e-3
			}
			if nearOutline {
				continue
			}

			location := m.Locate(p)
			if outline.ContainsPoint(p) {
				assert.NotEqual(t, Outside, location.Kind, "point %v should be in the mesh", p)
			} else {
				assert.Equal(t, Outside, location.Kind, "point %v should not be in the mesh", p)
			}
		}
	}
}

// Even-odd point in polygon test over the outline of the polyline's points.
func (p Polyline) ContainsPoint(q Point) bool {
	return p.CrossingCount(q)%2 == 1
}

// Number of outline edges crossed by a ray from q in the +X direction
func (p Polyline) CrossingCount(q Point) int {
	points := p.Points
	if p.IsClosed() {
		points = points[:len(points)-1]
	}
	count := 0
	for i, a := range points {
		b := points[CircularIndex(i+1, len(points))]
		if (a.Y > q.Y) == (b.Y > q.Y) {
			continue
		}
		x := a.X + (q.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
		if x > q.X {
			count++
		}
	}
	return count
}
