package internal

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constrainedIDs(m *Mesh, a, b int) []int {
	id, ok := m.EdgeBetween(a, b)
	if !ok {
		return nil
	}
	edge := m.Edge(id)
	return edge.Constraints.Sorted()
}

func TestInsertConstraint_OtherDiagonal(t *testing.T) {
	m := UnitSquare(t, Options{CheckInvariants: true})
	require.NoError(t, m.InsertConstraint([]Point{{X: 1, Y: 0}, {X: 0, Y: 1}}, 0))
	AssertValidMesh(t, m, 1)

	assert.Equal(t, 2, m.FaceCount())
	_, ok := m.EdgeBetween(0, 2)
	assert.False(t, ok, "the crossed diagonal should be gone")
	assert.Equal(t, []int{0}, constrainedIDs(m, 1, 3))
	assert.Equal(t, 1, m.Vertex(1).Constraints)
	assert.Equal(t, 1, m.Vertex(3).Constraints)
}

func TestInsertConstraint_ExistingEdge(t *testing.T) {
	m := UnitSquare(t, Options{})
	before := m.Faces()
	require.NoError(t, m.InsertConstraint([]Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, 4))
	assert.Equal(t, before, m.Faces())
	assert.Equal(t, []int{4}, constrainedIDs(m, 0, 2))
	assert.Equal(t, []int{4}, constrainedIDs(m, 2, 3))
	assert.Empty(t, constrainedIDs(m, 0, 1))

	// The same edge can carry more than one constraint
	require.NoError(t, m.InsertConstraint([]Point{{X: 1, Y: 1}, {X: 0, Y: 0}}, 2))
	assert.Equal(t, []int{2, 4}, constrainedIDs(m, 0, 2))
}

func TestInsertConstraint_SplitFace(t *testing.T) {
	m := UnitSquare(t, Options{})
	p := Point{X: 0.75, Y: 0.25}
	require.NoError(t, m.InsertConstraint([]Point{p}, 0))
	AssertValidMesh(t, m, 1)

	assert.Equal(t, 5, m.VertexCount())
	assert.Equal(t, 4, m.FaceCount())
	v := m.Vertex(4)
	assert.Equal(t, p, v.Position)
	assert.Equal(t, 1, v.Constraints)
	assert.Equal(t, 1, m.Stats().FaceSplits)
	assert.NoError(t, m.ValidateDelaunay())

	location := m.Locate(p)
	assert.Equal(t, AtVertex, location.Kind)
	assert.Equal(t, 4, location.Vertex)
}

func TestInsertConstraint_SplitEdge(t *testing.T) {
	m := UnitSquare(t, Options{})
	require.NoError(t, m.InsertConstraint([]Point{{X: 0.5, Y: 0.5}}, 0))
	AssertValidMesh(t, m, 1)

	assert.Equal(t, 4, m.FaceCount())
	assert.Equal(t, 1, m.Stats().EdgeSplits)
	assert.Equal(t, 0, m.Stats().FaceSplits)
	_, ok := m.EdgeBetween(0, 2)
	assert.False(t, ok)
	for v := 0; v < 4; v++ {
		_, ok := m.EdgeBetween(v, 4)
		assert.True(t, ok, "vertex %d should join the split point", v)
	}

	t.Run("boundary edge", func(t *testing.T) {
		m := UnitSquare(t, Options{})
		require.NoError(t, m.InsertConstraint([]Point{{X: 0.5, Y: 0}}, 0))
		AssertValidMesh(t, m, 1)
		assert.Equal(t, 3, m.FaceCount())
		assert.Equal(t, 1, m.Stats().EdgeSplits)
	})

	t.Run("near an endpoint", func(t *testing.T) {
		m := UnitSquare(t, Options{})
		edge, _ := m.EdgeBetween(0, 1)
		assert.Equal(t, 1, m.SplitEdge(edge, Point{X: 1 - OrientationEpsilon/10, Y: 0}))
		assert.Equal(t, 4, m.VertexCount())
	})
}

func TestSplitEdge_KeepsConstraints(t *testing.T) {
	m := UnitSquare(t, Options{})
	require.True(t, m.MarkConstrained(0, 2, 3))
	require.True(t, m.MarkConstrained(2, 0, 8))
	require.NoError(t, m.InsertConstraint([]Point{{X: 0.5, Y: 0.5}}, 9))
	AssertValidMesh(t, m, 1)

	assert.Equal(t, []int{3, 8}, constrainedIDs(m, 0, 4))
	assert.Equal(t, []int{3, 8}, constrainedIDs(m, 4, 2))
	assert.Empty(t, constrainedIDs(m, 1, 4))
	assert.Empty(t, constrainedIDs(m, 3, 4))
}

func TestInsertConstraint_CrossesConstrainedEdge(t *testing.T) {
	m := UnitSquare(t, Options{})
	require.NoError(t, m.InsertConstraint([]Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, 0))
	require.NoError(t, m.InsertConstraint([]Point{{X: 1, Y: 0}, {X: 0, Y: 1}}, 1))
	AssertValidMesh(t, m, 1)

	require.Equal(t, 5, m.VertexCount())
	assert.InDelta(t, 0.5, m.Vertex(4).Position.X, 1e-12)
	assert.InDelta(t, 0.5, m.Vertex(4).Position.Y, 1e-12)
	assert.Equal(t, 1, m.Stats().EdgeSplits)

	assert.Equal(t, []int{0}, constrainedIDs(m, 0, 4))
	assert.Equal(t, []int{0}, constrainedIDs(m, 4, 2))
	assert.Equal(t, []int{1}, constrainedIDs(m, 1, 4))
	assert.Equal(t, []int{1}, constrainedIDs(m, 4, 3))
	AssertConstraintFidelity(t, m, Polyline{ID: 0, Points: []Point{{X: 0, Y: 0}, {X: 1, Y: 1}}})
	AssertConstraintFidelity(t, m, Polyline{ID: 1, Points: []Point{{X: 1, Y: 0}, {X: 0, Y: 1}}})
}

// Without jitter, a segment can run along grid edges, or pass through grid
// vertices between them.
func TestInsertConstraint_ThroughVertices(t *testing.T) {
	t.Run("along edges", func(t *testing.T) {
		m := Grid(t, 5, 0, 0, Options{})
		faces := m.FaceCount()
		polyline := Polyline{ID: 1, Points: []Point{{X: 0, Y: 2}, {X: 4, Y: 2}}}
		require.NoError(t, m.InsertConstraint(polyline.Points, polyline.ID))
		AssertValidMesh(t, m, 16)
		AssertConstraintFidelity(t, m, polyline)
		assert.Equal(t, faces, m.FaceCount())
		for i := 0; i < 4; i++ {
			assert.Equal(t, []int{1}, constrainedIDs(m, 10+i, 11+i))
		}
	})

	t.Run("across faces", func(t *testing.T) {
		m := Grid(t, 5, 0, 0, Options{})
		polyline := Polyline{ID: 2, Points: []Point{{X: 0, Y: 0}, {X: 4, Y: 2}}}
		require.NoError(t, m.InsertConstraint(polyline.Points, polyline.ID))
		AssertValidMesh(t, m, 16)
		AssertConstraintFidelity(t, m, polyline)
		// The segment passes exactly through (2, 1)
		assert.Equal(t, []int{2}, constrainedIDs(m, 0, 7))
		assert.Equal(t, []int{2}, constrainedIDs(m, 7, 14))
		assert.Equal(t, 5*5, m.VertexCount())
	})
}

func TestInsertConstraint_Fixtures(t *testing.T) {
	for _, name := range []string{"zigzag", "crossing", "spiral"} {
		for _, seed := range []int64{1, 2} {
			name, seed := name, seed
			t.Run(fmt.Sprintf("%s seed %d", name, seed), func(t *testing.T) {
				m := Grid(t, 11, 0.15, seed, Options{Delaunize: true, Seed: seed})
				require.NoError(t, m.ValidateDelaunay())
				polylines := LoadFixture(name)
				for _, polyline := range polylines {
					require.NoError(t, m.InsertConstraint(polyline.Points, polyline.ID))
				}

				AssertValidMesh(t, m, 100)
				for _, polyline := range polylines {
					AssertConstraintFidelity(t, m, polyline)
				}
				assert.NoError(t, m.ValidateDelaunay())
				assert.Zero(t, m.Stats().SkippedPoints)
				assert.Zero(t, m.Stats().SkippedSegments)
			})
		}
	}
}

func TestInsertConstraint_Star(t *testing.T) {
	m := Grid(t, 11, 0.15, 5, Options{Delaunize: true, CheckInvariants: true})
	star := SimpleStar()
	star.ID = 3
	require.NoError(t, m.InsertConstraint(star.Points, star.ID))
	AssertValidMesh(t, m, 100)
	AssertConstraintFidelity(t, m, star)
	assert.NoError(t, m.ValidateDelaunay())

	// Every point of the star is a vertex now. The first one is shared with the
	// closing point, so it is counted twice.
	for i, p := range star.Points {
		location := m.Locate(p)
		require.Equal(t, AtVertex, location.Kind)
		expected := 1
		if i == 0 || i == len(star.Points)-1 {
			expected = 2
		}
		assert.Equal(t, expected, m.Vertex(location.Vertex).Constraints)
	}
}

func TestInsertConstraint_Outside(t *testing.T) {
	points := []Point{{X: 0.5, Y: 0.25}, {X: 3, Y: 3}, {X: 0.25, Y: 0.5}}

	t.Run("dropped", func(t *testing.T) {
		m := UnitSquare(t, Options{})
		require.NoError(t, m.InsertConstraint(points, 0))
		AssertValidMesh(t, m, 1)
		assert.Equal(t, 1, m.Stats().SkippedPoints)
		// The points on either side of the dropped one are joined directly
		AssertConstraintFidelity(t, m, Polyline{ID: 0, Points: []Point{points[0], points[2]}})
	})

	t.Run("strict", func(t *testing.T) {
		m := UnitSquare(t, Options{StrictConstraints: true})
		err := m.InsertConstraint(points, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "outside the triangulation")
		assert.NoError(t, m.Validate())
	})
}

func TestInsertConstraint_NonFinite(t *testing.T) {
	m := UnitSquare(t, Options{})
	err := m.InsertConstraint([]Point{{X: 0.25, Y: 0.5}, {X: math.NaN(), Y: 0.5}}, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not finite")
	// Nothing is inserted, not even the valid point
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, 0, m.Stats().SkippedPoints)
}

func TestInsertConstraint_LeavesDomain(t *testing.T) {
	// The segment cuts across the missing quarter of the L
	points := []Point{{X: 1.8, Y: 0.5}, {X: 0.5, Y: 1.8}}

	t.Run("dropped", func(t *testing.T) {
		m := LShape(t, Options{})
		require.NoError(t, m.InsertConstraint(points, 0))
		AssertValidMesh(t, m, 3)
		assert.Equal(t, 1, m.Stats().SkippedSegments)
		for _, edge := range m.Edges() {
			assert.False(t, edge.IsConstrained(), "%s", &edge)
		}
	})

	t.Run("strict", func(t *testing.T) {
		m := LShape(t, Options{StrictConstraints: true})
		err := m.InsertConstraint(points, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "constraint 0: segment")
		AssertValidMesh(t, m, 3)
	})
}

func TestInsertSegment_SameVertex(t *testing.T) {
	m := UnitSquare(t, Options{})
	assert.NoError(t, m.InsertSegment(2, 2, 0))
	for _, edge := range m.Edges() {
		assert.False(t, edge.IsConstrained())
	}
}

func TestCrossingEdges(t *testing.T) {
	m := Grid(t, 4, 0, 0, Options{})
	diagonal, _ := m.EdgeBetween(0, 5)
	assert.Equal(t, []int{diagonal}, m.CrossingEdges(Point{X: 1, Y: 0}, Point{X: 0, Y: 1}))

	crossings := m.CrossingEdges(Point{X: 0.5, Y: 0.25}, Point{X: 2.5, Y: 0.25})
	require.Len(t, crossings, 4)
	// Nearest first
	first := m.Edge(crossings[0])
	assert.ElementsMatch(t, []int{1, 5}, []int{first.A, first.B})
	last := m.Edge(crossings[3])
	assert.ElementsMatch(t, []int{2, 7}, []int{last.A, last.B})

	assert.Empty(t, m.CrossingEdges(Point{X: 0.1, Y: 0.2}, Point{X: 0.2, Y: 0.8}))
}

func TestReversed(t *testing.T) {
	assert.Equal(t, []int{3, 2, 1}, reversed([]int{1, 2, 3}))
	assert.Equal(t, []int{}, reversed(nil))
}
