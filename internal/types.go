package internal

import (
	"fmt"
	"sort"
	"strings"
)

// Everything in the mesh lives in dense slices owned by Mesh, and every
// cross-reference is an index into one of those slices. Nothing holds a
// pointer into another entity, so removing a face never leaves a dangling
// reference behind, only an index that the owning slice marks dead.

// Absent index, used for rotate links on vertices with a single half-edge.
const None = -1

type Vertex struct {
	Index    int
	Position Point
	// Number of constraint polyline points resolved to this vertex
	Constraints int
}

// Set of constraint ids represented by an edge. A non-empty set pins the edge
// in place.
type ConstraintSet map[int]struct{}

func (s ConstraintSet) Add(id int) {
	s[id] = struct{}{}
}

func (s ConstraintSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

func (s ConstraintSet) Merge(other ConstraintSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}

func (s ConstraintSet) Clone() ConstraintSet {
	clone := make(ConstraintSet, len(s))
	clone.Merge(s)
	return clone
}

// Ids in ascending order
func (s ConstraintSet) Sorted() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

type Edge struct {
	// Endpoints, in the orientation of the face that created the edge
	A, B        int
	Constraints ConstraintSet
	// Number of live half-edges running along this edge (one or two)
	refs int
	dead bool
}

func (e *Edge) IsConstrained() bool {
	return len(e.Constraints) > 0
}

func (e *Edge) Other(v int) int {
	if e.A == v {
		return e.B
	}
	return e.A
}

func (e *Edge) String() string {
	return fmt.Sprintf("Edge %d-%d %v", e.A, e.B, e.Constraints.Sorted())
}

// A counterclockwise triangle. Edges[i] joins Vertices[i] to Vertices[(i+1)%3].
type Face struct {
	ID       int
	Vertices [3]int
	Edges    [3]int
	dead     bool
}

// The vertex of the face that is not an endpoint of edge ab
func (f *Face) Opposite(a, b int) int {
	for _, v := range f.Vertices {
		if v != a && v != b {
			return v
		}
	}
	fatalf("face %d has no vertex opposite %d-%d", f.ID, a, b)
	return None
}

func (f *Face) HasVertex(v int) bool {
	return f.Vertices[0] == v || f.Vertices[1] == v || f.Vertices[2] == v
}

func (f *Face) String() string {
	parts := make([]string, 3)
	for i, v := range f.Vertices {
		parts[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf("Face %d (%s)", f.ID, strings.Join(parts, " "))
}

// Directed vertex pair, the key for the half-edge index
type halfEdge [2]int

// Undirected vertex pair, the key for the edge index
type edgeKey [2]int

func keyOf(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}
