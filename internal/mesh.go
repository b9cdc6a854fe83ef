package internal

import (
	"math"
	"math/rand"
	"sort"

	"github.com/golang/geo/r2"
	"go.uber.org/zap"
)

// Mesh is the topology store: vertices, edges, faces and the half-edges that
// tie them together, plus the derived lookup indices. Every mutating method
// leaves the indices and rotate chains consistent before it returns.
//
// A Mesh is not safe for concurrent use.
type Mesh struct {
	vertices []Vertex
	edges    []Edge
	faces    []Face
	syms     []SymEdge
	freeSyms []int

	edgeIndex  map[edgeKey]int
	symIndex   map[halfEdge]int
	vertexSyms [][]int

	liveFaces int
	bounds    r2.Rect

	options Options
	log     *zap.Logger
	rng     *rand.Rand
	stats   Stats
}

func NewMesh(options Options) *Mesh {
	options = options.withDefaults()
	return &Mesh{
		edgeIndex: make(map[edgeKey]int),
		symIndex:  make(map[halfEdge]int),
		bounds:    r2.EmptyRect(),
		options:   options,
		log:       options.Logger,
		rng:       rand.New(rand.NewSource(options.Seed)),
	}
}

// Append a vertex with the next unused index.
func (m *Mesh) AddVertex(p Point) int {
	if !IsFinite(p) {
		fatalf("vertex position %v is not finite", p)
	}
	index := len(m.vertices)
	m.vertices = append(m.vertices, Vertex{Index: index, Position: p})
	m.vertexSyms = append(m.vertexSyms, nil)
	m.bounds = m.bounds.AddPoint(p)
	return index
}

// Create the counterclockwise face v0→v1→v2, creating any of its edges that
// don't exist yet, and wire its half-edges into the indices and the rotate
// chains of its three vertices.
func (m *Mesh) AddFace(v0, v1, v2 int) int {
	vertices := [3]int{v0, v1, v2}
	for _, v := range vertices {
		if v < 0 || v >= len(m.vertices) {
			fatalf("face references missing vertex %d", v)
		}
	}
	if v0 == v1 || v1 == v2 || v2 == v0 {
		fatalf("face %v repeats a vertex", vertices)
	}
	// Negated so that a NaN area fails too
	if !(SignedArea(m.position(v0), m.position(v1), m.position(v2)) > 0) {
		fatalf("face %v is not counterclockwise", vertices)
	}
	for i := range vertices {
		a, b := vertices[i], vertices[(i+1)%3]
		if _, ok := m.symIndex[halfEdge{a, b}]; ok {
			fatalf("half-edge %d->%d already borders a face", a, b)
		}
	}

	id := len(m.faces)
	face := Face{ID: id, Vertices: vertices}
	var symIDs [3]int
	for i := range vertices {
		a, b := vertices[i], vertices[(i+1)%3]
		edge := m.acquireEdge(a, b)
		face.Edges[i] = edge
		symIDs[i] = m.newSym(SymEdge{Vertex: a, Edge: edge, Face: id, Rot: None})
		m.symIndex[halfEdge{a, b}] = symIDs[i]
		m.vertexSyms[a] = append(m.vertexSyms[a], symIDs[i])
	}
	for i := range symIDs {
		m.syms[symIDs[i]].Next = symIDs[(i+1)%3]
	}
	m.faces = append(m.faces, face)
	m.liveFaces++

	for _, v := range vertices {
		m.rebuildRotations(v)
	}
	return id
}

// Remove a face and its half-edges. Edges left with no half-edge are deleted.
func (m *Mesh) RemoveFace(id int) {
	if !m.HasFace(id) {
		fatalf("face %d is not in the mesh", id)
	}
	face := &m.faces[id]
	for i, a := range face.Vertices {
		b := face.Vertices[(i+1)%3]
		key := halfEdge{a, b}
		symID, ok := m.symIndex[key]
		if !ok || m.syms[symID].Face != id {
			fatalf("face %d has no half-edge %d->%d", id, a, b)
		}
		delete(m.symIndex, key)
		m.vertexSyms[a] = removeIndex(m.vertexSyms[a], symID)
		m.syms[symID] = SymEdge{Vertex: None, Edge: None, Face: None, Next: None, Rot: None, dead: true}
		m.freeSyms = append(m.freeSyms, symID)
		m.releaseEdge(face.Edges[i])
	}
	face.dead = true
	m.liveFaces--

	for _, v := range face.Vertices {
		m.rebuildRotations(v)
	}
}

// Remove a batch of faces and add another in their place. Constraint ids on
// any vertex pair that is still an edge afterwards are carried across, even
// if the edge itself had to be deleted and recreated along the way.
func (m *Mesh) ReplaceFaces(remove []int, add [][3]int) []int {
	carried := make(map[edgeKey]ConstraintSet)
	for _, id := range remove {
		if !m.HasFace(id) {
			fatalf("face %d is not in the mesh", id)
		}
		for _, edgeID := range m.faces[id].Edges {
			edge := &m.edges[edgeID]
			if edge.IsConstrained() {
				carried[keyOf(edge.A, edge.B)] = edge.Constraints.Clone()
			}
		}
	}
	for _, id := range remove {
		m.RemoveFace(id)
	}
	added := make([]int, len(add))
	for i, vertices := range add {
		added[i] = m.AddFace(vertices[0], vertices[1], vertices[2])
	}
	for key, constraints := range carried {
		if edgeID, ok := m.edgeIndex[key]; ok {
			m.edges[edgeID].Constraints.Merge(constraints)
		}
	}
	return added
}

// The half-edge on the other side of sym's edge: Rot(Next(sym)), provided it
// runs back along the same edge. Fails for boundary half-edges.
func (m *Mesh) Neighbor(sym int) (int, bool) {
	s := &m.syms[sym]
	candidate := m.syms[s.Next].Rot
	if candidate == None {
		return None, false
	}
	c := &m.syms[candidate]
	if c.Edge != s.Edge || m.SymTo(candidate) != s.Vertex {
		return None, false
	}
	return candidate, true
}

// The face across sym's edge, if there is one.
func (m *Mesh) NeighborFace(sym int) (int, bool) {
	neighbor, ok := m.Neighbor(sym)
	if !ok {
		return None, false
	}
	return m.syms[neighbor].Face, true
}

// Mark the edge between a and b as representing the constraint. Reports
// whether there is such an edge.
func (m *Mesh) MarkConstrained(a, b, constraintID int) bool {
	edgeID, ok := m.edgeIndex[keyOf(a, b)]
	if !ok {
		return false
	}
	m.edges[edgeID].Constraints.Add(constraintID)
	return true
}

// Accessors

func (m *Mesh) VertexCount() int {
	return len(m.vertices)
}

func (m *Mesh) Vertex(index int) Vertex {
	return m.vertices[index]
}

func (m *Mesh) Vertices() []Vertex {
	result := make([]Vertex, len(m.vertices))
	copy(result, m.vertices)
	return result
}

func (m *Mesh) FaceCount() int {
	return m.liveFaces
}

func (m *Mesh) HasFace(id int) bool {
	return id >= 0 && id < len(m.faces) && !m.faces[id].dead
}

func (m *Mesh) Face(id int) Face {
	return m.faces[id]
}

// Live faces in insertion order
func (m *Mesh) Faces() []Face {
	result := make([]Face, 0, m.liveFaces)
	for _, face := range m.faces {
		if !face.dead {
			result = append(result, face)
		}
	}
	return result
}

func (m *Mesh) Edge(id int) Edge {
	return m.edges[id]
}

func (m *Mesh) HasEdge(id int) bool {
	return id >= 0 && id < len(m.edges) && !m.edges[id].dead
}

// Live edges in creation order. The constraint sets are copies.
func (m *Mesh) Edges() []Edge {
	result := make([]Edge, 0, len(m.edgeIndex))
	for _, edge := range m.edges {
		if !edge.dead {
			edge.Constraints = edge.Constraints.Clone()
			result = append(result, edge)
		}
	}
	return result
}

func (m *Mesh) EdgeCount() int {
	return len(m.edgeIndex)
}

// The edge joining a and b, in either direction.
func (m *Mesh) EdgeBetween(a, b int) (int, bool) {
	id, ok := m.edgeIndex[keyOf(a, b)]
	return id, ok
}

// The half-edge running from a to b.
func (m *Mesh) SymFor(a, b int) (int, bool) {
	id, ok := m.symIndex[halfEdge{a, b}]
	return id, ok
}

func (m *Mesh) Sym(id int) SymEdge {
	return m.syms[id]
}

// Destination vertex of a half-edge
func (m *Mesh) SymTo(sym int) int {
	return m.syms[m.syms[sym].Next].Vertex
}

// Half-edges leaving a vertex, sorted counterclockwise
func (m *Mesh) VertexSyms(v int) []int {
	result := make([]int, len(m.vertexSyms[v]))
	copy(result, m.vertexSyms[v])
	return result
}

func (m *Mesh) Bounds() r2.Rect {
	return m.bounds
}

func (m *Mesh) Stats() Stats {
	return m.stats
}

func (m *Mesh) Options() Options {
	return m.options
}

func (m *Mesh) Logger() *zap.Logger {
	return m.log
}

// Internals

func (m *Mesh) position(v int) Point {
	return m.vertices[v].Position
}

func (m *Mesh) facePoints(id int) (Point, Point, Point) {
	vs := m.faces[id].Vertices
	return m.position(vs[0]), m.position(vs[1]), m.position(vs[2])
}

func (m *Mesh) acquireEdge(a, b int) int {
	key := keyOf(a, b)
	if id, ok := m.edgeIndex[key]; ok {
		m.edges[id].refs++
		return id
	}
	id := len(m.edges)
	m.edges = append(m.edges, Edge{A: a, B: b, Constraints: make(ConstraintSet), refs: 1})
	m.edgeIndex[key] = id
	return id
}

func (m *Mesh) releaseEdge(id int) {
	edge := &m.edges[id]
	edge.refs--
	if edge.refs > 0 {
		return
	}
	edge.dead = true
	delete(m.edgeIndex, keyOf(edge.A, edge.B))
}

func (m *Mesh) newSym(sym SymEdge) int {
	if n := len(m.freeSyms); n > 0 {
		id := m.freeSyms[n-1]
		m.freeSyms = m.freeSyms[:n-1]
		m.syms[id] = sym
		return id
	}
	m.syms = append(m.syms, sym)
	return len(m.syms) - 1
}

// Re-sort the half-edges leaving v by polar angle and relink their Rot
// pointers counterclockwise, wrapping around.
func (m *Mesh) rebuildRotations(v int) {
	syms := m.vertexSyms[v]
	if len(syms) < 2 {
		for _, s := range syms {
			m.syms[s].Rot = None
		}
		return
	}

	origin := m.position(v)
	angles := make(map[int]float64, len(syms))
	for _, s := range syms {
		d := m.position(m.SymTo(s)).Sub(origin)
		angles[s] = math.Atan2(d.Y, d.X)
	}
	sort.Slice(syms, func(i, j int) bool {
		return angles[syms[i]] < angles[syms[j]]
	})
	for i, s := range syms {
		m.syms[s].Rot = syms[(i+1)%len(syms)]
	}
}

func removeIndex(list []int, value int) []int {
	for i, v := range list {
		if v == value {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
