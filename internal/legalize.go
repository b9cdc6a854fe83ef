package internal

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"go.uber.org/zap"
)

// Queue of edges suspected of being non-Delaunay. Edges are queued by their
// endpoints rather than by edge index, because a flip deletes and recreates
// edges, and an endpoint pair stays meaningful across that.
type EdgeQueue struct {
	queue *linkedlistqueue.Queue
}

func NewEdgeQueue() *EdgeQueue {
	return &EdgeQueue{queue: linkedlistqueue.New()}
}

func (q *EdgeQueue) Push(a, b int) {
	q.queue.Enqueue(keyOf(a, b))
}

func (q *EdgeQueue) Len() int {
	return q.queue.Size()
}

func (q *EdgeQueue) pop() (edgeKey, bool) {
	value, ok := q.queue.Dequeue()
	if !ok {
		return edgeKey{}, false
	}
	return value.(edgeKey), true
}

// Queue every edge of the given faces.
func (q *EdgeQueue) PushFaces(m *Mesh, faces []int) {
	for _, id := range faces {
		vs := m.faces[id].Vertices
		q.Push(vs[0], vs[1])
		q.Push(vs[1], vs[2])
		q.Push(vs[2], vs[0])
	}
}

// Drain the queue, flipping every unconstrained edge that fails the in-circle
// test, and queueing the perimeter of each flipped quadrilateral since those
// edges now have a new opposite vertex. Returns the number of flips.
func (m *Mesh) Legalize(queue *EdgeQueue) int {
	flips := 0
	for {
		key, ok := queue.pop()
		if !ok {
			break
		}
		edgeID, ok := m.edgeIndex[key]
		if !ok {
			// Flipped away since it was queued
			continue
		}
		edge := &m.edges[edgeID]
		if edge.IsConstrained() {
			continue
		}
		sym, ok := m.SymFor(edge.A, edge.B)
		if !ok {
			sym, ok = m.SymFor(edge.B, edge.A)
		}
		if !ok {
			fatalf("edge %d-%d has no half-edge", edge.A, edge.B)
		}
		neighbor, ok := m.Neighbor(sym)
		if !ok {
			continue
		}

		from := m.syms[sym].Vertex
		to := m.SymTo(sym)
		face := m.syms[sym].Face
		opposite := m.faces[m.syms[neighbor].Face].Opposite(from, to)
		a, b, c := m.facePoints(face)
		if IsLocallyDelaunay(a, b, c, m.position(opposite)) {
			continue
		}

		near := m.faces[face].Opposite(from, to)
		if !m.flip(sym) {
			continue
		}
		flips++
		if m.options.MaxFlips > 0 && flips > m.options.MaxFlips {
			fatalf("legalization exceeded %d flips", m.options.MaxFlips)
		}
		queue.Push(from, near)
		queue.Push(near, to)
		queue.Push(to, opposite)
		queue.Push(opposite, from)
	}
	return flips
}

// Legalize every edge in the mesh.
func (m *Mesh) LegalizeAll() int {
	queue := NewEdgeQueue()
	for key := range m.edgeIndex {
		queue.Push(key[0], key[1])
	}
	return m.Legalize(queue)
}

// Flip the unconstrained interior edge between a and b. Reports whether a
// flip happened.
func (m *Mesh) Flip(a, b int) bool {
	edgeID, ok := m.edgeIndex[keyOf(a, b)]
	if !ok || m.edges[edgeID].IsConstrained() {
		return false
	}
	sym, ok := m.SymFor(a, b)
	if !ok {
		sym, ok = m.SymFor(b, a)
	}
	if !ok {
		return false
	}
	return m.flip(sym)
}

// Replace the edge a-b shared by faces (a,b,o1) and (b,a,o2) with o1-o2, as
// faces (o2,o1,a) and (o1,o2,b). Refused unless the quadrilateral is strictly
// convex, since otherwise one of the new faces would be inverted.
func (m *Mesh) flip(sym int) bool {
	neighbor, ok := m.Neighbor(sym)
	if !ok {
		return false
	}
	a := m.syms[sym].Vertex
	b := m.SymTo(sym)
	near := m.syms[sym].Face
	far := m.syms[neighbor].Face
	o1 := m.faces[near].Opposite(a, b)
	o2 := m.faces[far].Opposite(a, b)

	pa, pb, p1, p2 := m.position(a), m.position(b), m.position(o1), m.position(o2)
	if Orient(p2, p1, pa) != CounterClockwise || Orient(p1, p2, pb) != CounterClockwise {
		return false
	}

	m.ReplaceFaces([]int{near, far}, [][3]int{{o2, o1, a}, {o1, o2, b}})
	m.stats.Flips++
	m.log.Debug("flipped edge",
		zap.Int("a", a), zap.Int("b", b),
		zap.Int("o1", o1), zap.Int("o2", o2))
	return true
}
