package internal

import (
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Insert a constraint polyline, so that every consecutive pair of its points
// ends up joined by a chain of mesh edges marked with the constraint id.
// Points are first resolved to vertices, splitting edges or faces as needed,
// then each segment is forced into the mesh.
//
// Points or segments outside the triangulated domain are dropped with a
// warning, unless StrictConstraints is set, in which case the first one is
// returned as an error. Segments inserted before that point stay in the mesh.
func (m *Mesh) InsertConstraint(points []Point, id int) error {
	err := m.insertConstraint(points, id)
	m.checkInvariants("constraint insertion")
	return err
}

func (m *Mesh) insertConstraint(points []Point, id int) error {
	var resolved []int
	for i, p := range points {
		if !IsFinite(p) {
			return errors.Errorf("constraint %d: point %d %v is not finite", id, i, p)
		}
	}
	for i, p := range points {
		v, ok := m.resolvePoint(p)
		if !ok {
			if m.options.StrictConstraints {
				return errors.Errorf("constraint %d: point %d %v is outside the triangulation", id, i, p)
			}
			m.stats.SkippedPoints++
			m.log.Warn("dropping constraint point outside the triangulation",
				zap.Int("constraint", id), zap.Int("point", i),
				zap.Float64("x", p.X), zap.Float64("y", p.Y))
			continue
		}
		m.vertices[v].Constraints++
		resolved = append(resolved, v)
	}

	for i := 1; i < len(resolved); i++ {
		if err := m.InsertSegment(resolved[i-1], resolved[i], id); err != nil {
			return err
		}
	}
	return nil
}

// Resolve a point to a vertex, creating one if the point is not already a
// vertex. Fails only when the point is outside the triangulation.
func (m *Mesh) resolvePoint(p Point) (int, bool) {
	location := m.Locate(p)
	switch location.Kind {
	case AtVertex:
		return location.Vertex, true
	case OnEdge:
		return m.SplitEdge(location.Edge, p), true
	case InFace:
		return m.SplitFace(location.Face, p), true
	}
	return None, false
}

// Insert a vertex on an edge at the projection of p, replacing each face on
// either side of the edge with two. The two halves of the edge keep its
// constraint ids. If the projection is within epsilon of an endpoint, that
// endpoint is returned instead and the mesh is unchanged.
func (m *Mesh) SplitEdge(edgeID int, p Point) int {
	if !m.HasEdge(edgeID) {
		fatalf("edge %d is not in the mesh", edgeID)
	}
	edge := m.edges[edgeID]
	a, b := edge.A, edge.B
	pa, pb := m.position(a), m.position(b)
	projected, _ := ProjectOntoSegment(p, pa, pb)
	if Distance(projected, pa) < OrientationEpsilon {
		return a
	}
	if Distance(projected, pb) < OrientationEpsilon {
		return b
	}

	constraints := edge.Constraints.Clone()
	v := m.AddVertex(projected)
	queue := NewEdgeQueue()
	var remove []int
	var add [][3]int
	if sym, ok := m.SymFor(a, b); ok {
		face := m.syms[sym].Face
		c := m.faces[face].Opposite(a, b)
		remove = append(remove, face)
		add = append(add, [3]int{a, v, c}, [3]int{v, b, c})
		queue.Push(b, c)
		queue.Push(c, a)
	}
	if sym, ok := m.SymFor(b, a); ok {
		face := m.syms[sym].Face
		d := m.faces[face].Opposite(a, b)
		remove = append(remove, face)
		add = append(add, [3]int{b, v, d}, [3]int{v, a, d})
		queue.Push(a, d)
		queue.Push(d, b)
	}
	m.ReplaceFaces(remove, add)
	for id := range constraints {
		m.MarkConstrained(a, v, id)
		m.MarkConstrained(v, b, id)
	}

	m.stats.EdgeSplits++
	m.log.Debug("split edge",
		zap.Int("a", a), zap.Int("b", b), zap.Int("vertex", v),
		zap.Ints("constraints", constraints.Sorted()))
	m.Legalize(queue)
	return v
}

// Insert a vertex at p, inside the face, replacing the face with three.
func (m *Mesh) SplitFace(faceID int, p Point) int {
	if !m.HasFace(faceID) {
		fatalf("face %d is not in the mesh", faceID)
	}
	vs := m.faces[faceID].Vertices
	a, b, c := vs[0], vs[1], vs[2]
	v := m.AddVertex(p)
	m.ReplaceFaces([]int{faceID}, [][3]int{{a, b, v}, {b, c, v}, {c, a, v}})

	m.stats.FaceSplits++
	m.log.Debug("split face", zap.Int("face", faceID), zap.Int("vertex", v))
	queue := NewEdgeQueue()
	queue.Push(a, b)
	queue.Push(b, c)
	queue.Push(c, a)
	m.Legalize(queue)
	return v
}

// Force the segment between vertices u and w into the mesh as a chain of
// edges marked with the constraint id.
//
// The faces crossed by the segment form a channel. Those faces are removed and
// the two sides of the channel are retriangulated separately, with the segment
// as their shared base. The channel is cut short wherever the segment passes
// through a vertex, or crosses an existing constrained edge, which is split at
// the crossing. The remainder is then inserted the same way.
func (m *Mesh) InsertSegment(u, w, id int) error {
	if u == w {
		return nil
	}
	if m.MarkConstrained(u, w, id) {
		return nil
	}
	pu, pw := m.position(u), m.position(w)

	if p := m.collinearNeighbor(u, w); p != None {
		m.MarkConstrained(u, p, id)
		return m.InsertSegment(p, w, id)
	}

	start, ok := m.segmentWedge(u, w)
	if !ok {
		return m.skipSegment(u, w, id, "leaves the triangulation at its start")
	}

	channel := []int{m.syms[start].Face}
	lo := m.syms[start].Vertex
	hi := m.SymTo(start)
	lower := []int{lo}
	upper := []int{hi}
	end := None
	for end == None {
		sym, ok := m.SymFor(lo, hi)
		if !ok {
			fatalf("channel edge %d->%d has no half-edge", lo, hi)
		}
		edgeID := m.syms[sym].Edge
		if m.edges[edgeID].IsConstrained() {
			return m.splitCrossing(u, w, edgeID, id)
		}
		neighbor, ok := m.Neighbor(sym)
		if !ok {
			return m.skipSegment(u, w, id, "leaves the triangulation")
		}
		face := m.syms[neighbor].Face
		channel = append(channel, face)
		r := m.faces[face].Opposite(lo, hi)
		if r == w {
			end = w
			break
		}
		switch Orient(pu, pw, m.position(r)) {
		case CounterClockwise:
			upper = append(upper, r)
			hi = r
		case Clockwise:
			lower = append(lower, r)
			lo = r
		default:
			end = r
		}
	}

	var add [][3]int
	add = m.triangulatePseudoPolygon(u, end, upper, add)
	add = m.triangulatePseudoPolygon(end, u, reversed(lower), add)
	added := m.ReplaceFaces(channel, add)
	if !m.MarkConstrained(u, end, id) {
		fatalf("retriangulated channel is missing edge %d-%d", u, end)
	}
	m.log.Debug("inserted segment",
		zap.Int("constraint", id), zap.Int("from", u), zap.Int("to", end),
		zap.Int("channel", len(channel)))

	queue := NewEdgeQueue()
	queue.PushFaces(m, added)
	m.Legalize(queue)

	if end != w {
		return m.InsertSegment(end, w, id)
	}
	return nil
}

// The nearest neighbor of u lying on the segment from u to w, if any.
func (m *Mesh) collinearNeighbor(u, w int) int {
	pu, pw := m.position(u), m.position(w)
	direction := pw.Sub(pu)
	length := Distance(pu, pw)
	best := None
	bestDistance := length
	for _, p := range m.neighbors(u) {
		pp := m.position(p)
		if Orient(pu, pw, pp) != Collinear || pp.Sub(pu).Dot(direction) <= 0 {
			continue
		}
		if d := Distance(pu, pp); d < bestDistance {
			best = p
			bestDistance = d
		}
	}
	return best
}

// Find the face around u that the segment u→w leaves through. Returns the
// half-edge p→q opposite u in that face, with p below the segment and q above.
func (m *Mesh) segmentWedge(u, w int) (int, bool) {
	pu, pw := m.position(u), m.position(w)
	for _, s := range m.vertexSyms[u] {
		next := m.syms[s].Next
		p := m.position(m.SymTo(s))
		q := m.position(m.SymTo(next))
		if Orient(pu, pw, p) == Clockwise && Orient(pu, pw, q) == CounterClockwise {
			return next, true
		}
	}
	return None, false
}

// Vertices sharing an edge with v. Includes the far end of a boundary edge
// whose only half-edge points into v.
func (m *Mesh) neighbors(v int) []int {
	seen := make(map[int]struct{})
	var result []int
	for _, s := range m.vertexSyms[v] {
		for _, n := range []int{m.SymTo(s), m.SymTo(m.syms[s].Next)} {
			if _, ok := seen[n]; !ok {
				seen[n] = struct{}{}
				result = append(result, n)
			}
		}
	}
	return result
}

// The segment u→w crosses a constrained edge. Split that edge where they
// cross, and insert the segment as two halves meeting at the new vertex.
func (m *Mesh) splitCrossing(u, w, edgeID, id int) error {
	edge := m.edges[edgeID]
	pu, pw := m.position(u), m.position(w)
	pa, pb := m.position(edge.A), m.position(edge.B)
	x, ok := SegmentIntersection(pu, pw, pa, pb)
	if !ok {
		x, ok = lineIntersection(pu, pw, pa, pb)
	}
	if !ok {
		fatalf("segment %d-%d crosses edge %d-%d but does not intersect it", u, w, edge.A, edge.B)
	}
	m.log.Debug("splitting crossed constraint",
		zap.Int("constraint", id), zap.Ints("crossed", edge.Constraints.Sorted()))
	v := m.SplitEdge(edgeID, x)
	if v == u || v == w {
		fatalf("crossing of %d-%d with edge %d-%d collapsed onto an endpoint", u, w, edge.A, edge.B)
	}
	if err := m.InsertSegment(u, v, id); err != nil {
		return err
	}
	return m.InsertSegment(v, w, id)
}

func (m *Mesh) skipSegment(u, w, id int, reason string) error {
	if m.options.StrictConstraints {
		return errors.Errorf("constraint %d: segment %d-%d %s", id, u, w, reason)
	}
	m.stats.SkippedSegments++
	m.log.Warn("dropping constraint segment",
		zap.Int("constraint", id), zap.Int("from", u), zap.Int("to", w),
		zap.String("reason", reason))
	return nil
}

// Triangulate the pseudo-polygon made of the base a→b and the chain of
// vertices to its left, running from a's end to b's end. The apex over the
// base is the chain vertex whose circumcircle with a and b holds no other chain
// vertex, and the pieces on either side of the apex are triangulated the same
// way. Appends counterclockwise triangles to out.
func (m *Mesh) triangulatePseudoPolygon(a, b int, chain []int, out [][3]int) [][3]int {
	if len(chain) == 0 {
		return out
	}
	pa, pb := m.position(a), m.position(b)
	best := None
	for i, v := range chain {
		pv := m.position(v)
		if Orient(pa, pb, pv) != CounterClockwise {
			continue
		}
		if best == None || !IsLocallyDelaunay(pa, pb, m.position(chain[best]), pv) {
			best = i
		}
	}
	if best == None {
		fatalf("no apex for base %d-%d among %v", a, b, chain)
	}
	c := chain[best]
	out = m.triangulatePseudoPolygon(a, c, chain[:best], out)
	out = m.triangulatePseudoPolygon(c, b, chain[best+1:], out)
	return append(out, [3]int{a, b, c})
}

// Edges properly crossed by the segment pq, nearest to p first. A linear scan,
// meant for diagnostics.
func (m *Mesh) CrossingEdges(p, q Point) []int {
	type crossing struct {
		edge     int
		distance float64
	}
	var crossings []crossing
	for id := range m.edges {
		edge := &m.edges[id]
		if edge.dead {
			continue
		}
		if x, ok := SegmentIntersection(p, q, m.position(edge.A), m.position(edge.B)); ok {
			crossings = append(crossings, crossing{id, Distance(p, x)})
		}
	}
	sort.Slice(crossings, func(i, j int) bool {
		return crossings[i].distance < crossings[j].distance
	})
	result := make([]int, len(crossings))
	for i, c := range crossings {
		result[i] = c.edge
	}
	return result
}

func reversed(list []int) []int {
	result := make([]int, len(list))
	for i, v := range list {
		result[len(list)-1-i] = v
	}
	return result
}
