package internal

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

type LocateKind int

const (
	Outside LocateKind = iota
	AtVertex
	OnEdge
	InFace
)

func (k LocateKind) String() string {
	switch k {
	case AtVertex:
		return "AtVertex"
	case OnEdge:
		return "OnEdge"
	case InFace:
		return "InFace"
	}
	return "Outside"
}

// Outcome of locating a point. Only the index matching Kind is meaningful;
// the others are None. OnEdge results also carry the face the point was found
// from.
type LocateResult struct {
	Kind   LocateKind
	Vertex int
	Edge   int
	Face   int
}

func (r LocateResult) String() string {
	switch r.Kind {
	case AtVertex:
		return fmt.Sprintf("AtVertex(%d)", r.Vertex)
	case OnEdge:
		return fmt.Sprintf("OnEdge(%d)", r.Edge)
	case InFace:
		return fmt.Sprintf("InFace(%d)", r.Face)
	}
	return "Outside"
}

func outside() LocateResult {
	return LocateResult{Kind: Outside, Vertex: None, Edge: None, Face: None}
}

func atVertex(v int) LocateResult {
	return LocateResult{Kind: AtVertex, Vertex: v, Edge: None, Face: None}
}

func onEdge(edge, face int) LocateResult {
	return LocateResult{Kind: OnEdge, Vertex: None, Edge: edge, Face: face}
}

func inFace(face int) LocateResult {
	return LocateResult{Kind: InFace, Vertex: None, Edge: None, Face: face}
}

// Find where p sits in the mesh. A point coinciding with a vertex is always
// reported as AtVertex, never as lying on one of its edges or faces, and a
// point on an edge is never reported as inside a face.
func (m *Mesh) Locate(p Point) LocateResult {
	if m.liveFaces == 0 {
		return outside()
	}
	margin := r2.Point{X: OrientationEpsilon, Y: OrientationEpsilon}
	if !m.bounds.Expanded(margin).ContainsPoint(p) {
		return outside()
	}
	if m.options.Locator == ScanLocator {
		return m.LocateBruteForce(p)
	}
	return m.walk(p)
}

// Jump-and-walk. Jump to the sampled face with the vertex nearest p, then walk
// across edges that separate p from the current face's centroid. The walk
// gives up and scans when it revisits a face (possible on non-Delaunay meshes,
// or through floating point noise) or when it is blocked by the boundary,
// which on a non-convex domain doesn't prove p is outside.
func (m *Mesh) walk(p Point) LocateResult {
	face := m.startFace(p)
	visited := make(map[int]struct{})
	for {
		visited[face] = struct{}{}
		f := &m.faces[face]
		for _, v := range f.Vertices {
			if Distance(p, m.position(v)) < OrientationEpsilon {
				return atVertex(v)
			}
		}

		a, b, c := m.facePoints(face)
		centroid := Centroid(a, b, c)
		collinearEdge := None
		var separating []int
		// Start from a random edge so that walks on non-Delaunay meshes don't
		// fall into the same loop every time
		offset := m.rng.Intn(3)
		for k := 0; k < 3; k++ {
			i := (offset + k) % 3
			start := m.position(f.Vertices[i])
			end := m.position(f.Vertices[CircularIndex(i+1, 3)])
			side := Orient(start, end, p)
			if side == Collinear {
				collinearEdge = i
				continue
			}
			if side != Orient(start, end, centroid) {
				separating = append(separating, i)
			}
		}

		if len(separating) == 0 {
			if collinearEdge != None {
				return onEdge(f.Edges[collinearEdge], face)
			}
			return inFace(face)
		}

		next := None
		for _, i := range separating {
			sym, ok := m.SymFor(f.Vertices[i], f.Vertices[CircularIndex(i+1, 3)])
			if !ok {
				fatalf("face %d is missing half-edge %d", face, i)
			}
			if neighbor, ok := m.NeighborFace(sym); ok {
				next = neighbor
				break
			}
		}
		if next == None {
			return m.LocateBruteForce(p)
		}
		if _, seen := visited[next]; seen {
			return m.LocateBruteForce(p)
		}
		face = next
	}
}

// Pick the start of a walk: the face, among a random sample of about
// cbrt(faces) live faces, that has the vertex nearest p.
func (m *Mesh) startFace(p Point) int {
	sampleSize := int(math.Ceil(math.Cbrt(float64(m.liveFaces))))
	best := None
	bestDistance := math.Inf(1)
	for attempts := 0; sampleSize > 0 && attempts < 4*sampleSize+8; attempts++ {
		id := m.rng.Intn(len(m.faces))
		if m.faces[id].dead {
			continue
		}
		sampleSize--
		for _, v := range m.faces[id].Vertices {
			if d := Distance(p, m.position(v)); d < bestDistance {
				bestDistance = d
				best = id
			}
		}
	}
	if best == None {
		// Heavily tombstoned arena; fall back to the newest live face
		for id := len(m.faces) - 1; id >= 0; id-- {
			if !m.faces[id].dead {
				return id
			}
		}
	}
	return best
}

// Reference point location: scan every face. Vertex coincidence is checked
// before edges, and edges before face interiors, so the priority rules hold
// no matter the scan order.
func (m *Mesh) LocateBruteForce(p Point) LocateResult {
	for id := range m.faces {
		if m.faces[id].dead {
			continue
		}
		for _, v := range m.faces[id].Vertices {
			if Distance(p, m.position(v)) < OrientationEpsilon {
				return atVertex(v)
			}
		}
	}
	for id := range m.faces {
		f := &m.faces[id]
		if f.dead {
			continue
		}
		for i := range f.Vertices {
			if PointOnSegment(p, m.position(f.Vertices[i]), m.position(f.Vertices[CircularIndex(i+1, 3)])) {
				return onEdge(f.Edges[i], id)
			}
		}
	}
	for id := range m.faces {
		if m.faces[id].dead {
			continue
		}
		a, b, c := m.facePoints(id)
		if Orient(a, b, p) != Clockwise && Orient(b, c, p) != Clockwise && Orient(c, a, p) != Clockwise {
			return inFace(id)
		}
	}
	return outside()
}
