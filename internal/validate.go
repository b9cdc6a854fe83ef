package internal

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Check the structural invariants of the mesh: winding, the agreement between
// faces, edges, half-edges and their indices, and the rotate chains. Returns
// every violation found, combined into one error, or nil.
func (m *Mesh) Validate() error {
	var err error
	add := func(format string, args ...interface{}) {
		err = multierr.Append(err, errors.Errorf(format, args...))
	}

	live := 0
	halfEdges := 0
	for id := range m.faces {
		face := &m.faces[id]
		if face.dead {
			continue
		}
		live++
		a, b, c := m.facePoints(id)
		if !(SignedArea(a, b, c) > 0) {
			add("face %d is not counterclockwise", id)
		}
		for i, from := range face.Vertices {
			to := face.Vertices[CircularIndex(i+1, 3)]
			halfEdges++
			sym, ok := m.symIndex[halfEdge{from, to}]
			if !ok {
				add("face %d has no half-edge %d->%d", id, from, to)
				continue
			}
			s := &m.syms[sym]
			if s.dead || s.Face != id || s.Vertex != from || m.SymTo(sym) != to {
				add("half-edge %d->%d does not belong to face %d", from, to, id)
			}
			edgeID, ok := m.edgeIndex[keyOf(from, to)]
			if !ok || edgeID != face.Edges[i] || s.Edge != edgeID {
				add("face %d edge %d does not match the edge index", id, i)
			} else if m.edges[edgeID].dead {
				add("face %d references deleted edge %d", id, edgeID)
			}
		}
	}
	if live != m.liveFaces {
		add("%d live faces, but the count says %d", live, m.liveFaces)
	}
	if halfEdges != len(m.symIndex) {
		add("%d half-edges on live faces, but %d indexed", halfEdges, len(m.symIndex))
	}

	refs := make(map[int]int)
	for key, sym := range m.symIndex {
		s := &m.syms[sym]
		if s.dead {
			add("half-edge %d->%d is indexed but dead", key[0], key[1])
			continue
		}
		if !m.HasFace(s.Face) {
			add("half-edge %d->%d references removed face %d", key[0], key[1], s.Face)
		}
		refs[s.Edge]++
		if neighbor, ok := m.Neighbor(sym); ok {
			if back, ok := m.Neighbor(neighbor); !ok || back != sym {
				add("half-edge %d->%d and its neighbor disagree", key[0], key[1])
			}
		} else if _, ok := m.symIndex[halfEdge{key[1], key[0]}]; ok {
			add("half-edge %d->%d has a twin its rotate chain can't reach", key[0], key[1])
		}
	}
	for key, edgeID := range m.edgeIndex {
		edge := &m.edges[edgeID]
		if edge.dead || keyOf(edge.A, edge.B) != key {
			add("edge index entry %v points at the wrong edge", key)
		}
		if refs[edgeID] != edge.refs || edge.refs < 1 || edge.refs > 2 {
			add("edge %d-%d has %d half-edges but counts %d", edge.A, edge.B, refs[edgeID], edge.refs)
		}
	}

	for v := range m.vertices {
		if e := m.validateRotations(v); e != nil {
			err = multierr.Append(err, e)
		}
	}
	return err
}

func (m *Mesh) validateRotations(v int) error {
	syms := m.vertexSyms[v]
	for _, s := range syms {
		if m.syms[s].dead || m.syms[s].Vertex != v {
			return errors.Errorf("vertex %d lists half-edge %d it does not own", v, s)
		}
	}
	if len(syms) < 2 {
		return nil
	}
	origin := m.position(v)
	angle := func(s int) float64 {
		d := m.position(m.SymTo(s)).Sub(origin)
		return math.Atan2(d.Y, d.X)
	}
	// Around the full circle, a sorted chain decreases exactly once, at the
	// wraparound
	chain := m.RotateChain(v)
	if len(chain) != len(syms) {
		return errors.Errorf("rotate chain around vertex %d has %d of %d half-edges", v, len(chain), len(syms))
	}
	descents := 0
	for i, s := range chain {
		if angle(m.syms[s].Rot) < angle(s) {
			descents++
		}
		if m.syms[s].Rot != chain[(i+1)%len(chain)] {
			return errors.Errorf("rotate chain around vertex %d is not closed", v)
		}
	}
	if descents != 1 {
		return errors.Errorf("rotate chain around vertex %d is not counterclockwise", v)
	}
	return nil
}

// Check that every unconstrained interior edge is locally Delaunay.
func (m *Mesh) ValidateDelaunay() error {
	var err error
	for key, edgeID := range m.edgeIndex {
		if m.edges[edgeID].IsConstrained() {
			continue
		}
		sym, ok := m.symIndex[halfEdge{key[0], key[1]}]
		if !ok {
			continue
		}
		neighbor, ok := m.Neighbor(sym)
		if !ok {
			continue
		}
		a, b, c := m.facePoints(m.syms[sym].Face)
		d := m.faces[m.syms[neighbor].Face].Opposite(key[0], key[1])
		if !IsLocallyDelaunay(a, b, c, m.position(d)) {
			err = multierr.Append(err, errors.Errorf("edge %d-%d is not locally Delaunay", key[0], key[1]))
		}
	}
	return err
}

// V - E + F over the vertices that belong to at least one face. One for a
// triangulated disc; each hole in the domain lowers it by one.
func (m *Mesh) EulerCharacteristic() int {
	used := 0
	for v := range m.vertices {
		if len(m.vertexSyms[v]) > 0 {
			used++
		}
	}
	return used - len(m.edgeIndex) + m.liveFaces
}
