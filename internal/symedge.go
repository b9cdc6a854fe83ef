package internal

import "fmt"

// Half-edge bound to one face. Vertex is the origin; Next walks the face
// counterclockwise; Rot is the next half-edge counterclockwise around the
// origin vertex.
type SymEdge struct {
	Vertex int
	Edge   int
	Face   int
	Next   int
	Rot    int
	dead   bool
}

func (s SymEdge) String() string {
	return fmt.Sprintf("Sym v%d e%d f%d next=%d rot=%d", s.Vertex, s.Edge, s.Face, s.Next, s.Rot)
}

func (m *Mesh) Next(sym int) int {
	return m.syms[sym].Next
}

func (m *Mesh) Rot(sym int) int {
	return m.syms[sym].Rot
}

// The three half-edges of a face, in the order of its vertices.
func (m *Mesh) FaceSyms(face int) [3]int {
	vs := m.faces[face].Vertices
	var result [3]int
	for i := range vs {
		sym, ok := m.SymFor(vs[i], vs[(i+1)%3])
		if !ok {
			fatalf("face %d is missing half-edge %d->%d", face, vs[i], vs[(i+1)%3])
		}
		result[i] = sym
	}
	return result
}

// Follow Rot links around v, starting from its first half-edge, until the
// chain wraps around. Returns nil for a vertex without half-edges.
func (m *Mesh) RotateChain(v int) []int {
	if len(m.vertexSyms[v]) == 0 {
		return nil
	}
	first := m.vertexSyms[v][0]
	chain := []int{first}
	for sym := m.syms[first].Rot; sym != None && sym != first; sym = m.syms[sym].Rot {
		if len(chain) > len(m.vertexSyms[v]) {
			fatalf("rotate chain around vertex %d does not close", v)
		}
		chain = append(chain, sym)
	}
	return chain
}
