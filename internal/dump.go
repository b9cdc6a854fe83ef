package internal

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/osuushi/cdt/dbg"
)

// Readable, colored name for a face. Faces touching the boundary are cyan,
// faces with a constrained edge are red, and the rest are green.
func (m *Mesh) FaceDbgName(id int) string {
	name := dbg.Name(id)
	switch {
	case m.isBoundaryFace(id):
		return aurora.Cyan(name).String()
	case m.hasConstrainedEdge(id):
		return aurora.Red(name).String()
	}
	return aurora.Green(name).String()
}

// Write a human readable listing of every live face, with its half-edges and
// their neighbors, followed by the constrained edges.
func (m *Mesh) Dump(w io.Writer) {
	fmt.Fprintf(w, "Mesh: %d vertices, %d edges, %d faces\n", len(m.vertices), len(m.edgeIndex), m.liveFaces)
	for id := range m.faces {
		if m.faces[id].dead {
			continue
		}
		face := &m.faces[id]
		fmt.Fprintf(w, "%s %s\n", m.FaceDbgName(id), face)
		for i, sym := range m.FaceSyms(id) {
			neighbor := "boundary"
			if other, ok := m.NeighborFace(sym); ok {
				neighbor = m.FaceDbgName(other)
			}
			edge := &m.edges[face.Edges[i]]
			marker := ""
			if edge.IsConstrained() {
				marker = aurora.Red(fmt.Sprint(edge.Constraints.Sorted())).String()
			}
			fmt.Fprintf(w, "  %d->%d | %s %s\n", m.syms[sym].Vertex, m.SymTo(sym), neighbor, marker)
		}
	}

	var constrained []string
	for _, edge := range m.Edges() {
		if edge.IsConstrained() {
			constrained = append(constrained, edge.String())
		}
	}
	if len(constrained) > 0 {
		fmt.Fprintf(w, "Constrained:\n  %s\n", strings.Join(constrained, "\n  "))
	}
}

func (m *Mesh) isBoundaryFace(id int) bool {
	for _, sym := range m.FaceSyms(id) {
		if _, ok := m.Neighbor(sym); !ok {
			return true
		}
	}
	return false
}

func (m *Mesh) hasConstrainedEdge(id int) bool {
	for _, edgeID := range m.faces[id].Edges {
		if m.edges[edgeID].IsConstrained() {
			return true
		}
	}
	return false
}
