// Constrained Delaunay triangulation for Go.
//
// This package takes an existing triangle mesh over a set of planar points and
// maintains it as a constrained Delaunay triangulation: polylines can be
// inserted as constraints, which then appear in the mesh as chains of edges,
// while every other edge stays locally Delaunay.
package cdt

import (
	"io"

	"github.com/osuushi/cdt/internal"
)

type Point = internal.Point
type Options = internal.Options
type Stats = internal.Stats
type Polyline = internal.Polyline
type Vertex = internal.Vertex
type Edge = internal.Edge
type Face = internal.Face
type LocateResult = internal.LocateResult
type LocateKind = internal.LocateKind
type DrawOptions = internal.DrawOptions
type LocatorStrategy = internal.LocatorStrategy

const (
	Outside  = internal.Outside
	AtVertex = internal.AtVertex
	OnEdge   = internal.OnEdge
	InFace   = internal.InFace
)

const (
	OrientationEpsilon = internal.OrientationEpsilon
	InCircleEpsilon    = internal.InCircleEpsilon
)

const (
	WalkLocator = internal.WalkLocator
	ScanLocator = internal.ScanLocator
)

type Triangulation struct {
	mesh *internal.Mesh
}

// Build a triangulation from vertex positions and a flat list of triangle
// vertex indices, three per triangle. Triangles may wind either way. Vertices
// that no triangle references are kept, but are not part of the mesh.
//
// A nil options pointer means the defaults.
func Build(vertices []Point, triangles []int, options *Options) (*Triangulation, error) {
	var o Options
	if options != nil {
		o = *options
	}
	mesh, err := internal.BuildMesh(vertices, triangles, o)
	if err != nil {
		return nil, err
	}
	return &Triangulation{mesh: mesh}, nil
}

// Insert a constraint polyline with the given id. See Options for how points
// outside the mesh are treated.
func (t *Triangulation) InsertConstraint(points []Point, id int) (err error) {
	defer recoverMeshError(&err)
	return t.mesh.InsertConstraint(points, id)
}

// Insert polylines in order, stopping at the first error.
func (t *Triangulation) InsertConstraints(polylines []Polyline) (err error) {
	defer recoverMeshError(&err)
	for _, polyline := range polylines {
		if err := t.mesh.InsertConstraint(polyline.Points, polyline.ID); err != nil {
			return err
		}
	}
	return nil
}

// Find where p lies in the mesh. An error means the mesh itself is broken.
func (t *Triangulation) Locate(p Point) (result LocateResult, err error) {
	defer recoverMeshError(&err)
	return t.mesh.Locate(p), nil
}

// Flip edges until every unconstrained edge is locally Delaunay. Returns the
// number of flips.
func (t *Triangulation) Delaunize() (flips int, err error) {
	defer recoverMeshError(&err)
	return t.mesh.LegalizeAll(), nil
}

func (t *Triangulation) Vertices() []Vertex {
	return t.mesh.Vertices()
}

func (t *Triangulation) VertexPositions() []Point {
	vertices := t.mesh.Vertices()
	positions := make([]Point, len(vertices))
	for i, v := range vertices {
		positions[i] = v.Position
	}
	return positions
}

func (t *Triangulation) Edges() []Edge {
	return t.mesh.Edges()
}

// Edges carrying at least one constraint id
func (t *Triangulation) ConstrainedEdges() []Edge {
	var result []Edge
	for _, edge := range t.mesh.Edges() {
		if edge.IsConstrained() {
			result = append(result, edge)
		}
	}
	return result
}

func (t *Triangulation) Faces() []Face {
	return t.mesh.Faces()
}

// Vertex indices of every face, counterclockwise.
func (t *Triangulation) Triangles() [][3]int {
	faces := t.mesh.Faces()
	result := make([][3]int, len(faces))
	for i, face := range faces {
		result[i] = face.Vertices
	}
	return result
}

// Check the mesh's structural invariants.
func (t *Triangulation) Validate() (err error) {
	defer recoverMeshError(&err)
	return t.mesh.Validate()
}

// Check that every unconstrained interior edge is locally Delaunay.
func (t *Triangulation) ValidateDelaunay() (err error) {
	defer recoverMeshError(&err)
	return t.mesh.ValidateDelaunay()
}

func (t *Triangulation) Stats() Stats {
	return t.mesh.Stats()
}

func (t *Triangulation) DrawPNG(path string, options DrawOptions) error {
	return t.mesh.DrawPNG(path, options)
}

// Draw the mesh straight to the terminal (iTerm only).
func (t *Triangulation) Imgcat(options DrawOptions) error {
	return t.mesh.Imgcat(options)
}

func (t *Triangulation) Dump(w io.Writer) {
	t.mesh.Dump(w)
}

func recoverMeshError(err *error) {
	recoveredErr := internal.HandleMeshPanicRecover(recover())
	if recoveredErr != nil {
		*err = recoveredErr
	}
}
