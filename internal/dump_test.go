package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	m := UnitSquare(t, Options{})
	require.True(t, m.MarkConstrained(0, 2, 6))

	var buffer bytes.Buffer
	m.Dump(&buffer)
	output := buffer.String()
	assert.True(t, strings.HasPrefix(output, "Mesh: 4 vertices, 5 edges, 2 faces\n"), output)
	assert.Contains(t, output, "boundary")
	assert.Contains(t, output, "Constrained:")
	assert.Contains(t, output, "[6]")

	// Both faces touch the boundary, so they get the same color, but different
	// names
	assert.NotEqual(t, m.FaceDbgName(0), m.FaceDbgName(1))
	assert.Equal(t, m.FaceDbgName(0), m.FaceDbgName(0))
}

func TestFaceDbgName_Interior(t *testing.T) {
	m := Grid(t, 4, 0, 0, Options{})
	// The faces of the middle cell touch no boundary
	sym, ok := m.SymFor(5, 10)
	require.True(t, ok)
	face := m.Sym(sym).Face
	require.False(t, m.isBoundaryFace(face))
	assert.False(t, m.hasConstrainedEdge(face))

	plain := m.FaceDbgName(face)
	require.True(t, m.MarkConstrained(5, 10, 0))
	assert.True(t, m.hasConstrainedEdge(face))
	assert.NotEqual(t, plain, m.FaceDbgName(face), "constrained faces are colored differently")
}

func TestDrawPNG(t *testing.T) {
	m := Grid(t, 5, 0.1, 1, Options{})
	require.NoError(t, m.InsertConstraint([]Point{{X: 0.5, Y: 0.5}, {X: 3.5, Y: 2.5}}, 0))

	path := filepath.Join(t.TempDir(), "mesh.png")
	require.NoError(t, m.DrawPNG(path, DrawOptions{Scale: 20, LabelFaces: true, LabelVertices: true}))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	t.Run("empty mesh", func(t *testing.T) {
		assert.Error(t, NewMesh(Options{}).DrawPNG(filepath.Join(t.TempDir(), "empty.png"), DrawOptions{}))
	})

	t.Run("unwritable path", func(t *testing.T) {
		err := m.DrawPNG(filepath.Join(t.TempDir(), "missing", "mesh.png"), DrawOptions{Scale: 10})
		assert.Error(t, err)
	})
}

func TestImgcat(t *testing.T) {
	m := UnitSquare(t, Options{})
	var buffer bytes.Buffer
	require.NoError(t, m.imgcatTo(&buffer, filepath.Join(t.TempDir(), "preview.png"), DrawOptions{Scale: 50}))
	assert.Contains(t, buffer.String(), "1337;File=")

	t.Run("drawing fails", func(t *testing.T) {
		buffer.Reset()
		err := m.imgcatTo(&buffer, filepath.Join(t.TempDir(), "missing", "preview.png"), DrawOptions{Scale: 50})
		assert.Error(t, err)
		assert.Zero(t, buffer.Len())
	})
}
