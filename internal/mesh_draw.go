package internal

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fogleman/gg"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/osuushi/cdt/dbg"
	"github.com/pkg/errors"
)

// Padding around the mesh so that boundary edges aren't clipped
const drawPadding = 40

type DrawOptions struct {
	// Pixels per mesh unit
	Scale float64
	// Label faces with readable names
	LabelFaces bool
	// Label vertices with their indices
	LabelVertices bool
}

// Render the mesh to a PNG file. Constrained edges are drawn in red.
func (m *Mesh) DrawPNG(path string, options DrawOptions) error {
	if m.liveFaces == 0 {
		return errors.New("cannot draw an empty mesh")
	}
	if options.Scale <= 0 {
		options.Scale = 1
	}
	c := m.newCanvas(options.Scale)
	m.draw(c, options)
	if err := c.SavePNG(path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}

// Helper to draw the mesh and print it in the terminal (iTerm only) for
// debugging.
func (m *Mesh) dbgDraw(scale float64) {
	path := filepath.Join(os.TempDir(), "mesh.png")
	if err := m.DrawPNG(path, DrawOptions{Scale: scale, LabelFaces: true}); err != nil {
		m.log.Sugar().Errorf("dbgDraw: %v", err)
		return
	}
	imgcat.CatFile(path, os.Stdout)
}

// Draw the mesh and print it to the terminal, for the CLI's preview flag.
func (m *Mesh) Imgcat(options DrawOptions) error {
	return m.imgcatTo(os.Stdout, filepath.Join(os.TempDir(), "cdt-preview.png"), options)
}

func (m *Mesh) imgcatTo(w io.Writer, path string, options DrawOptions) error {
	if err := m.DrawPNG(path, options); err != nil {
		return err
	}
	return errors.Wrap(imgcat.CatFile(path, w), "printing preview")
}

func (m *Mesh) newCanvas(scale float64) *gg.Context {
	bounds := m.bounds
	width := int(scale*bounds.X.Length()) + drawPadding*2
	height := int(scale*bounds.Y.Length()) + drawPadding*2
	c := gg.NewContext(width, height)
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()
	// Flip the context so the origin is at the bottom left
	c.Translate(0, float64(height))
	c.Scale(1, -1)
	c.Translate(drawPadding, drawPadding)
	c.Scale(scale, scale)
	c.Translate(-bounds.X.Lo, -bounds.Y.Lo)
	return c
}

func (m *Mesh) draw(c *gg.Context, options DrawOptions) {
	for id := range m.faces {
		if m.faces[id].dead {
			continue
		}
		a, b, d := m.facePoints(id)
		c.MoveTo(a.X, a.Y)
		c.LineTo(b.X, b.Y)
		c.LineTo(d.X, d.Y)
		c.ClosePath()
		c.SetRGBA(0.3, 0.2, 1, 0.5)
		c.Fill()
	}

	// Line widths are in mesh units after scaling, so undo the scale
	width := 1 / options.Scale
	for id := range m.edges {
		edge := &m.edges[id]
		if edge.dead {
			continue
		}
		a, b := m.position(edge.A), m.position(edge.B)
		c.MoveTo(a.X, a.Y)
		c.LineTo(b.X, b.Y)
		if edge.IsConstrained() {
			c.SetRGB(1, 0, 0)
			c.SetLineWidth(3 * width)
		} else {
			c.SetRGB(0, 1, 0)
			c.SetLineWidth(width)
		}
		c.Stroke()
	}

	if options.LabelFaces {
		for id := range m.faces {
			if m.faces[id].dead {
				continue
			}
			m.drawLabel(c, Centroid(m.facePoints(id)), dbg.Name(id))
		}
	}
	if options.LabelVertices {
		for v := range m.vertices {
			m.drawLabel(c, m.position(v), strconv.Itoa(v))
		}
	}
}

// Text has to be drawn in native coordinates, or it comes out upside down
func (m *Mesh) drawLabel(c *gg.Context, at Point, label string) {
	x, y := c.TransformPoint(at.X, at.Y)
	c.Push()
	c.Identity()
	c.SetRGB(1, 1, 1)
	c.DrawStringAnchored(label, x, y, 0.5, 0.5)
	c.Pop()
}
