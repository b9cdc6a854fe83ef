package internal

import (
	"embed"
	"log"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/JoshVarga/svgparser"
	"github.com/stretchr/testify/require"
)

// This file loads the svg fixtures as constraint polylines, and builds the
// meshes the tests insert them into. This is not a full (or even correct) svg
// parser. It finds every polyline and polygon element and converts each into
// a Polyline, closing the polygons. If anything goes wrong, it panics.
//
// Fixtures are available by name in the fixtures/ directory, sans extension.
// They are all drawn in the [0, 10] square, to fit the grid meshes below.

//go:embed fixtures
var fixtures embed.FS

func LoadFixture(name string) []Polyline {
	fixture, err := fixtures.Open("fixtures/" + name + ".svg")
	if err != nil {
		log.Fatalf("Could not load fixture %q: %v", name, err)
	}

	defer fixture.Close()
	rootEl, err := svgparser.Parse(fixture, true)
	if err != nil {
		log.Fatalf("Failed to parse fixture %q: %v", name, err)
	}

	var result []Polyline
	for _, tag := range []string{"polyline", "polygon"} {
		for _, el := range rootEl.FindAll(tag) {
			polyline := Polyline{ID: len(result), Points: parsePoints(el.Attributes["points"])}
			if tag == "polygon" {
				polyline = polyline.Closed()
			}
			result = append(result, polyline)
		}
	}
	if len(result) == 0 {
		log.Fatalf("No polylines found in fixture %q", name)
	}
	return result
}

func parsePoints(pointString string) []Point {
	pointStrings := strings.Split(pointString, " ")
	points := make([]Point, 0, len(pointStrings))
	for _, pointString := range pointStrings {
		if pointString == "" {
			continue
		}

		pointStrings := strings.Split(pointString, ",")
		if len(pointStrings) != 2 {
			log.Fatalf("Invalid point string %q", pointString)
		}
		x, err := strconv.ParseFloat(pointStrings[0], 64)
		if err != nil {
			log.Fatalf("Invalid x value %q: %v", pointStrings[0], err)
		}
		y, err := strconv.ParseFloat(pointStrings[1], 64)
		if err != nil {
			log.Fatalf("Invalid y value %q: %v", pointStrings[1], err)
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points
}

// Ad hoc meshes

func buildMesh(t *testing.T, points []Point, triangles []int, options Options) *Mesh {
	t.Helper()
	m, err := BuildMesh(points, triangles, options)
	require.NoError(t, err)
	return m
}

// The unit square, split along the (0,0)-(1,1) diagonal
func UnitSquare(t *testing.T, options Options) *Mesh {
	points := []Point{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 1, Y: 1},
		{X: 0, Y: 1},
	}
	return buildMesh(t, points, []int{0, 1, 2, 0, 2, 3}, options)
}

// A 2x2 square with the top right quarter missing, fanned from the origin
func LShape(t *testing.T, options Options) *Mesh {
	points := []Point{
		{X: 0, Y: 0},
		{X: 2, Y: 0},
		{X: 2, Y: 1},
		{X: 1, Y: 1},
		{X: 1, Y: 2},
		{X: 0, Y: 2},
	}
	return buildMesh(t, points, []int{0, 1, 2, 0, 2, 3, 0, 3, 4, 0, 4, 5}, options)
}

// An n by n grid of points with unit spacing, covering [0, n-1] squared.
// Interior points are moved by up to jitter in each direction, so that the
// grid isn't full of cocircular quadruples. Jitter must stay below 1/6 for
// every triangle to keep its winding. Cells are split along alternating
// diagonals, so the mesh usually starts out far from Delaunay.
func Grid(t *testing.T, n int, jitter float64, seed int64, options Options) *Mesh {
	rng := rand.New(rand.NewSource(seed))
	var points []Point
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			p := Point{X: float64(i), Y: float64(j)}
			if i > 0 && j > 0 && i < n-1 && j < n-1 {
				p.X += jitter * (2*rng.Float64() - 1)
				p.Y += jitter * (2*rng.Float64() - 1)
			}
			points = append(points, p)
		}
	}
	index := func(i, j int) int { return j*n + i }
	var triangles []int
	for j := 0; j+1 < n; j++ {
		for i := 0; i+1 < n; i++ {
			p00, p10, p11, p01 := index(i, j), index(i+1, j), index(i+1, j+1), index(i, j+1)
			if (i+j)%2 == 0 {
				triangles = append(triangles, p00, p10, p11, p00, p11, p01)
			} else {
				triangles = append(triangles, p00, p10, p01, p10, p11, p01)
			}
		}
	}
	return buildMesh(t, points, triangles, options)
}

// An n by n grid sheared into parallelograms and split along their long
// diagonals, so that every interior edge of it starts out illegal.
func ShearedGrid(t *testing.T, n int, options Options) *Mesh {
	return buildMesh(t, shearedGridPoints(n), shearedGridTriangles(n), options)
}

func shearedGridPoints(n int) []Point {
	var points []Point
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			points = append(points, Point{X: float64(i) + 0.8*float64(j), Y: float64(j)})
		}
	}
	return points
}

func shearedGridTriangles(n int) []int {
	index := func(i, j int) int { return j*n + i }
	var triangles []int
	for j := 0; j+1 < n; j++ {
		for i := 0; i+1 < n; i++ {
			p00, p10, p11, p01 := index(i, j), index(i+1, j), index(i+1, j+1), index(i, j+1)
			triangles = append(triangles, p00, p10, p11, p00, p11, p01)
		}
	}
	return triangles
}

// A star polygon centered in the grid fixtures' square
func SimpleStar() Polyline {
	var points []Point
	const outerRadius = 4
	const innerRadius = 1.6
	for i := 0; i < 10; i++ {
		var radius float64
		if i%2 == 0 {
			radius = outerRadius
		} else {
			radius = innerRadius
		}
		angle := 2*math.Pi*float64(i)/10 + 0.1
		points = append(points, Point{X: 5 + radius*math.Cos(angle), Y: 5 + radius*math.Sin(angle)})
	}
	return Polyline{Points: points}.Closed()
}
