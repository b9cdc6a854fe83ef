package internal

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r2"
)

// Geometric predicates. These are pure functions over points, with no mesh
// state. The two epsilons below are the only robustness tuning points in the
// package, and are part of the public contract.

type Point = r2.Point

const (
	// Distance from a line below which a point is considered to lie on it.
	OrientationEpsilon = 1e-6
	// In-circle determinant values at or below this are treated as "not
	// inside", which damps flip cycles on cocircular point sets.
	InCircleEpsilon = 1e-8
)

type Orientation int

const (
	Collinear Orientation = iota
	CounterClockwise
	Clockwise
)

func (o Orientation) String() string {
	switch o {
	case CounterClockwise:
		return "CounterClockwise"
	case Clockwise:
		return "Clockwise"
	}
	return "Collinear"
}

// Orientation of the turn a→b→c. The cross product is divided by |b-a| so the
// result is the distance of c from the line through a and b, which lets one
// epsilon behave consistently for edges of any length.
func Orient(a, b, c Point) Orientation {
	ab := a.Sub(b)
	ac := a.Sub(c)
	cross := ab.Cross(ac)
	length := b.Sub(a).Norm()
	if length == 0 || math.Abs(cross)/length < OrientationEpsilon {
		return Collinear
	}
	if cross > 0 {
		return CounterClockwise
	}
	return Clockwise
}

// Twice the signed area of the triangle abc. Positive for counterclockwise
// triangles.
func SignedArea(a, b, c Point) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// Lifted-paraboloid in-circle determinant, using d as the origin. For a
// counterclockwise triangle abc the result is positive iff d lies strictly
// inside its circumcircle.
func InCircle(a, b, c, d Point) float64 {
	ad := a.Sub(d)
	bd := b.Sub(d)
	cd := c.Sub(d)
	// mgl64 matrices are column major, so each column is one lifted point
	m := mgl64.Mat3{
		ad.X, ad.Y, ad.Dot(ad),
		bd.X, bd.Y, bd.Dot(bd),
		cd.X, cd.Y, cd.Dot(cd),
	}
	return m.Det()
}

// Is the edge opposite d locally Delaunay? True when d is not inside the
// circumcircle of the counterclockwise triangle abc, within InCircleEpsilon.
func IsLocallyDelaunay(a, b, c, d Point) bool {
	return InCircle(a, b, c, d) <= InCircleEpsilon
}

// The intersection point of the open segments pq and rs, if they properly
// cross. Segments that merely touch at (or within epsilon of) an endpoint do
// not count.
func SegmentIntersection(p, q, r, s Point) (Point, bool) {
	if Orient(p, q, r) == Orient(p, q, s) || Orient(r, s, p) == Orient(r, s, q) {
		return Point{}, false
	}
	x, ok := lineIntersection(p, q, r, s)
	if !ok {
		return Point{}, false
	}
	for _, endpoint := range []Point{p, q, r, s} {
		if x.Sub(endpoint).Norm() < OrientationEpsilon {
			return Point{}, false
		}
	}
	return x, true
}

// Intersection of the infinite lines through pq and rs.
func lineIntersection(p, q, r, s Point) (Point, bool) {
	pq := q.Sub(p)
	rs := s.Sub(r)
	denominator := pq.Cross(rs)
	if denominator == 0 {
		return Point{}, false
	}
	t := r.Sub(p).Cross(rs) / denominator
	return p.Add(pq.Mul(t)), true
}

func Centroid(a, b, c Point) Point {
	return a.Add(b).Add(c).Mul(1.0 / 3)
}

// Barycentric containment test, tolerant of points on the boundary.
func PointInTriangle(p, a, b, c Point) bool {
	v0 := c.Sub(a)
	v1 := b.Sub(a)
	v2 := p.Sub(a)
	dot00 := v0.Dot(v0)
	dot01 := v0.Dot(v1)
	dot02 := v0.Dot(v2)
	dot11 := v1.Dot(v1)
	dot12 := v1.Dot(v2)
	denominator := dot00*dot11 - dot01*dot01
	if denominator == 0 {
		return false
	}
	u := (dot11*dot02 - dot01*dot12) / denominator
	v := (dot00*dot12 - dot01*dot02) / denominator
	return u >= -OrientationEpsilon && v >= -OrientationEpsilon && u+v <= 1+OrientationEpsilon
}

// Project p onto the segment ab. Returns the projected point and the clamped
// parameter t in [0, 1].
func ProjectOntoSegment(p, a, b Point) (Point, float64) {
	ab := b.Sub(a)
	lengthSquared := ab.Dot(ab)
	if lengthSquared == 0 {
		return a, 0
	}
	t := p.Sub(a).Dot(ab) / lengthSquared
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Mul(t)), t
}

// Is p on the closed segment ab, within OrientationEpsilon?
func PointOnSegment(p, a, b Point) bool {
	projected, _ := ProjectOntoSegment(p, a, b)
	return projected.Sub(p).Norm() < OrientationEpsilon
}

// Neither coordinate is NaN or infinite.
func IsFinite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func Distance(a, b Point) float64 {
	return a.Sub(b).Norm()
}

// Often we want to treat an array as a circular buffer. This gives the modular
// index given length n, but unlike the raw modulo operator, it only gives positive values
func CircularIndex(i, n int) int {
	return (i%n + n) % n
}
