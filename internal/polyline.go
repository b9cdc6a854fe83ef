package internal

// A constraint: a chain of points to be joined by mesh edges. A polyline whose
// last point repeats its first is closed.
type Polyline struct {
	ID     int
	Points []Point
}

func (p Polyline) IsClosed() bool {
	n := len(p.Points)
	return n > 2 && Distance(p.Points[0], p.Points[n-1]) < OrientationEpsilon
}

// Close the polyline by repeating its first point, if it is not closed already.
func (p Polyline) Closed() Polyline {
	if p.IsClosed() || len(p.Points) < 3 {
		return p
	}
	points := make([]Point, len(p.Points), len(p.Points)+1)
	copy(points, p.Points)
	return Polyline{ID: p.ID, Points: append(points, p.Points[0])}
}
