package contour

// DefaultSmoothingIterations is the Chaikin pass count applied to
// extracted contours.
const DefaultSmoothingIterations = 2

// Smooth applies Chaikin corner cutting to a polyline for the given
// number of iterations. Each segment P0→P1 is replaced by the two points
// 0.75·P0+0.25·P1 and 0.25·P0+0.75·P1. Open polylines keep their first
// and last points anchored; closed polylines wrap the cut around the
// seam and re-close exactly. Polylines with fewer than 3 points are
// returned unchanged.
func Smooth(p Polyline, iterations int) Polyline {
	if len(p) < 3 {
		return p
	}
	closed := p.Closed()
	out := p
	for i := 0; i < iterations; i++ {
		if closed {
			out = chaikinClosed(out)
		} else {
			out = chaikinOpen(out)
		}
	}
	return out
}

// SmoothAll smooths every polyline in the set.
func SmoothAll(lines []Polyline, iterations int) []Polyline {
	out := make([]Polyline, len(lines))
	for i, p := range lines {
		out[i] = Smooth(p, iterations)
	}
	return out
}

func cut(a, b Point) (Point, Point) {
	q := Point{X: 0.75*a.X + 0.25*b.X, Y: 0.75*a.Y + 0.25*b.Y}
	r := Point{X: 0.25*a.X + 0.75*b.X, Y: 0.25*a.Y + 0.75*b.Y}
	return q, r
}

func chaikinOpen(p Polyline) Polyline {
	out := make(Polyline, 0, 2*len(p))
	out = append(out, p[0])
	for i := 0; i < len(p)-1; i++ {
		q, r := cut(p[i], p[i+1])
		out = append(out, q, r)
	}
	out = append(out, p[len(p)-1])
	return out
}

func chaikinClosed(p Polyline) Polyline {
	// Drop the duplicated closing point, cut every ring segment
	// including the seam, then re-close.
	ring := p[:len(p)-1]
	out := make(Polyline, 0, 2*len(ring)+1)
	for i := 0; i < len(ring); i++ {
		q, r := cut(ring[i], ring[(i+1)%len(ring)])
		out = append(out, q, r)
	}
	out = append(out, out[0])
	return out
}
