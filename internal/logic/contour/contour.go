// Package contour extracts iso-value polylines from sampled scalar grids
// using marching squares, stitches the cell-local segments into open and
// closed polylines over an edge-crossing graph, and smooths the result
// with Chaikin corner cutting.
package contour

import (
	"math"

	"github.com/fgaudin/luxgrid/internal/logic/sampling"
)

// Point is a 2D point in the grid's world coordinates.
type Point struct {
	X float64
	Y float64
}

// Polyline is an ordered point sequence. A closed polyline repeats its
// first point at the end; an open one has two distinct endpoints.
type Polyline []Point

// closeEpsilon is the coordinate tolerance for detecting a closed
// polyline by comparing its first and last points.
const closeEpsilon = 1e-9

// Closed reports whether the polyline ends where it starts.
func (p Polyline) Closed() bool {
	if len(p) < 3 {
		return false
	}
	first, last := p[0], p[len(p)-1]
	return math.Abs(first.X-last.X) < closeEpsilon && math.Abs(first.Y-last.Y) < closeEpsilon
}

// ExtractSmoothed extracts the iso-contours of a grid and applies the
// default Chaikin smoothing to every polyline.
func ExtractSmoothed(grid *sampling.Grid, threshold float64) ([]Polyline, error) {
	lines, err := Extract(grid, threshold)
	if err != nil {
		return nil, err
	}
	return SmoothAll(lines, DefaultSmoothingIterations), nil
}
