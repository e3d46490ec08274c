// Package sampling evaluates the illuminance field over regular 2D grids:
// plan views, elevation views, and the horizontal slice stacks used to
// build volumetric contours.
package sampling

// Grid is a row-major sampled scalar field over a rectangular world-space
// window. Values[gy*Width+gx] holds the field value at the world
// coordinate obtained by mapping grid indices linearly onto each axis.
// A grid is produced once per view and read-only afterwards.
type Grid struct {
	Values []float64
	Width  int
	Height int
	MinX   float64
	MaxX   float64
	MinY   float64
	MaxY   float64
}

// NewGrid allocates a zeroed grid for the given window and resolution.
func NewGrid(width, height int, minX, maxX, minY, maxY float64) *Grid {
	return &Grid{
		Values: make([]float64, width*height),
		Width:  width,
		Height: height,
		MinX:   minX,
		MaxX:   maxX,
		MinY:   minY,
		MaxY:   maxY,
	}
}

// At returns the sampled value at grid cell (gx, gy).
func (g *Grid) At(gx, gy int) float64 {
	return g.Values[gy*g.Width+gx]
}

// set stores a value at grid cell (gx, gy).
func (g *Grid) set(gx, gy int, v float64) {
	g.Values[gy*g.Width+gx] = v
}

// WorldX maps a grid column index to its world coordinate.
func (g *Grid) WorldX(gx int) float64 {
	if g.Width < 2 {
		return g.MinX
	}
	return g.MinX + (g.MaxX-g.MinX)*float64(gx)/float64(g.Width-1)
}

// WorldY maps a grid row index to its world coordinate.
func (g *Grid) WorldY(gy int) float64 {
	if g.Height < 2 {
		return g.MinY
	}
	return g.MinY + (g.MaxY-g.MinY)*float64(gy)/float64(g.Height-1)
}
