package sampling

import (
	"github.com/fgaudin/luxgrid/internal/logic/photometry"
)

// Window is a rectangular world-space sampling extent on two axes.
type Window struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Slice is one horizontal plane of a volumetric sample stack, tagged with
// the height it was sampled at.
type Slice struct {
	Height float64
	Grid   *Grid
}

// PlanView samples the summed field on a horizontal plane at a fixed
// height. Grid X is the lateral axis, grid Y the forward (range) axis.
// Every grid is computed fresh from the field snapshot; identical inputs
// produce identical grids.
func PlanView(f *photometry.Field, w Window, width, height int, planeHeight float64) *Grid {
	g := NewGrid(width, height, w.MinX, w.MaxX, w.MinY, w.MaxY)
	for gy := 0; gy < height; gy++ {
		y := g.WorldY(gy)
		for gx := 0; gx < width; gx++ {
			x := g.WorldX(gx)
			g.set(gx, gy, f.Illuminance(x, y, planeHeight))
		}
	}
	return g
}

// ElevationView samples the summed field on a vertical plane at a fixed
// lateral offset. Grid X is the forward (range) axis, grid Y the vertical
// axis.
func ElevationView(f *photometry.Field, w Window, width, height int, lateralOffset float64) *Grid {
	g := NewGrid(width, height, w.MinX, w.MaxX, w.MinY, w.MaxY)
	for gy := 0; gy < height; gy++ {
		z := g.WorldY(gy)
		for gx := 0; gx < width; gx++ {
			y := g.WorldX(gx)
			g.set(gx, gy, f.Illuminance(lateralOffset, y, z))
		}
	}
	return g
}

// Slices samples a stack of horizontal planes between minHeight and
// maxHeight (inclusive), for volumetric contouring. A count below 2
// produces a single slice at minHeight.
func Slices(f *photometry.Field, w Window, width, height, count int, minHeight, maxHeight float64) []Slice {
	if count < 2 {
		return []Slice{{Height: minHeight, Grid: PlanView(f, w, width, height, minHeight)}}
	}
	out := make([]Slice, 0, count)
	step := (maxHeight - minHeight) / float64(count-1)
	for i := 0; i < count; i++ {
		h := minHeight + float64(i)*step
		out = append(out, Slice{Height: h, Grid: PlanView(f, w, width, height, h)})
	}
	return out
}
