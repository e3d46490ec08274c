package photometry

import "math"

// Orientation is the pointing of one physical source in the array.
// Yaw rotates about the vertical axis, pitch about the lateral axis,
// both in radians relative to the forward (+Y) axis.
type Orientation struct {
	Yaw   float64
	Pitch float64
}

// spreadAngles returns n pointing angles (degrees) evenly spaced over a
// symmetric total spread. A single-element sequence collapses to angle 0.
func spreadAngles(n int, totalDeg float64) []float64 {
	if n <= 1 {
		return []float64{0}
	}
	angles := make([]float64, n)
	step := totalDeg / float64(n-1)
	for i := 0; i < n; i++ {
		angles[i] = -totalDeg/2.0 + float64(i)*step
	}
	return angles
}

// Orientations builds the full source array: the Cartesian product of a
// horizontal spread sequence (columns) and a vertical one (rows).
func Orientations(columns, rows int, hSpreadDeg, vSpreadDeg float64) []Orientation {
	hAngles := spreadAngles(columns, hSpreadDeg)
	vAngles := spreadAngles(rows, vSpreadDeg)

	out := make([]Orientation, 0, len(hAngles)*len(vAngles))
	for _, v := range vAngles {
		for _, h := range hAngles {
			out = append(out, Orientation{
				Yaw:   h * math.Pi / 180.0,
				Pitch: v * math.Pi / 180.0,
			})
		}
	}
	return out
}

// Direction returns the unit pointing vector of the orientation in the
// X (lateral), Y (forward), Z (vertical) frame.
func (o Orientation) Direction() (x, y, z float64) {
	cp := math.Cos(o.Pitch)
	return math.Sin(o.Yaw) * cp, math.Cos(o.Yaw) * cp, math.Sin(o.Pitch)
}
