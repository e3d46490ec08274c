package photometry

import "math"

// IntensityUnit tags the unit of the configured peak intensity.
type IntensityUnit int

const (
	// Candela is the photometric mode; field values are in lux.
	Candela IntensityUnit = iota
	// WattPerSteradian is the radiometric (infrared) mode; field values
	// are in W/m². The caller converts mW/sr to W/sr before building a
	// Field, the formula itself is unit-agnostic.
	WattPerSteradian
)

const (
	// minDistance is the near-field floor: evaluations at or inside the
	// source housing clamp to this distance instead of diverging.
	minDistance = 0.05
	// backfaceEpsilon: a point whose direction cosine is at or below
	// this is behind the opaque housing and receives nothing.
	backfaceEpsilon = 1e-9
)

// Field is an immutable snapshot of everything needed to evaluate the
// illuminance field: one snapshot feeds one or more grid evaluations and
// is never mutated mid-evaluation.
type Field struct {
	PeakIntensity  float64 // cd or W/sr, per source
	Unit           IntensityUnit
	SpectralFactor float64
	Pattern        Pattern
	Sources        []Orientation
	Attenuation    float64 // atmospheric coefficient, 1/length
	EdgePolicy     EdgePolicy
}

// SourceIlluminance evaluates Allard's Law for a single oriented source at
// the array origin: E = I·S·B(θ)·exp(-α·d)/d². The result is 0 for points
// behind the source or beyond the defined beam pattern.
func (f *Field) SourceIlluminance(x, y, z float64, o Orientation) float64 {
	d := math.Sqrt(x*x + y*y + z*z)
	thetaDeg := 0.0
	if d == 0 {
		// At the source origin the direction is undefined: evaluate
		// on-axis at the clamped floor distance.
		d = minDistance
	} else {
		dx, dy, dz := o.Direction()
		cosTheta := (dx*x + dy*y + dz*z) / d
		if cosTheta <= backfaceEpsilon {
			return 0
		}
		if cosTheta > 1 {
			cosTheta = 1
		}
		thetaDeg = math.Acos(cosTheta) * 180.0 / math.Pi
		if d < minDistance {
			// Inside the housing but off-origin: the angle is real,
			// only the magnitude clamps to the floor distance.
			d = minDistance
		}
	}

	beam := BeamIntensity(f.Pattern, thetaDeg, f.EdgePolicy)
	if beam == 0 {
		return 0
	}

	effective := f.PeakIntensity * f.SpectralFactor * beam
	transmissivity := math.Exp(-f.Attenuation * d)
	return effective * transmissivity / (d * d)
}

// Illuminance sums the single-source contribution over the whole array.
// Sources are independent and additive.
func (f *Field) Illuminance(x, y, z float64) float64 {
	total := 0.0
	for _, o := range f.Sources {
		total += f.SourceIlluminance(x, y, z, o)
	}
	return total
}
