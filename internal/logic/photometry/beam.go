package photometry

import (
	"fmt"
	"math"
)

// BeamPoint is one sample of the off-axis intensity attenuation curve.
type BeamPoint struct {
	AngleDeg  float64 // off-axis angle, degrees, >= 0
	Intensity float64 // relative intensity, [0,1]
}

// Pattern is a beam attenuation curve: BeamPoints sorted by ascending
// angle, starting at angle 0. The pattern is assumed symmetric about the
// beam axis, so lookups use the absolute angle.
type Pattern []BeamPoint

// EdgePolicy selects what a beam lookup returns beyond the last defined
// pattern angle.
type EdgePolicy int

const (
	// CutoffBeyond returns 0 outside the defined pattern (hard physical
	// beam cutoff). Required wherever a detection boundary is computed:
	// an undefined beam angle must not contribute energy.
	CutoffBeyond EdgePolicy = iota
	// ClampBeyond holds the last point's intensity outside the pattern.
	ClampBeyond
)

// ValidatePattern checks the pattern preconditions: non-empty, first point
// at angle 0, strictly ascending angles, intensities within [0,1].
func ValidatePattern(p Pattern) error {
	if len(p) == 0 {
		return fmt.Errorf("beam pattern must not be empty")
	}
	if p[0].AngleDeg != 0 {
		return fmt.Errorf("beam pattern must start at angle 0, got %g", p[0].AngleDeg)
	}
	for i, pt := range p {
		if pt.Intensity < 0 || pt.Intensity > 1 {
			return fmt.Errorf("beam intensity must be between 0 and 1, got %g at index %d", pt.Intensity, i)
		}
		if i > 0 && pt.AngleDeg < p[i-1].AngleDeg {
			return fmt.Errorf("beam pattern angles must be ascending, got %g after %g", pt.AngleDeg, p[i-1].AngleDeg)
		}
	}
	return nil
}

// BeamIntensity returns the relative intensity of the pattern at the given
// off-axis angle. The sign of the angle is ignored.
func BeamIntensity(p Pattern, angleDeg float64, policy EdgePolicy) float64 {
	angle := math.Abs(angleDeg)

	// On-axis plateau up to the first defined angle.
	if angle <= p[0].AngleDeg {
		return p[0].Intensity
	}

	last := len(p) - 1
	if angle > p[last].AngleDeg {
		if policy == ClampBeyond {
			return p[last].Intensity
		}
		return 0
	}

	for i := 0; i < last; i++ {
		a, b := p[i], p[i+1]
		if angle >= a.AngleDeg && angle <= b.AngleDeg {
			return interpolate(a.AngleDeg, a.Intensity, b.AngleDeg, b.Intensity, angle)
		}
	}
	return p[last].Intensity
}
