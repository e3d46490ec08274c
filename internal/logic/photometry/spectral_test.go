package photometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const epsilon = 1e-9

func TestInterpolate_Boundaries(t *testing.T) {
	assert.InDelta(t, 2.0, interpolate(0, 2, 10, 8, 0), epsilon)
	assert.InDelta(t, 8.0, interpolate(0, 2, 10, 8, 10), epsilon)
	assert.InDelta(t, 5.0, interpolate(0, 2, 10, 8, 5), epsilon)
}

func TestInterpolate_Monotonic(t *testing.T) {
	prev := interpolate(0, 1, 100, 9, 0)
	for x := 1.0; x <= 100; x++ {
		cur := interpolate(0, 1, 100, 9, x)
		if cur < prev {
			t.Fatalf("interpolate not monotonic at x=%g: %g < %g", x, cur, prev)
		}
		prev = cur
	}
}

func TestInterpolate_DegenerateInterval(t *testing.T) {
	// Equal x-bounds return the midpoint rather than dividing by zero.
	assert.InDelta(t, 5.0, interpolate(3, 4, 3, 6, 3), epsilon)
}

func TestLookup_ClampsOutsideTable(t *testing.T) {
	assert.InDelta(t, 0.000589, Scotopic(100), epsilon)
	assert.InDelta(t, 0.00000458, Scotopic(900), epsilon)
	assert.InDelta(t, 0.000039, Photopic(100), epsilon)
	assert.InDelta(t, 0.001047, Photopic(900), epsilon)
}

func TestLookup_ExactTablePoints(t *testing.T) {
	assert.InDelta(t, 0.982, Scotopic(500), epsilon)
	assert.InDelta(t, 0.995, Photopic(560), epsilon)
}

func TestLookup_BetweenPoints(t *testing.T) {
	// Halfway between 500 (0.982) and 520 (0.935).
	assert.InDelta(t, (0.982+0.935)/2, Scotopic(510), epsilon)
}

func TestCorrectionFactor_RadiometricRegime(t *testing.T) {
	// At and above 700 nm the source is raw radiometric power.
	for _, nm := range []float64{700, 780, 850, 940, 1550} {
		assert.Equal(t, 1.0, CorrectionFactor(nm), "wavelength %g", nm)
	}
}

func TestCorrectionFactor_FlooredAtOne(t *testing.T) {
	// Deep red: scotopic response collapses long before photopic, but the
	// correction never darkens the source.
	assert.Equal(t, 1.0, CorrectionFactor(660))
}

func TestCorrectionFactor_BoostsBlueGreen(t *testing.T) {
	// 500 nm: 2.489 * 0.982 / 0.323 ≈ 7.57.
	want := 2.489 * 0.982 / 0.323
	assert.InDelta(t, want, CorrectionFactor(500), 1e-6)
	if CorrectionFactor(480) <= 1.0 {
		t.Error("expected blue-green correction factor > 1")
	}
}

func TestEffectiveEfficiency_Envelope(t *testing.T) {
	cases := []struct {
		nm   float64
		want float64
	}{
		{500, 0.982},  // scotopic dominates
		{560, 0.995},  // photopic dominates
		{600, 0.631},  // photopic dominates
		{440, 0.3281}, // scotopic dominates
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, EffectiveEfficiency(tc.nm), epsilon, "wavelength %g", tc.nm)
	}
}

func TestSpectralFactor_Policies(t *testing.T) {
	assert.Equal(t, CorrectionFactor(520), SpectralFactor(PolicyCorrection, 520))
	assert.Equal(t, EffectiveEfficiency(520), SpectralFactor(PolicyEnvelope, 520))
}
