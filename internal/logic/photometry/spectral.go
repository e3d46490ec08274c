package photometry

// SpectralPolicy selects how wavelength is converted into the scalar
// factor applied to peak intensity.
type SpectralPolicy int

const (
	// PolicyCorrection boosts visibility-favoured wavelengths using the
	// scotopic/photopic ratio. Never darkens a source (floored at 1.0).
	PolicyCorrection SpectralPolicy = iota
	// PolicyEnvelope uses the envelope of both response curves, for
	// threshold-relative designs.
	PolicyEnvelope
)

// TablePoint is one sample of a wavelength response curve.
type TablePoint struct {
	WavelengthNm float64
	Efficiency   float64
}

// CIE standard observer curves, sampled every 20 nm from 380 to 720 nm.
// Scotopic: rod-mediated (night) response V'(λ).
// Photopic: cone-mediated (day) response V(λ).
var scotopicTable = []TablePoint{
	{380, 0.000589},
	{400, 0.00929},
	{420, 0.0966},
	{440, 0.3281},
	{460, 0.567},
	{480, 0.793},
	{500, 0.982},
	{520, 0.935},
	{540, 0.650},
	{560, 0.3288},
	{580, 0.1212},
	{600, 0.03315},
	{620, 0.00737},
	{640, 0.001497},
	{660, 0.0003129},
	{680, 0.0000715},
	{700, 0.0000178},
	{720, 0.00000458},
}

var photopicTable = []TablePoint{
	{380, 0.000039},
	{400, 0.000396},
	{420, 0.004},
	{440, 0.023},
	{460, 0.06},
	{480, 0.13902},
	{500, 0.323},
	{520, 0.71},
	{540, 0.954},
	{560, 0.995},
	{580, 0.87},
	{600, 0.631},
	{620, 0.381},
	{640, 0.175},
	{660, 0.061},
	{680, 0.017},
	{700, 0.004102},
	{720, 0.001047},
}

// radiometricCutoffNm is the wavelength at and above which the source is
// treated as raw radiometric power rather than perceptually weighted light.
const radiometricCutoffNm = 700.0

// scotopicRatioScale converts the scotopic/photopic ratio into a
// correction factor relative to the photopic calibration point.
const scotopicRatioScale = 2.489

// lookup interpolates a response table at wavelength x.
// Values outside the table clamp to the boundary entries.
func lookup(table []TablePoint, x float64) float64 {
	if x <= table[0].WavelengthNm {
		return table[0].Efficiency
	}
	last := len(table) - 1
	if x >= table[last].WavelengthNm {
		return table[last].Efficiency
	}
	for i := 0; i < last; i++ {
		a, b := table[i], table[i+1]
		if x >= a.WavelengthNm && x <= b.WavelengthNm {
			return interpolate(a.WavelengthNm, a.Efficiency, b.WavelengthNm, b.Efficiency, x)
		}
	}
	return table[last].Efficiency
}

// interpolate maps x from [x0,x1] to [y0,y1] linearly.
// A degenerate interval (x0 == x1) returns the midpoint of y0 and y1.
func interpolate(x0, y0, x1, y1, x float64) float64 {
	if x1 == x0 {
		return (y0 + y1) / 2.0
	}
	t := (x - x0) / (x1 - x0)
	return y0 + (y1-y0)*t
}

// Scotopic returns the rod-mediated relative efficiency at the given
// wavelength in nanometers.
func Scotopic(wavelengthNm float64) float64 {
	return lookup(scotopicTable, wavelengthNm)
}

// Photopic returns the cone-mediated relative efficiency at the given
// wavelength in nanometers.
func Photopic(wavelengthNm float64) float64 {
	return lookup(photopicTable, wavelengthNm)
}

// CorrectionFactor returns the scotopic visibility correction for a source
// of the given wavelength: 2.489 × V'(λ) / V(λ), floored at 1.0 so the
// correction only ever brightens. At and above 700 nm the source is
// radiometric and the factor is exactly 1.0.
func CorrectionFactor(wavelengthNm float64) float64 {
	if wavelengthNm >= radiometricCutoffNm {
		return 1.0
	}
	photopic := Photopic(wavelengthNm)
	if photopic < 1e-6 {
		photopic = 1e-6
	}
	factor := scotopicRatioScale * Scotopic(wavelengthNm) / photopic
	if factor < 1.0 {
		return 1.0
	}
	return factor
}

// EffectiveEfficiency returns the envelope of the scotopic and photopic
// curves at the given wavelength, used by threshold-relative designs.
func EffectiveEfficiency(wavelengthNm float64) float64 {
	s := Scotopic(wavelengthNm)
	p := Photopic(wavelengthNm)
	if s > p {
		return s
	}
	return p
}

// SpectralFactor applies the configured policy to a wavelength.
func SpectralFactor(policy SpectralPolicy, wavelengthNm float64) float64 {
	if policy == PolicyEnvelope {
		return EffectiveEfficiency(wavelengthNm)
	}
	return CorrectionFactor(wavelengthNm)
}
