package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// conspicuityGain divides the detection threshold when the source is
// flashing: a flashing light is detected at roughly one eighth the
// steady-light illuminance.
const conspicuityGain = 8.0

// ArrayConfig describes the source array geometry.
type ArrayConfig struct {
	Columns             int     `yaml:"columns"`
	Rows                int     `yaml:"rows"`
	HorizontalSpreadDeg float64 `yaml:"horizontal_spread_deg"`
	VerticalSpreadDeg   float64 `yaml:"vertical_spread_deg"`
}

// BeamPointConfig is one point of the off-axis attenuation curve.
type BeamPointConfig struct {
	AngleDeg  float64 `yaml:"angle_deg"`
	Intensity float64 `yaml:"intensity"`
}

// SourceConfig describes one emitter of the array.
// Unit selects the intensity mode: "candela" (photometric, field in lux)
// or "mw_per_sr" (radiometric, field in W/m²).
type SourceConfig struct {
	PeakIntensity  float64           `yaml:"peak_intensity"`
	Unit           string            `yaml:"unit"`
	WavelengthNm   float64           `yaml:"wavelength_nm"`
	SpectralPolicy string            `yaml:"spectral_policy"` // correction | envelope
	BeamPattern    []BeamPointConfig `yaml:"beam_pattern"`
}

// AtmosphereConfig holds the attenuation model.
type AtmosphereConfig struct {
	Attenuation float64 `yaml:"attenuation"` // 1/m
}

// DetectionConfig sets the observer threshold.
// ThresholdExp is the log10 of the detection threshold (lux or W/m²).
type DetectionConfig struct {
	ThresholdExp float64 `yaml:"threshold_exp"`
	Flashing     bool    `yaml:"flashing"`
}

// ViewConfig bounds the sampled world-space windows.
type ViewConfig struct {
	LateralM         float64 `yaml:"lateral_m"`     // plan view width, centered
	RangeM           float64 `yaml:"range_m"`       // forward extent
	HeightM          float64 `yaml:"height_m"`      // elevation view height, centered
	PlanHeightM      float64 `yaml:"plan_height_m"` // height of the plan slice
	ElevationOffsetM float64 `yaml:"elevation_offset_m"`
	Resolution       int     `yaml:"resolution"`
	SliceCount       int     `yaml:"slice_count"`
	SliceMinHeightM  float64 `yaml:"slice_min_height_m"`
	SliceMaxHeightM  float64 `yaml:"slice_max_height_m"`
}

// OptimizerConfig is the target volume for the spread-angle search.
type OptimizerConfig struct {
	TargetWidthM  float64 `yaml:"target_width_m"`
	TargetHeightM float64 `yaml:"target_height_m"`
	TargetRangeM  float64 `yaml:"target_range_m"`
}

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	DebugLevel int `yaml:"debug_level"` // 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
}

// Config aggregates all application configuration.
type Config struct {
	Array      ArrayConfig      `yaml:"array"`
	Source     SourceConfig     `yaml:"source"`
	Atmosphere AtmosphereConfig `yaml:"atmosphere"`
	Detection  DetectionConfig  `yaml:"detection"`
	View       ViewConfig       `yaml:"view"`
	Optimizer  OptimizerConfig  `yaml:"optimizer"`
	Defaults   DefaultsConfig   `yaml:"defaults"`
}

// Load reads a YAML file and returns the validated configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Array.Columns <= 0 {
		c.Array.Columns = 1
	}
	if c.Array.Rows <= 0 {
		c.Array.Rows = 1
	}
	if c.Array.HorizontalSpreadDeg < 0 || c.Array.HorizontalSpreadDeg > 170 {
		return fmt.Errorf("horizontal_spread_deg must be between 0 and 170, got %.2f", c.Array.HorizontalSpreadDeg)
	}
	if c.Array.VerticalSpreadDeg < 0 || c.Array.VerticalSpreadDeg > 170 {
		return fmt.Errorf("vertical_spread_deg must be between 0 and 170, got %.2f", c.Array.VerticalSpreadDeg)
	}

	if c.Source.PeakIntensity <= 0 {
		return fmt.Errorf("peak_intensity must be > 0, got %g", c.Source.PeakIntensity)
	}
	switch c.Source.Unit {
	case "":
		c.Source.Unit = "candela"
	case "candela", "mw_per_sr":
	default:
		return fmt.Errorf("unit must be candela or mw_per_sr, got %q", c.Source.Unit)
	}
	if c.Source.WavelengthNm == 0 {
		c.Source.WavelengthNm = 505 // green, near the scotopic optimum
	}
	if c.Source.WavelengthNm < 300 || c.Source.WavelengthNm > 1600 {
		return fmt.Errorf("wavelength_nm must be between 300 and 1600, got %.1f", c.Source.WavelengthNm)
	}
	switch c.Source.SpectralPolicy {
	case "":
		c.Source.SpectralPolicy = "correction"
	case "correction", "envelope":
	default:
		return fmt.Errorf("spectral_policy must be correction or envelope, got %q", c.Source.SpectralPolicy)
	}

	// Beam pattern preconditions fail fast here: the numeric core
	// assumes a valid pattern and never substitutes defaults.
	if len(c.Source.BeamPattern) == 0 {
		return fmt.Errorf("beam_pattern must not be empty")
	}
	if c.Source.BeamPattern[0].AngleDeg != 0 {
		return fmt.Errorf("beam_pattern must start at angle 0, got %.2f", c.Source.BeamPattern[0].AngleDeg)
	}
	for i, p := range c.Source.BeamPattern {
		if p.Intensity < 0 || p.Intensity > 1 {
			return fmt.Errorf("beam_pattern intensity must be between 0 and 1, got %g at index %d", p.Intensity, i)
		}
		if i > 0 && p.AngleDeg < c.Source.BeamPattern[i-1].AngleDeg {
			return fmt.Errorf("beam_pattern angles must be ascending, got %.2f after %.2f", p.AngleDeg, c.Source.BeamPattern[i-1].AngleDeg)
		}
	}

	if c.Atmosphere.Attenuation < 0 {
		return fmt.Errorf("attenuation must be >= 0, got %g", c.Atmosphere.Attenuation)
	}
	if c.Detection.ThresholdExp < -12 || c.Detection.ThresholdExp > 3 {
		return fmt.Errorf("threshold_exp must be between -12 and 3, got %g", c.Detection.ThresholdExp)
	}

	if c.View.LateralM <= 0 {
		c.View.LateralM = 800
	}
	if c.View.RangeM <= 0 {
		c.View.RangeM = 1500
	}
	if c.View.HeightM <= 0 {
		c.View.HeightM = 200
	}
	if c.View.Resolution == 0 {
		c.View.Resolution = 120
	}
	if c.View.Resolution < 2 || c.View.Resolution > 1000 {
		return fmt.Errorf("resolution must be between 2 and 1000, got %d", c.View.Resolution)
	}
	if c.View.SliceCount < 0 || c.View.SliceCount > 64 {
		return fmt.Errorf("slice_count must be between 0 and 64, got %d", c.View.SliceCount)
	}
	if c.View.SliceCount > 0 && c.View.SliceMaxHeightM < c.View.SliceMinHeightM {
		return fmt.Errorf("slice_max_height_m must be >= slice_min_height_m")
	}

	if c.Optimizer.TargetWidthM <= 0 {
		c.Optimizer.TargetWidthM = 300
	}
	if c.Optimizer.TargetHeightM <= 0 {
		c.Optimizer.TargetHeightM = 120
	}
	if c.Optimizer.TargetRangeM <= 0 {
		c.Optimizer.TargetRangeM = 900
	}

	if c.Defaults.DebugLevel < 0 || c.Defaults.DebugLevel > 4 {
		return fmt.Errorf("debug_level must be between 0 and 4, got %d", c.Defaults.DebugLevel)
	}

	return nil
}

// Threshold returns the effective detection threshold in field units.
// A flashing source benefits from the conspicuity gain: its effective
// threshold is one eighth of the steady one.
func (c *Config) Threshold() float64 {
	threshold := math.Pow(10, c.Detection.ThresholdExp)
	if c.Detection.Flashing {
		threshold /= conspicuityGain
	}
	return threshold
}

// Radiometric reports whether the source operates in radiometric
// (W/m²) rather than photometric (lux) mode.
func (c *Config) Radiometric() bool {
	return c.Source.Unit == "mw_per_sr"
}

// PeakIntensity returns the per-source peak intensity in the core's
// working unit: candela in photometric mode, W/sr in radiometric mode
// (the configured mW/sr pre-scaled).
func (c *Config) PeakIntensity() float64 {
	if c.Radiometric() {
		return c.Source.PeakIntensity / 1000.0
	}
	return c.Source.PeakIntensity
}

// HalfLateralM returns half the plan view width, for a window centered
// on the array axis.
func (c *Config) HalfLateralM() float64 {
	return c.View.LateralM / 2.0
}

// HalfHeightM returns half the elevation view height.
func (c *Config) HalfHeightM() float64 {
	return c.View.HeightM / 2.0
}
