package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig creates a temporary YAML file with the given content and returns the path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validYAML = `
array:
  columns: 3
  rows: 2
  horizontal_spread_deg: 40.0
  vertical_spread_deg: 10.0
source:
  peak_intensity: 50.0
  unit: "candela"
  wavelength_nm: 520
  spectral_policy: "correction"
  beam_pattern:
    - {angle_deg: 0, intensity: 1.0}
    - {angle_deg: 10, intensity: 0.9}
    - {angle_deg: 20, intensity: 0.45}
    - {angle_deg: 30, intensity: 0.0}
atmosphere:
  attenuation: 0.0003
detection:
  threshold_exp: -6.1
  flashing: true
view:
  lateral_m: 600
  range_m: 1200
  height_m: 160
  plan_height_m: 0
  resolution: 150
  slice_count: 5
  slice_min_height_m: -40
  slice_max_height_m: 40
optimizer:
  target_width_m: 250
  target_height_m: 100
  target_range_m: 800
defaults:
  debug_level: 1
`

func TestLoad_ValidFullConfig(t *testing.T) {
	path := writeConfig(t, validYAML)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Array.Columns)
	assert.Equal(t, 2, cfg.Array.Rows)
	assert.Equal(t, 40.0, cfg.Array.HorizontalSpreadDeg)
	assert.Equal(t, 50.0, cfg.Source.PeakIntensity)
	assert.Equal(t, 520.0, cfg.Source.WavelengthNm)
	assert.Len(t, cfg.Source.BeamPattern, 4)
	assert.Equal(t, 0.0003, cfg.Atmosphere.Attenuation)
	assert.True(t, cfg.Detection.Flashing)
	assert.Equal(t, 150, cfg.View.Resolution)
	assert.Equal(t, 5, cfg.View.SliceCount)
	assert.Equal(t, 800.0, cfg.Optimizer.TargetRangeM)
	assert.Equal(t, 1, cfg.Defaults.DebugLevel)
}

const minimalYAML = `
source:
  peak_intensity: 10.0
  beam_pattern:
    - {angle_deg: 0, intensity: 1.0}
    - {angle_deg: 15, intensity: 0.0}
detection:
  threshold_exp: -6.0
`

func TestLoad_DefaultValues(t *testing.T) {
	path := writeConfig(t, minimalYAML)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Array.Columns)
	assert.Equal(t, 1, cfg.Array.Rows)
	assert.Equal(t, "candela", cfg.Source.Unit)
	assert.Equal(t, 505.0, cfg.Source.WavelengthNm)
	assert.Equal(t, "correction", cfg.Source.SpectralPolicy)
	assert.Equal(t, 800.0, cfg.View.LateralM)
	assert.Equal(t, 1500.0, cfg.View.RangeM)
	assert.Equal(t, 200.0, cfg.View.HeightM)
	assert.Equal(t, 120, cfg.View.Resolution)
	assert.Equal(t, 300.0, cfg.Optimizer.TargetWidthM)
	assert.Equal(t, 120.0, cfg.Optimizer.TargetHeightM)
	assert.Equal(t, 900.0, cfg.Optimizer.TargetRangeM)
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing peak intensity", `
source:
  beam_pattern:
    - {angle_deg: 0, intensity: 1.0}
`},
		{"negative peak intensity", `
source:
  peak_intensity: -5.0
  beam_pattern:
    - {angle_deg: 0, intensity: 1.0}
`},
		{"bad unit", `
source:
  peak_intensity: 10.0
  unit: "lumens"
  beam_pattern:
    - {angle_deg: 0, intensity: 1.0}
`},
		{"wavelength out of range", `
source:
  peak_intensity: 10.0
  wavelength_nm: 2000
  beam_pattern:
    - {angle_deg: 0, intensity: 1.0}
`},
		{"bad spectral policy", `
source:
  peak_intensity: 10.0
  spectral_policy: "weighted"
  beam_pattern:
    - {angle_deg: 0, intensity: 1.0}
`},
		{"empty beam pattern", `
source:
  peak_intensity: 10.0
`},
		{"beam pattern not starting at zero", `
source:
  peak_intensity: 10.0
  beam_pattern:
    - {angle_deg: 5, intensity: 1.0}
    - {angle_deg: 15, intensity: 0.0}
`},
		{"beam pattern descending angles", `
source:
  peak_intensity: 10.0
  beam_pattern:
    - {angle_deg: 0, intensity: 1.0}
    - {angle_deg: 20, intensity: 0.5}
    - {angle_deg: 10, intensity: 0.0}
`},
		{"beam pattern intensity above one", `
source:
  peak_intensity: 10.0
  beam_pattern:
    - {angle_deg: 0, intensity: 1.5}
`},
		{"negative attenuation", `
source:
  peak_intensity: 10.0
  beam_pattern:
    - {angle_deg: 0, intensity: 1.0}
atmosphere:
  attenuation: -0.001
`},
		{"threshold exponent out of range", `
source:
  peak_intensity: 10.0
  beam_pattern:
    - {angle_deg: 0, intensity: 1.0}
detection:
  threshold_exp: 5
`},
		{"horizontal spread too wide", `
array:
  horizontal_spread_deg: 200
source:
  peak_intensity: 10.0
  beam_pattern:
    - {angle_deg: 0, intensity: 1.0}
`},
		{"resolution too small", `
source:
  peak_intensity: 10.0
  beam_pattern:
    - {angle_deg: 0, intensity: 1.0}
view:
  resolution: 1
`},
		{"too many slices", `
source:
  peak_intensity: 10.0
  beam_pattern:
    - {angle_deg: 0, intensity: 1.0}
view:
  slice_count: 100
`},
		{"inverted slice heights", `
source:
  peak_intensity: 10.0
  beam_pattern:
    - {angle_deg: 0, intensity: 1.0}
view:
  slice_count: 3
  slice_min_height_m: 10
  slice_max_height_m: -10
`},
		{"debug level out of range", `
source:
  peak_intensity: 10.0
  beam_pattern:
    - {angle_deg: 0, intensity: 1.0}
defaults:
  debug_level: 9
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "{{{{invalid yaml!!!!"))
	assert.Error(t, err)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	assert.Error(t, err)
}

func TestLoad_UnknownFields(t *testing.T) {
	yaml := minimalYAML + `
unknown_section:
  foo: bar
`
	_, err := Load(writeConfig(t, yaml))
	assert.NoError(t, err, "unknown fields should be ignored")
}

func TestConfig_Threshold(t *testing.T) {
	steady := &Config{Detection: DetectionConfig{ThresholdExp: -6}}
	assert.InEpsilon(t, 1e-6, steady.Threshold(), 1e-12)

	flashing := &Config{Detection: DetectionConfig{ThresholdExp: -6, Flashing: true}}
	assert.InEpsilon(t, 1e-6/8.0, flashing.Threshold(), 1e-12)
}

func TestConfig_PeakIntensity(t *testing.T) {
	photometric := &Config{Source: SourceConfig{PeakIntensity: 50, Unit: "candela"}}
	assert.False(t, photometric.Radiometric())
	assert.Equal(t, 50.0, photometric.PeakIntensity())

	radiometric := &Config{Source: SourceConfig{PeakIntensity: 250, Unit: "mw_per_sr"}}
	assert.True(t, radiometric.Radiometric())
	assert.Equal(t, 0.25, radiometric.PeakIntensity())
}

func TestConfig_HalfExtents(t *testing.T) {
	cfg := &Config{View: ViewConfig{LateralM: 800, HeightM: 200}}
	assert.Equal(t, 400.0, cfg.HalfLateralM())
	assert.Equal(t, 100.0, cfg.HalfHeightM())
}
