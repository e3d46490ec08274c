package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/fgaudin/luxgrid/internal/config"
	"github.com/fgaudin/luxgrid/internal/debug"
	"github.com/fgaudin/luxgrid/internal/dxf"
	"github.com/fgaudin/luxgrid/internal/engine"
	"github.com/fgaudin/luxgrid/internal/logic/contour"
	"github.com/fgaudin/luxgrid/internal/logic/optimize"
	"github.com/fgaudin/luxgrid/internal/logic/photometry"
	"github.com/fgaudin/luxgrid/internal/logic/sampling"
	"github.com/fgaudin/luxgrid/internal/web"
)

func main() {
	// CLI flags
	webPort := &webPortFlag{defaultPort: 8080}
	flag.Var(webPort, "web", "start web server on port; -web= for default 8080, -web 8980 for custom port")
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	hSpreadDeg := flag.Float64("horizontal_spread_deg", math.NaN(), "override horizontal array spread in degrees (0-170)")
	vSpreadDeg := flag.Float64("vertical_spread_deg", math.NaN(), "override vertical array spread in degrees (0-170)")
	thresholdExp := flag.Float64("threshold_exp", math.NaN(), "override detection threshold exponent (-12 to 3)")
	dxfPath := flag.String("dxf", "", "write plan contours as DXF to this path (one-shot mode)")
	runOptimize := flag.Bool("optimize", false, "run the beam spread search and print the candidate table")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	// Validate CLI overrides (NaN means "use config default")
	if err := validateCLIOverrides(*hSpreadDeg, *vSpreadDeg, *thresholdExp); err != nil {
		log.Fatalf("invalid CLI override: %v", err)
	}
	applyCLIOverrides(cfg, *hSpreadDeg, *vSpreadDeg, *thresholdExp)

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel)
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)
	debug.Field(cfg.Array.Columns, cfg.Array.Rows,
		cfg.Array.HorizontalSpreadDeg, cfg.Array.VerticalSpreadDeg)
	debug.Value("Threshold", cfg.Threshold())

	if *runOptimize {
		if err := runSearch(ctx, cfg); err != nil {
			log.Fatalf("optimize failed: %v", err)
		}
		return
	}

	if port := webPort.port(); port > 0 {
		if err := runWeb(ctx, cfg, fmt.Sprintf(":%d", port)); err != nil {
			log.Fatalf("web server: %v", err)
		}
		return
	}

	if err := runOnce(cfg, *dxfPath); err != nil {
		log.Fatalf("compute failed: %v", err)
	}
}

// resultPayload is the JSON shape pushed to WebSocket clients after each
// completed computation pass.
type resultPayload struct {
	Generation        uint64                 `json:"generation"`
	PlanContours      []contour.Polyline     `json:"plan_contours"`
	ElevationContours []contour.Polyline     `json:"elevation_contours"`
	Slices            []engine.SliceContours `json:"slices"`
	Error             string                 `json:"error,omitempty"`
}

func payloadFrom(res engine.Result) resultPayload {
	p := resultPayload{
		Generation:        res.Generation,
		PlanContours:      res.PlanContours,
		ElevationContours: res.ElevationContours,
		Slices:            res.Slices,
	}
	if res.Err != nil {
		p.Error = res.Err.Error()
	}
	return p
}

// runWeb serves the HTTP API until ctx is cancelled. Compute requests go
// through the engine; results stream to WebSocket clients.
func runWeb(ctx context.Context, cfg *config.Config, addr string) error {
	hub := web.NewHub()
	eng := engine.New(func(res engine.Result) {
		debug.Live("publishing result (generation %d)", res.Generation)
		hub.Broadcast(payloadFrom(res))
	})

	compute := func(overrides web.Overrides) uint64 {
		reqCfg := overriddenCopy(cfg, overrides)
		field, err := buildField(reqCfg)
		if err != nil {
			// Overrides are range-checked by the handler and the beam
			// pattern was validated at load time.
			debug.Error(err)
			return 0
		}
		gen := eng.Submit(engine.Request{
			Field:     field,
			Threshold: reqCfg.Threshold(),
			View:      buildView(reqCfg),
		})
		debug.Compute(gen, reqCfg.View.Resolution)
		return gen
	}

	optimizeFn := func(ctx context.Context, req web.OptimizeRequest) ([]optimize.Candidate, error) {
		field, err := buildField(cfg)
		if err != nil {
			return nil, err
		}
		return optimize.Search(ctx, buildSearchParams(cfg, field), optimize.Targets{
			Width:  req.TargetWidthM,
			Height: req.TargetHeightM,
			Range:  req.TargetRangeM,
		})
	}

	formDefaults := web.FormConfig{
		HorizontalSpreadDeg: cfg.Array.HorizontalSpreadDeg,
		VerticalSpreadDeg:   cfg.Array.VerticalSpreadDeg,
		ThresholdExp:        cfg.Detection.ThresholdExp,
		Flashing:            cfg.Detection.Flashing,
		Resolution:          cfg.View.Resolution,
		TargetWidthM:        cfg.Optimizer.TargetWidthM,
		TargetHeightM:       cfg.Optimizer.TargetHeightM,
		TargetRangeM:        cfg.Optimizer.TargetRangeM,
	}
	srv := web.NewServer(addr, hub, compute, optimizeFn, eng.Busy, formDefaults)
	err := srv.Run(ctx)
	eng.Wait()
	return err
}

// runOnce computes a single pass with the current config, prints a
// summary, and optionally writes the plan contours as DXF.
func runOnce(cfg *config.Config, dxfPath string) error {
	field, err := buildField(cfg)
	if err != nil {
		return err
	}

	res := engine.Compute(engine.Request{
		Field:     field,
		Threshold: cfg.Threshold(),
		View:      buildView(cfg),
	})
	if res.Err != nil {
		return res.Err
	}

	threshold := cfg.Threshold()
	forward := optimize.FindExtent(field, threshold, 0, 0, 0, 0, 1, 0, 2*cfg.View.RangeM)
	fmt.Printf("Plan contours:      %d\n", len(res.PlanContours))
	fmt.Printf("Elevation contours: %d\n", len(res.ElevationContours))
	fmt.Printf("Slices:             %d\n", len(res.Slices))
	fmt.Printf("Forward extent:     %.1f m at threshold %.3g\n", forward, threshold)

	if dxfPath != "" {
		if err := writeDXF(dxfPath, res.PlanContours); err != nil {
			return fmt.Errorf("write dxf: %w", err)
		}
		fmt.Printf("Wrote %s\n", dxfPath)
	}
	return nil
}

// runSearch runs the beam spread search and prints the candidate table.
func runSearch(ctx context.Context, cfg *config.Config) error {
	field, err := buildField(cfg)
	if err != nil {
		return err
	}
	candidates, err := optimize.Search(ctx, buildSearchParams(cfg, field), optimize.Targets{
		Width:  cfg.Optimizer.TargetWidthM,
		Height: cfg.Optimizer.TargetHeightM,
		Range:  cfg.Optimizer.TargetRangeM,
	})
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		fmt.Println("no configuration clears the coverage floor")
		return nil
	}

	fmt.Printf("%8s %8s %10s %10s %10s %10s\n",
		"h_deg", "v_deg", "coverage", "width_m", "height_m", "range_m")
	for _, c := range candidates {
		debug.Candidate(c.HSpreadDeg, c.VSpreadDeg, c.Coverage)
		fmt.Printf("%8.0f %8.0f %9.1f%% %10.1f %10.1f %10.1f\n",
			c.HSpreadDeg, c.VSpreadDeg, c.Coverage, c.Width, c.Height, c.Range)
	}
	return nil
}

// buildField assembles the immutable field snapshot from configuration.
func buildField(cfg *config.Config) (*photometry.Field, error) {
	pattern := make(photometry.Pattern, len(cfg.Source.BeamPattern))
	for i, p := range cfg.Source.BeamPattern {
		pattern[i] = photometry.BeamPoint{AngleDeg: p.AngleDeg, Intensity: p.Intensity}
	}
	if err := photometry.ValidatePattern(pattern); err != nil {
		return nil, fmt.Errorf("beam pattern: %w", err)
	}

	unit := photometry.Candela
	if cfg.Radiometric() {
		unit = photometry.WattPerSteradian
	}
	policy := photometry.PolicyCorrection
	if cfg.Source.SpectralPolicy == "envelope" {
		policy = photometry.PolicyEnvelope
	}

	return &photometry.Field{
		PeakIntensity:  cfg.PeakIntensity(),
		Unit:           unit,
		SpectralFactor: photometry.SpectralFactor(policy, cfg.Source.WavelengthNm),
		Pattern:        pattern,
		Sources: photometry.Orientations(cfg.Array.Columns, cfg.Array.Rows,
			cfg.Array.HorizontalSpreadDeg, cfg.Array.VerticalSpreadDeg),
		Attenuation: cfg.Atmosphere.Attenuation,
		EdgePolicy:  photometry.CutoffBeyond,
	}, nil
}

// buildView maps the configured view windows to an engine view. The
// plan window is centered laterally on the array; the elevation window
// is centered vertically.
func buildView(cfg *config.Config) engine.View {
	return engine.View{
		PlanWindow: sampling.Window{
			MinX: -cfg.HalfLateralM(), MaxX: cfg.HalfLateralM(),
			MinY: 0, MaxY: cfg.View.RangeM,
		},
		PlanHeight: cfg.View.PlanHeightM,
		ElevationWindow: sampling.Window{
			MinX: 0, MaxX: cfg.View.RangeM,
			MinY: -cfg.HalfHeightM(), MaxY: cfg.HalfHeightM(),
		},
		ElevationOffset: cfg.View.ElevationOffsetM,
		Resolution:      cfg.View.Resolution,
		SliceCount:      cfg.View.SliceCount,
		SliceMinHeight:  cfg.View.SliceMinHeightM,
		SliceMaxHeight:  cfg.View.SliceMaxHeightM,
	}
}

// buildSearchParams fixes everything about the array except the spread
// angles under search.
func buildSearchParams(cfg *config.Config, field *photometry.Field) optimize.Params {
	return optimize.Params{
		Columns:        cfg.Array.Columns,
		Rows:           cfg.Array.Rows,
		Pattern:        field.Pattern,
		PeakIntensity:  field.PeakIntensity,
		Unit:           field.Unit,
		SpectralFactor: field.SpectralFactor,
		Attenuation:    field.Attenuation,
		Threshold:      cfg.Threshold(),
	}
}

func writeDXF(path string, lines []contour.Polyline) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := dxf.Encode(f, lines); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// validateCLIOverrides checks that set overrides are within valid ranges.
// NaN values are ignored (they mean "use config default").
func validateCLIOverrides(hSpread, vSpread, thresholdExp float64) error {
	if !math.IsNaN(hSpread) {
		if math.IsInf(hSpread, 0) || hSpread < 0 || hSpread > 170 {
			return fmt.Errorf("horizontal_spread_deg must be between 0 and 170, got %g", hSpread)
		}
	}
	if !math.IsNaN(vSpread) {
		if math.IsInf(vSpread, 0) || vSpread < 0 || vSpread > 170 {
			return fmt.Errorf("vertical_spread_deg must be between 0 and 170, got %g", vSpread)
		}
	}
	if !math.IsNaN(thresholdExp) {
		if math.IsInf(thresholdExp, 0) || thresholdExp < -12 || thresholdExp > 3 {
			return fmt.Errorf("threshold_exp must be between -12 and 3, got %g", thresholdExp)
		}
	}
	return nil
}

// applyCLIOverrides mutates cfg with overrides. NaN values are skipped.
func applyCLIOverrides(cfg *config.Config, hSpread, vSpread, thresholdExp float64) {
	if !math.IsNaN(hSpread) {
		cfg.Array.HorizontalSpreadDeg = hSpread
	}
	if !math.IsNaN(vSpread) {
		cfg.Array.VerticalSpreadDeg = vSpread
	}
	if !math.IsNaN(thresholdExp) {
		cfg.Detection.ThresholdExp = thresholdExp
	}
}

// overriddenCopy returns a new config with web request overrides applied.
// Zero spreads/resolution keep the base config; a nil threshold exponent
// keeps the base config; flashing always follows the request.
func overriddenCopy(base *config.Config, overrides web.Overrides) *config.Config {
	cfg := *base
	if overrides.HorizontalSpreadDeg > 0 {
		cfg.Array.HorizontalSpreadDeg = overrides.HorizontalSpreadDeg
	}
	if overrides.VerticalSpreadDeg > 0 {
		cfg.Array.VerticalSpreadDeg = overrides.VerticalSpreadDeg
	}
	if overrides.ThresholdExp != nil {
		cfg.Detection.ThresholdExp = *overrides.ThresholdExp
	}
	cfg.Detection.Flashing = overrides.Flashing
	if overrides.Resolution > 0 {
		cfg.View.Resolution = overrides.Resolution
	}
	return &cfg
}

// webPortFlag implements flag.Value for -web: 0 = disabled, -web= or -web 8080 → 8080, -web 8980 → 8980.
type webPortFlag struct {
	val         int
	defaultPort int
}

func (w *webPortFlag) String() string {
	if w.val == 0 {
		return "0"
	}
	return strconv.Itoa(w.val)
}

func (w *webPortFlag) Set(s string) error {
	if s == "" {
		w.val = w.defaultPort
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v <= 0 || v > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", v)
	}
	w.val = v
	return nil
}

func (w *webPortFlag) port() int { return w.val }
