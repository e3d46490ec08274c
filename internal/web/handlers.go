package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fgaudin/luxgrid/internal/logic/optimize"
)

// Overrides holds field parameters a compute request can override.
// ThresholdExp is a pointer because 0 is a valid exponent (1 lux); an
// absent field keeps the configured value.
type Overrides struct {
	HorizontalSpreadDeg float64  `json:"horizontal_spread_deg"`
	VerticalSpreadDeg   float64  `json:"vertical_spread_deg"`
	ThresholdExp        *float64 `json:"threshold_exp"`
	Flashing            bool     `json:"flashing"`
	Resolution          int      `json:"resolution"`
}

// OptimizeRequest holds the target volume for an optimizer run.
type OptimizeRequest struct {
	TargetWidthM  float64 `json:"target_width_m"`
	TargetHeightM float64 `json:"target_height_m"`
	TargetRangeM  float64 `json:"target_range_m"`
}

// ComputeFunc schedules a field computation with the given overrides
// and returns its generation number. Results arrive asynchronously on
// the WebSocket stream.
type ComputeFunc func(overrides Overrides) uint64

// OptimizeFunc runs the beam-spread search for the given target volume.
type OptimizeFunc func(ctx context.Context, req OptimizeRequest) ([]optimize.Candidate, error)

// StatusFunc reports whether a computation pass is still in flight.
type StatusFunc func() bool

// FormConfig holds default values for the parameter form (from config).
type FormConfig struct {
	HorizontalSpreadDeg float64 `json:"horizontal_spread_deg"`
	VerticalSpreadDeg   float64 `json:"vertical_spread_deg"`
	ThresholdExp        float64 `json:"threshold_exp"`
	Flashing            bool    `json:"flashing"`
	Resolution          int     `json:"resolution"`
	TargetWidthM        float64 `json:"target_width_m"`
	TargetHeightM       float64 `json:"target_height_m"`
	TargetRangeM        float64 `json:"target_range_m"`
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	Hub          *Hub
	Compute      ComputeFunc
	Optimize     OptimizeFunc
	Status       StatusFunc
	FormDefaults FormConfig
}

// NewHandlers creates handlers with the given dependencies.
// If compute or optimize is nil, the matching endpoint returns 503.
// A nil status reports idle.
func NewHandlers(hub *Hub, compute ComputeFunc, optimizeFn OptimizeFunc, status StatusFunc, formDefaults FormConfig) *Handlers {
	return &Handlers{
		Hub:          hub,
		Compute:      compute,
		Optimize:     optimizeFn,
		Status:       status,
		FormDefaults: formDefaults,
	}
}

// HandleConfig returns the form default values (from config) as JSON.
func (h *Handlers) HandleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.FormDefaults)
}

// HandleStatus reports whether a computation pass is in flight and how
// many stream clients are connected.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	busy := false
	if h.Status != nil {
		busy = h.Status()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"busy":    busy,
		"clients": h.Hub.ClientCount(),
	})
}

// HandleCompute handles POST /api/compute. The computation runs in the
// background; the published result arrives on the WebSocket stream.
func (h *Handlers) HandleCompute(w http.ResponseWriter, r *http.Request) {
	var overrides Overrides
	if err := json.NewDecoder(r.Body).Decode(&overrides); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if overrides.HorizontalSpreadDeg < 0 || overrides.HorizontalSpreadDeg > 170 {
		http.Error(w, "horizontal_spread_deg must be between 0 and 170", http.StatusBadRequest)
		return
	}
	if overrides.VerticalSpreadDeg < 0 || overrides.VerticalSpreadDeg > 170 {
		http.Error(w, "vertical_spread_deg must be between 0 and 170", http.StatusBadRequest)
		return
	}
	if overrides.ThresholdExp != nil && (*overrides.ThresholdExp < -12 || *overrides.ThresholdExp > 3) {
		http.Error(w, "threshold_exp must be between -12 and 3", http.StatusBadRequest)
		return
	}
	if overrides.Resolution != 0 && (overrides.Resolution < 2 || overrides.Resolution > 1000) {
		http.Error(w, "resolution must be between 2 and 1000", http.StatusBadRequest)
		return
	}

	if h.Compute == nil {
		http.Error(w, "compute not configured", http.StatusServiceUnavailable)
		return
	}

	gen := h.Compute(overrides)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]uint64{"generation": gen})
}

// HandleOptimize handles POST /api/optimize. The search runs
// synchronously and honors the request context, so a disconnecting
// client cancels it.
func (h *Handlers) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if req.TargetWidthM <= 0 || req.TargetHeightM <= 0 || req.TargetRangeM <= 0 {
		http.Error(w, "target dimensions must be positive", http.StatusBadRequest)
		return
	}

	if h.Optimize == nil {
		http.Error(w, "optimizer not configured", http.StatusServiceUnavailable)
		return
	}

	candidates, err := h.Optimize(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if candidates == nil {
		candidates = []optimize.Candidate{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(candidates)
}
