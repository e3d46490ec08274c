// Package optimize searches the two-angle spread design space for source
// array configurations that illuminate a target volume.
package optimize

import (
	"context"
	"sort"

	"github.com/fgaudin/luxgrid/internal/logic/photometry"
)

const (
	// Spread search space: [0,80]° on each axis in 2° steps.
	spreadMaxDeg  = 80.0
	spreadStepDeg = 2.0

	// Coverage lattice spanning the target box: 5 lateral × 5 vertical
	// × 9 range stations, the zero/center point included on every axis.
	lateralStations  = 5
	verticalStations = 5
	rangeStations    = 9

	// Candidates below this lattice coverage are discarded.
	minCoveragePct = 2.0

	// Bisection depth for realized-extent reporting.
	extentIterations = 14

	// Result list bound.
	maxResults = 100
)

// Targets is the bounding volume the array should illuminate, in world
// length units: full width, full height, forward range.
type Targets struct {
	Width  float64
	Height float64
	Range  float64
}

// Params fixes everything about the array except the two spread angles
// under search.
type Params struct {
	Columns        int
	Rows           int
	Pattern        photometry.Pattern
	PeakIntensity  float64
	Unit           photometry.IntensityUnit
	SpectralFactor float64
	Attenuation    float64
	Threshold      float64
}

// Candidate is one surviving (h,v) spread pair with its lattice coverage
// score and realized extents. Width, Height and Range are reported for
// display; only Coverage gates inclusion and ranking.
type Candidate struct {
	HSpreadDeg float64 `json:"h_spread_deg"`
	VSpreadDeg float64 `json:"v_spread_deg"`
	Coverage   float64 `json:"coverage_pct"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Range      float64 `json:"range"`
}

// Search brute-forces the 41×41 spread grid, scores each candidate by
// lattice coverage of the target box, and returns the top configurations
// sorted by descending coverage. An empty result means no candidate
// cleared the coverage floor, which is a valid outcome, not an error.
// The search checks ctx between rows so a superseded run can stop early.
func Search(ctx context.Context, p Params, t Targets) ([]Candidate, error) {
	field := photometry.Field{
		PeakIntensity:  p.PeakIntensity,
		Unit:           p.Unit,
		SpectralFactor: p.SpectralFactor,
		Pattern:        p.Pattern,
		Attenuation:    p.Attenuation,
		EdgePolicy:     photometry.CutoffBeyond,
	}

	var results []Candidate
	for h := 0.0; h <= spreadMaxDeg; h += spreadStepDeg {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for v := 0.0; v <= spreadMaxDeg; v += spreadStepDeg {
			field.Sources = photometry.Orientations(p.Columns, p.Rows, h, v)

			coverage := latticeCoverage(&field, t, p.Threshold)
			if coverage <= minCoveragePct {
				continue
			}

			reach := FindExtent(&field, p.Threshold, 0, 0, 0, 0, 1, 0, 2*t.Range)
			mid := reach / 2
			halfW := FindExtent(&field, p.Threshold, 0, mid, 0, 1, 0, 0, 2*t.Width)
			halfH := FindExtent(&field, p.Threshold, 0, mid, 0, 0, 0, 1, 2*t.Height)

			results = append(results, Candidate{
				HSpreadDeg: h,
				VSpreadDeg: v,
				Coverage:   coverage,
				Width:      2 * halfW,
				Height:     2 * halfH,
				Range:      reach,
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Coverage != b.Coverage {
			return a.Coverage > b.Coverage
		}
		if a.HSpreadDeg != b.HSpreadDeg {
			return a.HSpreadDeg < b.HSpreadDeg
		}
		return a.VSpreadDeg < b.VSpreadDeg
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// latticeCoverage counts the fraction of the fixed sample lattice inside
// the target box whose summed illuminance meets the threshold, as a
// percentage.
func latticeCoverage(f *photometry.Field, t Targets, threshold float64) float64 {
	xs := stations(lateralStations, t.Width/2)
	zs := stations(verticalStations, t.Height/2)

	hits, total := 0, 0
	for r := 0; r < rangeStations; r++ {
		y := t.Range * float64(r) / float64(rangeStations-1)
		for _, x := range xs {
			for _, z := range zs {
				total++
				if f.Illuminance(x, y, z) >= threshold {
					hits++
				}
			}
		}
	}
	return float64(hits) / float64(total) * 100.0
}

// stations returns n symmetric sample offsets over [-half, half],
// including 0.
func stations(n int, half float64) []float64 {
	out := make([]float64, n)
	step := 2 * half / float64(n-1)
	for i := 0; i < n; i++ {
		out[i] = -half + float64(i)*step
	}
	return out
}

// FindExtent bisects outward from a start point along a unit axis for
// the maximum distance at which the summed field still meets the
// threshold. Returns 0 when even the start offset fails.
func FindExtent(f *photometry.Field, threshold float64, startX, startY, startZ, dirX, dirY, dirZ, maxDist float64) float64 {
	meets := func(dist float64) bool {
		return f.Illuminance(startX+dirX*dist, startY+dirY*dist, startZ+dirZ*dist) >= threshold
	}

	lo, hi := 0.0, maxDist
	if !meets(lo) {
		return 0
	}
	if meets(hi) {
		return hi
	}
	for i := 0; i < extentIterations; i++ {
		mid := (lo + hi) / 2
		if meets(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}
