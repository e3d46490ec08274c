package optimize

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fgaudin/luxgrid/internal/logic/photometry"
)

func testParams() Params {
	return Params{
		Columns: 2,
		Rows:    1,
		Pattern: photometry.Pattern{
			{AngleDeg: 0, Intensity: 1.0},
			{AngleDeg: 10, Intensity: 0.9},
			{AngleDeg: 20, Intensity: 0.45},
			{AngleDeg: 30, Intensity: 0.0},
		},
		PeakIntensity:  1.0,
		Unit:           photometry.Candela,
		SpectralFactor: 1.0,
		Attenuation:    0.00015,
		Threshold:      1e-6,
	}
}

func testTargets() Targets {
	return Targets{Width: 200, Height: 100, Range: 500}
}

func TestSearch_EmptyResultIsNotAnError(t *testing.T) {
	p := testParams()
	p.PeakIntensity = 1e-12 // nothing can clear the detection threshold

	got, err := Search(context.Background(), p, testTargets())
	require.NoError(t, err)
	assert.Empty(t, got, "no solution found is a valid business outcome")
}

func TestSearch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Search(ctx, testParams(), testTargets())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch_SortedBoundedAndAboveFloor(t *testing.T) {
	got, err := Search(context.Background(), testParams(), testTargets())
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), maxResults)

	sorted := sort.SliceIsSorted(got, func(i, j int) bool {
		return got[i].Coverage > got[j].Coverage
	})
	assert.True(t, sorted, "candidates must be ranked by descending coverage")

	for _, c := range got {
		assert.Greater(t, c.Coverage, minCoveragePct)
		assert.GreaterOrEqual(t, c.HSpreadDeg, 0.0)
		assert.LessOrEqual(t, c.HSpreadDeg, spreadMaxDeg)
		assert.GreaterOrEqual(t, c.VSpreadDeg, 0.0)
		assert.LessOrEqual(t, c.VSpreadDeg, spreadMaxDeg)
	}
}

func TestLatticeCoverage_IntensityMonotonic(t *testing.T) {
	p := testParams()
	targets := testTargets()

	for _, spread := range []struct{ h, v float64 }{{0, 0}, {20, 10}, {60, 40}} {
		dim := photometry.Field{
			PeakIntensity:  p.PeakIntensity,
			SpectralFactor: p.SpectralFactor,
			Pattern:        p.Pattern,
			Sources:        photometry.Orientations(p.Columns, p.Rows, spread.h, spread.v),
			Attenuation:    p.Attenuation,
			EdgePolicy:     photometry.CutoffBeyond,
		}
		bright := dim
		bright.PeakIntensity = dim.PeakIntensity * 10

		low := latticeCoverage(&dim, targets, p.Threshold)
		high := latticeCoverage(&bright, targets, p.Threshold)
		assert.GreaterOrEqual(t, high, low,
			"raising peak intensity must never lower coverage (h=%g v=%g)", spread.h, spread.v)
	}
}

func TestFindExtent_AllardDetectionBoundary(t *testing.T) {
	// Single on-axis source, I=1 cd, α=0.00015: the detection boundary
	// solves d²·exp(αd) = I/threshold = 1e6, giving d ≈ 933.
	p := testParams()
	f := photometry.Field{
		PeakIntensity:  1.0,
		SpectralFactor: 1.0,
		Pattern:        p.Pattern,
		Sources:        []photometry.Orientation{{}},
		Attenuation:    0.00015,
		EdgePolicy:     photometry.CutoffBeyond,
	}

	got := FindExtent(&f, 1e-6, 0, 0, 0, 0, 1, 0, 2000)
	assert.InDelta(t, 932.5, got, 2.0)
}

func TestFindExtent_Degenerate(t *testing.T) {
	p := testParams()
	f := photometry.Field{
		PeakIntensity:  1.0,
		SpectralFactor: 1.0,
		Pattern:        p.Pattern,
		Sources:        []photometry.Orientation{{}},
		EdgePolicy:     photometry.CutoffBeyond,
	}

	// Start point already below threshold: zero extent.
	assert.Equal(t, 0.0, FindExtent(&f, 1e3, 0, 500, 0, 0, 1, 0, 100))
	// Field still above threshold at the bracket limit: the limit is
	// reported rather than bisecting past it.
	assert.Equal(t, 10.0, FindExtent(&f, 1e-9, 0, 0, 0, 0, 1, 0, 10))
}
