package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fgaudin/luxgrid/internal/logic/photometry"
	"github.com/fgaudin/luxgrid/internal/logic/sampling"
)

func testRequest() Request {
	return Request{
		Field: &photometry.Field{
			PeakIntensity:  50.0,
			SpectralFactor: 1.0,
			Pattern: photometry.Pattern{
				{AngleDeg: 0, Intensity: 1.0},
				{AngleDeg: 25, Intensity: 0.6},
				{AngleDeg: 50, Intensity: 0.0},
			},
			Sources:     photometry.Orientations(2, 1, 20, 0),
			Attenuation: 0.0002,
			EdgePolicy:  photometry.CutoffBeyond,
		},
		Threshold: 1e-4,
		View: View{
			PlanWindow:      sampling.Window{MinX: -200, MaxX: 200, MinY: 0, MaxY: 600},
			PlanHeight:      0,
			ElevationWindow: sampling.Window{MinX: 1, MaxX: 600, MinY: -100, MaxY: 100},
			ElevationOffset: 0,
			Resolution:      40,
			SliceCount:      3,
			SliceMinHeight:  -20,
			SliceMaxHeight:  20,
		},
	}
}

func TestCompute_ProducesAllViews(t *testing.T) {
	res := Compute(testRequest())
	require.NoError(t, res.Err)

	require.NotNil(t, res.Plan)
	require.NotNil(t, res.Elevation)
	assert.Len(t, res.Plan.Values, 40*40)
	assert.NotEmpty(t, res.PlanContours, "detection boundary should appear in the plan view")
	require.Len(t, res.Slices, 3)
	assert.Equal(t, -20.0, res.Slices[0].Height)
	assert.Equal(t, 20.0, res.Slices[2].Height)
}

func TestCompute_Deterministic(t *testing.T) {
	a := Compute(testRequest())
	b := Compute(testRequest())
	require.NoError(t, a.Err)
	assert.Equal(t, a.Plan.Values, b.Plan.Values)
	assert.Equal(t, a.PlanContours, b.PlanContours)
}

func TestCompute_DegenerateResolution(t *testing.T) {
	req := testRequest()
	req.View.Resolution = 1
	res := Compute(req)
	require.NoError(t, res.Err)
	assert.Empty(t, res.PlanContours, "a 1-pixel grid has no interior to threshold")
}

func TestEngine_LastRequestedWins(t *testing.T) {
	var mu sync.Mutex
	var published []Result

	e := New(func(r Result) {
		mu.Lock()
		published = append(published, r)
		mu.Unlock()
	})

	first := e.Submit(testRequest())
	second := e.Submit(testRequest())
	require.Greater(t, second, first)
	e.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, published)

	var maxGen uint64
	seconds := 0
	for _, r := range published {
		require.NoError(t, r.Err)
		if r.Generation > maxGen {
			maxGen = r.Generation
		}
		if r.Generation == second {
			seconds++
		}
	}
	assert.Equal(t, second, maxGen, "the most recently requested pass must be the surviving result")
	assert.Equal(t, 1, seconds)
	assert.False(t, e.Busy())
}
