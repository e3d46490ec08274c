package contour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmooth_ShortPolylinesUnchanged(t *testing.T) {
	cases := []struct {
		name string
		in   Polyline
	}{
		{"empty", Polyline{}},
		{"single_point", Polyline{{1, 2}}},
		{"segment", Polyline{{0, 0}, {1, 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.in, Smooth(tc.in, DefaultSmoothingIterations))
		})
	}
}

func TestSmooth_OpenEndpointsAnchored(t *testing.T) {
	in := Polyline{{0, 0}, {5, 10}, {10, 0}}
	out := Smooth(in, DefaultSmoothingIterations)

	assert.Equal(t, in[0], out[0], "first point must be preserved")
	assert.Equal(t, in[len(in)-1], out[len(out)-1], "last point must be preserved")
	assert.Greater(t, len(out), len(in))
}

func TestSmooth_SingleIterationCutRatios(t *testing.T) {
	in := Polyline{{0, 0}, {4, 0}, {4, 4}}
	out := Smooth(in, 1)

	// Each segment contributes a 0.75/0.25 pair, endpoints anchored.
	want := Polyline{
		{0, 0},
		{1, 0}, {3, 0},
		{4, 1}, {4, 3},
		{4, 4},
	}
	require.Len(t, out, len(want))
	for i := range want {
		assert.InDelta(t, want[i].X, out[i].X, 1e-12, "point %d X", i)
		assert.InDelta(t, want[i].Y, out[i].Y, 1e-12, "point %d Y", i)
	}
}

func TestSmooth_ClosedStaysClosed(t *testing.T) {
	square := Polyline{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}
	out := Smooth(square, DefaultSmoothingIterations)

	require.True(t, len(out) > len(square))
	assert.Equal(t, out[0], out[len(out)-1], "closed polyline must re-close exactly")

	// Corner cutting wraps the seam: the original sharp corner at the
	// seam point (0,0) is gone.
	for _, pt := range out[1 : len(out)-1] {
		assert.NotEqual(t, Point{X: 0, Y: 0}, pt)
	}
}

func TestSmooth_ClosedPointCountPerIteration(t *testing.T) {
	// A closed ring of n distinct points becomes 2n points plus the
	// closing duplicate after one pass.
	square := Polyline{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}
	out := Smooth(square, 1)
	assert.Len(t, out, 2*4+1)
}

func TestSmoothAll(t *testing.T) {
	lines := []Polyline{
		{{0, 0}, {1, 1}},
		{{0, 0}, {5, 10}, {10, 0}},
	}
	out := SmoothAll(lines, 2)
	require.Len(t, out, 2)
	assert.Equal(t, lines[0], out[0])
	assert.Greater(t, len(out[1]), len(lines[1]))
}
