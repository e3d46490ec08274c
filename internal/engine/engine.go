// Package engine schedules field computations off the interactive path.
// Each request snapshots an immutable field configuration; sampling and
// contouring run in a worker goroutine and only the most recently
// requested computation's result is published, so rapid successive
// parameter changes never apply results out of order.
package engine

import (
	"sync"

	"github.com/fgaudin/luxgrid/internal/debug"
	"github.com/fgaudin/luxgrid/internal/logic/contour"
	"github.com/fgaudin/luxgrid/internal/logic/photometry"
	"github.com/fgaudin/luxgrid/internal/logic/sampling"
)

// View describes the world-space windows and resolution of one full
// computation pass.
type View struct {
	PlanWindow      sampling.Window // lateral × forward, at PlanHeight
	PlanHeight      float64
	ElevationWindow sampling.Window // forward × vertical, at ElevationOffset
	ElevationOffset float64
	Resolution      int
	SliceCount      int
	SliceMinHeight  float64
	SliceMaxHeight  float64
}

// Request is one computation order: an immutable field snapshot, the
// detection threshold, and the views to sample.
type Request struct {
	Field     *photometry.Field
	Threshold float64
	View      View
}

// SliceContours is the contour set of one volumetric slice, tagged with
// the height the slice was sampled at.
type SliceContours struct {
	Height float64            `json:"height"`
	Lines  []contour.Polyline `json:"lines"`
}

// Result carries everything one computation pass produced. Err is set
// instead of partial data when the pass failed.
type Result struct {
	Generation        uint64
	Plan              *sampling.Grid
	Elevation         *sampling.Grid
	PlanContours      []contour.Polyline
	ElevationContours []contour.Polyline
	Slices            []SliceContours
	Err               error
}

// Compute runs one full pass synchronously: plan and elevation grids,
// their threshold contours, and the volumetric slice stack. Pure and
// deterministic for identical requests.
func Compute(req Request) Result {
	res := Result{}

	res.Plan = sampling.PlanView(req.Field, req.View.PlanWindow,
		req.View.Resolution, req.View.Resolution, req.View.PlanHeight)
	res.PlanContours, res.Err = contour.ExtractSmoothed(res.Plan, req.Threshold)
	if res.Err != nil {
		return res
	}

	res.Elevation = sampling.ElevationView(req.Field, req.View.ElevationWindow,
		req.View.Resolution, req.View.Resolution, req.View.ElevationOffset)
	res.ElevationContours, res.Err = contour.ExtractSmoothed(res.Elevation, req.Threshold)
	if res.Err != nil {
		return res
	}

	if req.View.SliceCount > 0 {
		slices := sampling.Slices(req.Field, req.View.PlanWindow,
			req.View.Resolution, req.View.Resolution,
			req.View.SliceCount, req.View.SliceMinHeight, req.View.SliceMaxHeight)
		for _, s := range slices {
			lines, err := contour.ExtractSmoothed(s.Grid, req.Threshold)
			if err != nil {
				res.Err = err
				return res
			}
			res.Slices = append(res.Slices, SliceContours{Height: s.Height, Lines: lines})
		}
	}

	return res
}

// PublishFunc receives the results of completed, non-superseded passes.
type PublishFunc func(Result)

// Engine serializes compute requests and publishes only the result of
// the most recently requested pass.
type Engine struct {
	publish PublishFunc

	mu       sync.Mutex
	latest   uint64
	inFlight int
	wg       sync.WaitGroup
}

// New creates an engine delivering results through publish.
func New(publish PublishFunc) *Engine {
	return &Engine{publish: publish}
}

// Submit schedules a computation pass and returns its generation number
// immediately. A pass superseded by a newer Submit before it finishes
// computes to completion but its result is discarded.
func (e *Engine) Submit(req Request) uint64 {
	e.mu.Lock()
	e.latest++
	gen := e.latest
	e.inFlight++
	e.mu.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		res := Compute(req)
		res.Generation = gen

		e.mu.Lock()
		current := e.latest == gen
		e.inFlight--
		e.mu.Unlock()

		if !current {
			debug.Verbose("discarding superseded computation (generation %d)", gen)
			return
		}
		e.publish(res)
	}()
	return gen
}

// Busy reports whether any pass is still in flight.
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight > 0
}

// Wait blocks until every submitted pass has finished, published or not.
// Used by the one-shot CLI path and by tests.
func (e *Engine) Wait() {
	e.wg.Wait()
}
