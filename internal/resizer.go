package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/rm-hull/image-resampler/internal/kernel"
	"github.com/rm-hull/image-resampler/internal/png/stage"
	"github.com/rm-hull/image-resampler/internal/resample"
	"github.com/rm-hull/image-resampler/internal/scratch"
	"github.com/rm-hull/image-resampler/internal/tensor"
)

// Resizer bundles one resampling engine with its kernel context and scratch
// arena, so repeated resizes reuse the same memory. It is not safe for
// concurrent use; give each goroutine its own.
type Resizer struct {
	// Workers is the fan-out of each run; <= 0 means GOMAXPROCS.
	Workers int
	// MaxPixels caps the output area; 0 means unlimited.
	MaxPixels int

	engine resample.SeparableResample[uint8, uint8]
	ctx    kernel.Context
	arena  scratch.Arena
}

func NewResizer(cache *resample.PlanCache, scratchLimit, workers, maxPixels int) *Resizer {
	r := &Resizer{Workers: workers, MaxPixels: maxPixels}
	r.engine.Cache = cache
	r.arena.Limit = scratchLimit
	return r
}

func (r *Resizer) Resample(in tensor.View[uint8], params resample.Params) (tensor.View[uint8], error) {
	return r.ResampleContext(context.Background(), in, params)
}

// ResampleContext resizes in into a freshly allocated view. Configuration and
// allocation failures wrap kernel.ErrConfiguration and kernel.ErrAllocation.
func (r *Resizer) ResampleContext(ctx context.Context, in tensor.View[uint8], params resample.Params) (tensor.View[uint8], error) {
	start := time.Now()
	label := filterLabel(params)

	out, err := r.run(ctx, in, params)
	if err != nil {
		resampleTotal.WithLabelValues(label, "error").Inc()
		return tensor.View[uint8]{}, err
	}
	resampleDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	resampleTotal.WithLabelValues(label, "ok").Inc()
	return out, nil
}

func (r *Resizer) run(ctx context.Context, in tensor.View[uint8], params resample.Params) (tensor.View[uint8], error) {
	if _, err := LimitOutput(in.Shape, params, r.MaxPixels); err != nil {
		return tensor.View[uint8]{}, err
	}
	req, err := r.engine.Setup(&r.ctx, in, params)
	if err != nil {
		return tensor.View[uint8]{}, err
	}

	if err := r.reserve(req.ScratchSizes); err != nil {
		return tensor.View[uint8]{}, err
	}

	out := tensor.Alloc[uint8](req.OutputShapes[0])
	if err := r.engine.RunParallel(ctx, &r.ctx, out, in, params, r.Workers); err != nil {
		return tensor.View[uint8]{}, err
	}
	return out, nil
}

// LimitOutput returns the output shape for resampling in with params, or a
// configuration error when it is invalid or larger than maxPixels. It builds
// no weight tables, so it is safe to call on untrusted sizes before Setup.
func LimitOutput(in tensor.Shape, params resample.Params, maxPixels int) (tensor.Shape, error) {
	shape, err := resample.OutputShape(in, params)
	if err != nil {
		return tensor.Shape{}, err
	}
	if maxPixels > 0 && shape.Height*shape.Width > maxPixels {
		return tensor.Shape{}, fmt.Errorf("%w: output %v exceeds the %d pixel limit",
			kernel.ErrConfiguration, shape, maxPixels)
	}
	return shape, nil
}

func (r *Resizer) reserve(sizes scratch.Sizes) error {
	before, reallocs := r.arena.Capacity(scratch.MemoryHost), r.arena.Reallocations()
	if err := r.arena.Reserve(sizes); err != nil {
		return fmt.Errorf("failed to reserve %d scratch bytes: %w", sizes.Total(), err)
	}
	arenaBytesReserved.Add(float64(r.arena.Capacity(scratch.MemoryHost) - before))
	arenaReallocations.Add(float64(r.arena.Reallocations() - reallocs))
	r.ctx.Scratchpad = r.arena.Scratchpad()
	return nil
}

// WithContext binds ctx to every resample the returned value runs.
func (r *Resizer) WithContext(ctx context.Context) stage.Resampler {
	return boundResizer{r: r, ctx: ctx}
}

type boundResizer struct {
	r   *Resizer
	ctx context.Context
}

func (b boundResizer) Resample(in tensor.View[uint8], params resample.Params) (tensor.View[uint8], error) {
	return b.r.ResampleContext(b.ctx, in, params)
}

// ScratchBytes is the arena capacity currently held.
func (r *Resizer) ScratchBytes() int {
	return r.arena.Capacity(scratch.MemoryHost)
}

func filterLabel(params resample.Params) string {
	if len(params) == 0 {
		return "none"
	}
	return params[0].Filter.Type.String()
}
