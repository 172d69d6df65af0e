package resample

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rm-hull/image-resampler/internal/kernel"
	"github.com/rm-hull/image-resampler/internal/scratch"
	"github.com/rm-hull/image-resampler/internal/tensor"
	"golang.org/x/sync/errgroup"
)

// SeparableResample resizes (height, width, channels) images with a
// horizontal pass into a float32 intermediate image followed by a vertical
// pass into the output.
//
// Setup validates the geometry, builds the weight tables and reports the
// scratch the caller must reserve; Run then only reads the tables and the
// scratchpad found in the kernel context. An engine is not safe for
// concurrent Setup and Run, but Run itself does not mutate the engine.
type SeparableResample[In, Out tensor.Element] struct {
	// Cache, when set, shares weight tables between engines.
	Cache *PlanCache

	plan  *plan
	store func(float64) Out
}

// Setup plans the resampling of in with params. The input data is not read.
// On error the engine keeps its previous setup.
func (r *SeparableResample[In, Out]) Setup(ctx *kernel.Context, in tensor.View[In], params Params) (kernel.Requirements, error) {
	if !in.Valid() {
		return kernel.Requirements{}, fmt.Errorf("%w: input buffer too small for %v", kernel.ErrConfiguration, in.Shape)
	}
	var p *plan
	var err error
	if r.Cache != nil {
		p, err = r.Cache.get(in.Shape, params)
	} else {
		p, err = newPlan(in.Shape, params)
	}
	if err != nil {
		return kernel.Requirements{}, err
	}
	r.plan = p
	if r.store == nil {
		r.store = storeFunc[Out]()
	}
	return p.requirements(), nil
}

// Run resamples in into out. The context must carry a scratchpad with at
// least the scratch reported by Setup. Any mismatch with the setup panics with
// kernel.ErrPrecondition before the output is touched.
func (r *SeparableResample[In, Out]) Run(ctx *kernel.Context, out tensor.View[Out], in tensor.View[In], params Params) {
	e := r.Begin(ctx, out, in, params)
	defer e.Done()
	e.Horizontal(0, e.IntermediateRows())
	e.Vertical(0, e.OutputRows())
}

// RunParallel is Run with both passes split into disjoint row ranges across
// up to workers goroutines; workers <= 0 means GOMAXPROCS. The result is
// bit-identical to Run. If goCtx is cancelled before the vertical pass starts
// the output is left untouched and the context error is returned.
func (r *SeparableResample[In, Out]) RunParallel(goCtx context.Context, ctx *kernel.Context, out tensor.View[Out], in tensor.View[In], params Params, workers int) error {
	e := r.Begin(ctx, out, in, params)
	defer e.Done()
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(goCtx)
	forRanges(e.IntermediateRows(), workers, func(start, end int) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e.Horizontal(start, end)
			return nil
		})
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if err := goCtx.Err(); err != nil {
		return err
	}

	var vg errgroup.Group
	forRanges(e.OutputRows(), workers, func(start, end int) {
		vg.Go(func() error {
			e.Vertical(start, end)
			return nil
		})
	})
	return vg.Wait()
}

// forRanges splits [0, n) into at most parts contiguous chunks.
func forRanges(n, parts int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	parts = max(1, min(parts, n))
	chunk := (n + parts - 1) / parts
	for start := 0; start < n; start += chunk {
		fn(start, min(start+chunk, n))
	}
}

// Execution is one in-flight run, for callers that want to schedule the row
// ranges of each pass themselves. Every Horizontal range must complete before
// any Vertical range starts; ranges within one pass write disjoint memory and
// may run concurrently.
type Execution[In, Out tensor.Element] struct {
	r    *SeparableResample[In, Out]
	in   tensor.View[In]
	out  tensor.View[Out]
	tmp  []float32
	sp   *scratch.Scratchpad
	mark scratch.Mark
}

// Begin checks every precondition of Run and claims the intermediate buffer
// from the context's scratchpad. Call Done to release it.
func (r *SeparableResample[In, Out]) Begin(ctx *kernel.Context, out tensor.View[Out], in tensor.View[In], params Params) *Execution[In, Out] {
	p := r.plan
	switch {
	case p == nil:
		kernel.Preconditionf("Run called before Setup")
	case in.Shape != p.in:
		kernel.Preconditionf("input shape %v differs from setup shape %v", in.Shape, p.in)
	case !params.equal(p.params):
		kernel.Preconditionf("params differ from setup")
	case out.Shape != p.out:
		kernel.Preconditionf("output shape %v, want %v", out.Shape, p.out)
	case !in.Valid():
		kernel.Preconditionf("input buffer too small for %v", in.Shape)
	case !out.Valid():
		kernel.Preconditionf("output buffer too small for %v", out.Shape)
	case ctx == nil || ctx.Scratchpad == nil:
		kernel.Preconditionf("no scratchpad in kernel context")
	}

	n := intermediateShape(p.in, p.out).NumElements()
	sp := ctx.Scratchpad
	if need := n * 4; sp.Available(scratch.MemoryHost) < need {
		kernel.Preconditionf("scratchpad has %d bytes, need %d; reserve the sizes reported by Setup",
			sp.Available(scratch.MemoryHost), need)
	}
	mark := sp.Mark()
	return &Execution[In, Out]{
		r:    r,
		in:   in,
		out:  out,
		tmp:  scratch.Allocate[float32](sp, scratch.MemoryHost, n),
		sp:   sp,
		mark: mark,
	}
}

// IntermediateRows is the number of rows the horizontal pass produces.
func (e *Execution[In, Out]) IntermediateRows() int { return e.in.Shape.Height }

// OutputRows is the number of rows the vertical pass produces.
func (e *Execution[In, Out]) OutputRows() int { return e.out.Shape.Height }

// Horizontal runs the width pass for intermediate rows [start, end).
func (e *Execution[In, Out]) Horizontal(start, end int) {
	horizontalPass(e.tmp, e.in, &e.r.plan.horizontal, start, end)
}

// Vertical runs the height pass for output rows [start, end).
func (e *Execution[In, Out]) Vertical(start, end int) {
	verticalPass(e.out, e.tmp, &e.r.plan.vertical, start, end, e.r.store)
}

// Done returns the intermediate buffer to the scratchpad.
func (e *Execution[In, Out]) Done() {
	e.sp.Reset(e.mark)
	e.tmp = nil
}
