package resample

import (
	"github.com/rm-hull/image-resampler/internal/kernel"
	"github.com/rm-hull/image-resampler/internal/tensor"
)

// Kernel is the stateless entry point for one element type pair. Its engine
// lives in the kernel context between GetRequirements and Run:
//
//	var k resample.Kernel[uint8, uint8]
//	var ctx kernel.Context
//	req, err := k.GetRequirements(&ctx, in, params)
//	// ... arena.Reserve(req.ScratchSizes); ctx.Scratchpad = arena.Scratchpad()
//	k.Run(&ctx, out, in, params)
type Kernel[In, Out tensor.Element] struct {
	Cache *PlanCache
}

// GetRequirements sets up an engine, reusing the one already in ctx when it
// has the right type, and stores it in ctx.Data.
func (k Kernel[In, Out]) GetRequirements(ctx *kernel.Context, in tensor.View[In], params Params) (kernel.Requirements, error) {
	impl, ok := kernel.GetData[*SeparableResample[In, Out]](ctx)
	if !ok {
		impl = &SeparableResample[In, Out]{Cache: k.Cache}
	}
	req, err := impl.Setup(ctx, in, params)
	if err != nil {
		return kernel.Requirements{}, err
	}
	kernel.SetData(ctx, impl)
	return req, nil
}

// Run executes the engine stored by GetRequirements.
func (k Kernel[In, Out]) Run(ctx *kernel.Context, out tensor.View[Out], in tensor.View[In], params Params) {
	kernel.MustGetData[*SeparableResample[In, Out]](ctx).Run(ctx, out, in, params)
}
