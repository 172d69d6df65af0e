package resample

import (
	"testing"

	"github.com/rm-hull/image-resampler/internal/kernel"
	"github.com/rm-hull/image-resampler/internal/scratch"
	"github.com/rm-hull/image-resampler/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	g, err := Lookup(tensor.Uint8, tensor.Float32)
	require.NoError(t, err)
	assert.Equal(t, tensor.Uint8, g.InputType())
	assert.Equal(t, tensor.Float32, g.OutputType())

	_, err = Lookup(tensor.Int16, tensor.Uint8)
	assert.ErrorIs(t, err, kernel.ErrConfiguration)

	assert.Equal(t, []string{
		"float32->float32", "float32->uint8", "int16->int16", "uint16->uint16", "uint8->float32", "uint8->uint8",
	}, Supported())
}

func TestGeneric_MatchesTypedKernel(t *testing.T) {
	in := randomImage(13, tensor.Shape{Height: 20, Width: 30, Channels: 3})
	params := NewParams(11, 7, Lanczos3Filter())

	g, err := Lookup(tensor.Uint8, tensor.Uint8)
	require.NoError(t, err)

	var ctx kernel.Context
	req, err := g.GetRequirements(&ctx, in, params)
	require.NoError(t, err)
	_, ok := kernel.GetData[*SeparableResample[uint8, uint8]](&ctx)
	assert.True(t, ok, "engine should be stored in the context")

	var arena scratch.Arena
	require.NoError(t, arena.Reserve(req.ScratchSizes))
	ctx.Scratchpad = arena.Scratchpad()
	out := tensor.Alloc[uint8](req.OutputShapes[0])
	g.Run(&ctx, out, in, params)

	assert.Equal(t, resampleWith[uint8, uint8](t, in, params).Data, out.Data)
}

func TestKernel_ReusesEngineInContext(t *testing.T) {
	var k Kernel[uint16, uint16]
	var ctx kernel.Context
	in := tensor.Alloc[uint16](tensor.Shape{Height: 8, Width: 8, Channels: 1})

	_, err := k.GetRequirements(&ctx, in, NewParams(4, 4, LinearFilter()))
	require.NoError(t, err)
	first := kernel.MustGetData[*SeparableResample[uint16, uint16]](&ctx)

	_, err = k.GetRequirements(&ctx, in, NewParams(2, 2, CubicFilter()))
	require.NoError(t, err)
	assert.Same(t, first, kernel.MustGetData[*SeparableResample[uint16, uint16]](&ctx))
}

func TestGeneric_WrongElementType(t *testing.T) {
	g, err := Lookup(tensor.Float32, tensor.Float32)
	require.NoError(t, err)

	in := randomImage(1, tensor.Shape{Height: 4, Width: 4, Channels: 1})
	_, err = g.GetRequirements(&kernel.Context{}, in, NewParams(2, 2, LinearFilter()))
	assert.ErrorIs(t, err, kernel.ErrConfiguration)

	assertPrecondition(t, func() {
		out := tensor.Alloc[float32](tensor.Shape{Height: 2, Width: 2, Channels: 1})
		g.Run(&kernel.Context{}, out, in, NewParams(2, 2, LinearFilter()))
	})
}

func TestMixedTypes(t *testing.T) {
	in := randomImage(17, tensor.Shape{Height: 12, Width: 12, Channels: 2})
	params := NewParams(6, 18, CubicFilter())

	asFloat := resampleWith[uint8, float32](t, in, params)
	direct := resampleWith[uint8, uint8](t, in, params)
	back := resampleWith[float32, uint8](t, asFloat, NewParams(6, 18, NearestFilter()))

	assert.Equal(t, direct.Data, back.Data)
}
