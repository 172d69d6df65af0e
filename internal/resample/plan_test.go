package resample

import (
	"sync"
	"testing"

	"github.com/rm-hull/image-resampler/internal/kernel"
	"github.com/rm-hull/image-resampler/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanCache_HitsAndEviction(t *testing.T) {
	cache := NewPlanCache(2)
	shape := tensor.Shape{Height: 20, Width: 20, Channels: 3}

	_, err := cache.Requirements(shape, NewParams(10, 10, CubicFilter()))
	require.NoError(t, err)
	_, err = cache.Requirements(shape, NewParams(10, 10, CubicFilter()))
	require.NoError(t, err)
	hits, misses := cache.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	_, err = cache.Requirements(shape, NewParams(5, 5, CubicFilter()))
	require.NoError(t, err)
	_, err = cache.Requirements(shape, NewParams(3, 3, CubicFilter()))
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())

	// the oldest entry was evicted
	_, err = cache.Requirements(shape, NewParams(10, 10, CubicFilter()))
	require.NoError(t, err)
	hits, misses = cache.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 4, misses)
}

func TestPlanCache_ErrorsAreNotCached(t *testing.T) {
	cache := NewPlanCache(4)
	_, err := cache.Requirements(tensor.Shape{Height: 4, Width: 4, Channels: 1}, NewParams(0, 4, LinearFilter()))
	assert.ErrorIs(t, err, kernel.ErrConfiguration)
	_, err = cache.Requirements(tensor.Shape{Height: 4, Width: 4, Channels: 1}, Params{{Size: 2}})
	assert.ErrorIs(t, err, kernel.ErrConfiguration)
	_, err = cache.Requirements(tensor.Shape{Height: 4, Width: 4, Channels: 1}, NewParams(1, 1<<50, LinearFilter()))
	assert.ErrorIs(t, err, kernel.ErrConfiguration)
	assert.Equal(t, 0, cache.Len())
}

func TestPlanCache_SharedAcrossEngines(t *testing.T) {
	cache := NewPlanCache(8)
	in := randomImage(8, tensor.Shape{Height: 32, Width: 24, Channels: 3})
	params := NewParams(16, 40, Lanczos3Filter())
	want := resampleWith[uint8, uint8](t, in, params)

	var wg sync.WaitGroup
	results := make([][]uint8, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := SeparableResample[uint8, uint8]{Cache: cache}
			ctx, out := setup(t, &r, in, params)
			r.Run(ctx, out, in, params)
			results[i] = out.Data
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want.Data, got)
	}
	assert.Equal(t, 1, cache.Len())
	hits, misses := cache.Stats()
	assert.Equal(t, 8, hits+misses)
}
