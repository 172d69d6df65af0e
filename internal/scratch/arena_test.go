package scratch

import (
	"errors"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_Reserve(t *testing.T) {
	t.Run("grows and keeps buffers", func(t *testing.T) {
		var a Arena
		require.NoError(t, a.Reserve(Sizes{1000}))
		assert.Equal(t, 1000, a.Capacity(MemoryHost))
		assert.Equal(t, 1, a.Reallocations())

		require.NoError(t, a.Reserve(Sizes{1000}))
		require.NoError(t, a.Reserve(Sizes{10}))
		assert.Equal(t, 1000, a.Capacity(MemoryHost))
		assert.Equal(t, 1, a.Reallocations(), "equal or smaller requests must not reallocate")

		require.NoError(t, a.Reserve(Sizes{4096}))
		assert.Equal(t, 4096, a.Capacity(MemoryHost))
		assert.Equal(t, 2, a.Reallocations())
	})

	t.Run("limit exceeded is recoverable", func(t *testing.T) {
		a := Arena{Limit: 1 << 10}
		require.NoError(t, a.Reserve(Sizes{512}))

		err := a.Reserve(Sizes{1 << 20})
		assert.True(t, errors.Is(err, ErrAllocation))
		assert.Equal(t, 512, a.Capacity(MemoryHost), "failed reserve must leave the arena untouched")

		require.NoError(t, a.Reserve(Sizes{1 << 10}))
		assert.Equal(t, 1<<10, a.Capacity(MemoryHost))
	})

	t.Run("impossible size", func(t *testing.T) {
		var a Arena
		err := a.Reserve(Sizes{math.MaxInt - 8})
		assert.True(t, errors.Is(err, ErrAllocation))
		assert.Equal(t, 0, a.Capacity(MemoryHost))
	})

	t.Run("negative size", func(t *testing.T) {
		var a Arena
		assert.ErrorIs(t, a.Reserve(Sizes{-1}), ErrAllocation)
	})
}

func TestArena_ScratchpadBeforeReserve(t *testing.T) {
	var a Arena
	assert.PanicsWithValue(t, ErrNotReserved, func() { a.Scratchpad() })
}

func TestScratchpad_Allocate(t *testing.T) {
	var e Estimator
	Add[float32](&e, MemoryHost, 10)
	Add[uint8](&e, MemoryHost, 3)
	Add[int32](&e, MemoryHost, 5)

	var a Arena
	require.NoError(t, a.Reserve(e.Sizes()))
	sp := a.Scratchpad()

	f := Allocate[float32](sp, MemoryHost, 10)
	b := Allocate[uint8](sp, MemoryHost, 3)
	i := Allocate[int32](sp, MemoryHost, 5)
	assert.Len(t, f, 10)
	assert.Len(t, b, 3)
	assert.Len(t, i, 5)
	assert.Equal(t, e.Sizes()[MemoryHost], sp.Used(MemoryHost))

	for _, p := range []unsafe.Pointer{unsafe.Pointer(&f[0]), unsafe.Pointer(&b[0]), unsafe.Pointer(&i[0])} {
		assert.Zero(t, uintptr(p)%Alignment)
	}

	f[9] = 1.5
	i[0] = -7
	assert.Equal(t, float32(1.5), f[9])
	assert.Equal(t, int32(-7), i[0])

	assert.Panics(t, func() { Allocate[float64](sp, MemoryHost, 1) })
}

func TestScratchpad_FreshCursor(t *testing.T) {
	var a Arena
	require.NoError(t, a.Reserve(Sizes{256}))

	first := Allocate[uint8](a.Scratchpad(), MemoryHost, 256)
	second := Allocate[uint8](a.Scratchpad(), MemoryHost, 256)
	assert.Equal(t, &first[0], &second[0], "each scratchpad restarts at the beginning of the pool")
}
