package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeOf(t *testing.T) {
	t.Run("rank 3", func(t *testing.T) {
		s, err := ShapeOf(4, 5, 3)
		assert.NoError(t, err)
		assert.Equal(t, Shape{Height: 4, Width: 5, Channels: 3}, s)
		assert.Equal(t, 60, s.NumElements())
		assert.Equal(t, "4x5x3", s.String())
	})

	t.Run("wrong rank", func(t *testing.T) {
		_, err := ShapeOf(4, 5)
		assert.Error(t, err)
		_, err = ShapeOf(1, 2, 3, 4)
		assert.Error(t, err)
	})
}

func TestElementType(t *testing.T) {
	assert.Equal(t, Uint8, TypeOf[uint8]())
	assert.Equal(t, Uint16, TypeOf[uint16]())
	assert.Equal(t, Int16, TypeOf[int16]())
	assert.Equal(t, Float32, TypeOf[float32]())
	assert.Equal(t, 1, Uint8.Size())
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, "int16", Int16.String())

	lo, hi, ok := Range[uint8]()
	assert.True(t, ok)
	assert.Equal(t, float32(0), lo)
	assert.Equal(t, float32(255), hi)
	_, _, ok = Range[float32]()
	assert.False(t, ok)
}

func TestView(t *testing.T) {
	shape := Shape{Height: 2, Width: 3, Channels: 2}
	v := Alloc[uint8](shape)
	assert.True(t, v.Valid())
	assert.Equal(t, [Rank]int{6, 2, 1}, v.Strides)

	v.Set(1, 2, 1, 42)
	assert.Equal(t, uint8(42), v.At(1, 2, 1))
	assert.Equal(t, []uint8{0, 42}, v.Pixel(1, 2))
	assert.Len(t, v.Row(1), 6)
	assert.Equal(t, Uint8, v.ElementType())
	assert.Equal(t, shape, v.Dims())
}

func TestNewStridedView(t *testing.T) {
	shape := Shape{Height: 2, Width: 2, Channels: 1}
	data := []uint16{1, 2, 99, 3, 4}

	v, err := NewStridedView(data, shape, 3)
	require.NoError(t, err)
	assert.Equal(t, uint16(3), v.At(1, 0, 0))
	assert.Equal(t, uint16(4), v.At(1, 1, 0))

	_, err = NewStridedView(data, shape, 1)
	assert.Error(t, err)

	_, err = NewStridedView(data[:4], shape, 3)
	assert.Error(t, err)
}
