// Package tensor provides non-owning rank-3 views over image sample buffers.
//
// A View addresses its elements through explicit strides, so a sub-rectangle
// of a larger image, or a row-padded buffer, can be handed to the resampler
// without copying:
//
//	v := tensor.NewView(pixels, tensor.Shape{Height: 480, Width: 640, Channels: 4})
//	px := v.Pixel(10, 20) // channels of row 10, column 20
package tensor

import "fmt"

// AnyView is implemented by every View regardless of its element type.
type AnyView interface {
	ElementType() ElementType
	Dims() Shape
}

// View is a strided, non-owning view over a rank-3 buffer.
type View[T Element] struct {
	Data    []T
	Shape   Shape
	Strides [Rank]int // in elements, (row, column, channel)
}

// NewView returns a contiguous view over data with the given shape.
func NewView[T Element](data []T, shape Shape) View[T] {
	return View[T]{
		Data:    data,
		Shape:   shape,
		Strides: [Rank]int{shape.Width * shape.Channels, shape.Channels, 1},
	}
}

// NewStridedView returns a view with an explicit row stride, e.g. over a padded
// or sub-image buffer. Pixels within a row are assumed packed.
func NewStridedView[T Element](data []T, shape Shape, rowStride int) (View[T], error) {
	if rowStride < shape.Width*shape.Channels {
		return View[T]{}, fmt.Errorf("row stride %d too small for %v", rowStride, shape)
	}
	v := View[T]{
		Data:    data,
		Shape:   shape,
		Strides: [Rank]int{rowStride, shape.Channels, 1},
	}
	if need := v.span(); len(data) < need {
		return View[T]{}, fmt.Errorf("buffer of %d elements too small for %v (need %d)", len(data), shape, need)
	}
	return v, nil
}

// Alloc returns a contiguous view over freshly allocated storage.
func Alloc[T Element](shape Shape) View[T] {
	return NewView(make([]T, shape.NumElements()), shape)
}

func (v View[T]) ElementType() ElementType { return TypeOf[T]() }

func (v View[T]) Dims() Shape { return v.Shape }

// span returns the number of elements needed to back the view.
func (v View[T]) span() int {
	if v.Shape.Empty() {
		return 0
	}
	return (v.Shape.Height-1)*v.Strides[0] + (v.Shape.Width-1)*v.Strides[1] + (v.Shape.Channels-1)*v.Strides[2] + 1
}

// Valid reports whether the backing slice covers every addressable element.
func (v View[T]) Valid() bool {
	return len(v.Data) >= v.span()
}

// Offset returns the index of element (y, x, c) in Data.
func (v View[T]) Offset(y, x, c int) int {
	return y*v.Strides[0] + x*v.Strides[1] + c*v.Strides[2]
}

func (v View[T]) At(y, x, c int) T {
	return v.Data[v.Offset(y, x, c)]
}

func (v View[T]) Set(y, x, c int, value T) {
	v.Data[v.Offset(y, x, c)] = value
}

// Pixel returns the channels of one pixel. Only valid for packed channels.
func (v View[T]) Pixel(y, x int) []T {
	o := v.Offset(y, x, 0)
	return v.Data[o : o+v.Shape.Channels]
}

// Row returns the packed samples of row y.
func (v View[T]) Row(y int) []T {
	o := y * v.Strides[0]
	return v.Data[o : o+v.Shape.Width*v.Shape.Channels]
}
