package tensor

import "fmt"

// Rank is the only tensor rank the resampler handles: height, width, channels.
const Rank = 3

// Shape is a rank-3 (height, width, channels) tensor shape.
type Shape struct {
	Height   int `json:"height"`
	Width    int `json:"width"`
	Channels int `json:"channels"`
}

// ShapeOf builds a Shape from dynamic dimensions, rejecting any rank but 3.
func ShapeOf(dims ...int) (Shape, error) {
	if len(dims) != Rank {
		return Shape{}, fmt.Errorf("expected rank %d, got %d", Rank, len(dims))
	}
	return Shape{Height: dims[0], Width: dims[1], Channels: dims[2]}, nil
}

// Dims returns the shape as a slice in (height, width, channels) order.
func (s Shape) Dims() []int {
	return []int{s.Height, s.Width, s.Channels}
}

// NumElements returns the product of all dimensions.
func (s Shape) NumElements() int {
	return s.Height * s.Width * s.Channels
}

// Empty reports whether any dimension is zero or negative.
func (s Shape) Empty() bool {
	return s.Height <= 0 || s.Width <= 0 || s.Channels <= 0
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Height, s.Width, s.Channels)
}
