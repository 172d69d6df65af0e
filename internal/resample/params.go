package resample

import (
	"fmt"

	"github.com/rm-hull/image-resampler/internal/kernel"
	"github.com/rm-hull/image-resampler/internal/tensor"
)

// NumAxes is the number of spatial axes: height then width.
const NumAxes = 2

const (
	// MaxSize bounds every input and output dimension, channels included.
	MaxSize = 1 << 20

	// maxTableWork bounds the filter evaluations needed to build one axis
	// table, which also bounds the table's memory.
	maxTableWork = 1 << 25
)

// AxisParams is the target size and filter for one spatial axis.
type AxisParams struct {
	Size   int    `json:"size"`
	Filter Filter `json:"filter"`
}

// Params holds one AxisParams per spatial axis, in (height, width) order.
type Params []AxisParams

// NewParams uses the same filter on both axes.
func NewParams(height, width int, f Filter) Params {
	return Params{{Size: height, Filter: f}, {Size: width, Filter: f}}
}

// Validate checks the params on their own, without an input shape.
func (p Params) Validate() error {
	if len(p) != NumAxes {
		return fmt.Errorf("%w: expected %d axes, got %d", kernel.ErrConfiguration, NumAxes, len(p))
	}
	for i, axis := range p {
		if axis.Size <= 0 || axis.Size > MaxSize {
			return fmt.Errorf("%w: axis %d target size must be in [1, %d], got %d", kernel.ErrConfiguration, i, MaxSize, axis.Size)
		}
		if err := axis.Filter.Validate(); err != nil {
			return fmt.Errorf("%w: axis %d: %v", kernel.ErrConfiguration, i, err)
		}
	}
	return nil
}

// OutputShape validates the input shape and params and returns the shape the
// resampled image will have.
func OutputShape(in tensor.Shape, p Params) (tensor.Shape, error) {
	if err := p.Validate(); err != nil {
		return tensor.Shape{}, err
	}
	if in.Channels <= 0 {
		return tensor.Shape{}, fmt.Errorf("%w: channel count must be positive, got %d", kernel.ErrConfiguration, in.Channels)
	}
	if in.Height <= 0 || in.Width <= 0 {
		return tensor.Shape{}, fmt.Errorf("%w: empty input %v", kernel.ErrConfiguration, in)
	}
	if in.Height > MaxSize || in.Width > MaxSize || in.Channels > MaxSize {
		return tensor.Shape{}, fmt.Errorf("%w: input %v exceeds %d in some dimension", kernel.ErrConfiguration, in, MaxSize)
	}
	for i, n := range [NumAxes]int{in.Height, in.Width} {
		if w := tableWork(p[i].Filter, n, p[i].Size); w > maxTableWork {
			return tensor.Shape{}, fmt.Errorf("%w: axis %d: %v filter support too wide for %d -> %d",
				kernel.ErrConfiguration, i, p[i].Filter, n, p[i].Size)
		}
	}
	return tensor.Shape{Height: p[0].Size, Width: p[1].Size, Channels: in.Channels}, nil
}

// tableWork is the number of filter evaluations makeTable does for one axis.
func tableWork(f Filter, in, out int) float64 {
	if f.Type == Nearest {
		return float64(out)
	}
	support := SupportRadius(f, float64(in)/float64(out))
	return float64(out) * (2*support + 1)
}

// key is the comparable form of a shape and params pair.
type key struct {
	shape tensor.Shape
	axes  [NumAxes]AxisParams
}

func makeKey(in tensor.Shape, p Params) key {
	k := key{shape: in}
	copy(k.axes[:], p)
	return k
}

func (p Params) equal(other Params) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}
