package resample

import (
	"testing"

	"github.com/rm-hull/image-resampler/internal/tensor"
	"github.com/stretchr/testify/assert"
)

// sumTable adds three consecutive samples with unit weights.
func sumTable() axisTable {
	return axisTable{in: 3, out: 1, taps: 3, offsets: []int{0}, weights: []float32{1, 1, 1}}
}

// 1e8 + 1 rounds back to 1e8 in float32, so these only come out as 1 when the
// sum is carried in a wider type.
var cancelling = []float32{1e8, 1, -1e8}

func TestHorizontalPass_AccumulatesWide(t *testing.T) {
	table := sumTable()
	src := tensor.NewView(cancelling, tensor.Shape{Height: 1, Width: 3, Channels: 1})
	dst := make([]float32, 1)

	horizontalPass(dst, src, &table, 0, 1)
	assert.Equal(t, float32(1), dst[0])
}

func TestVerticalPass_AccumulatesWide(t *testing.T) {
	table := sumTable()
	dst := tensor.Alloc[float32](tensor.Shape{Height: 1, Width: 1, Channels: 1})

	verticalPass(dst, cancelling, &table, 0, 1, storeFunc[float32]())
	assert.Equal(t, float32(1), dst.Data[0])
}
