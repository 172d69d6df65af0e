package resample

import (
	"math"

	"github.com/rm-hull/image-resampler/internal/tensor"
)

// horizontalPass resamples rows [start, end) of src along the width into the
// packed float32 image dst of shape (src.Height, t.out, channels). Both passes
// accumulate in float64 so the sum is wider than any element type.
func horizontalPass[In tensor.Element](dst []float32, src tensor.View[In], t *axisTable, start, end int) {
	channels := src.Shape.Channels
	rowLen := t.out * channels
	xs, cs := src.Strides[1], src.Strides[2]
	for y := start; y < end; y++ {
		d := dst[y*rowLen : (y+1)*rowLen]
		for x := range t.out {
			first, weights := t.window(x)
			base := src.Offset(y, first, 0)
			for c := range channels {
				sum := 0.0
				o := base + c*cs
				for _, w := range weights {
					sum += float64(w) * float64(src.Data[o])
					o += xs
				}
				d[x*channels+c] = float32(sum)
			}
		}
	}
}

// verticalPass resamples output rows [start, end) from the packed float32
// image src along the height and stores them in dst.
func verticalPass[Out tensor.Element](dst tensor.View[Out], src []float32, t *axisTable, start, end int, store func(float64) Out) {
	channels := dst.Shape.Channels
	rowLen := dst.Shape.Width * channels
	for y := start; y < end; y++ {
		first, weights := t.window(y)
		base := first * rowLen
		for x := range dst.Shape.Width {
			px := dst.Offset(y, x, 0)
			for c := range channels {
				sum := 0.0
				o := base + x*channels + c
				for _, w := range weights {
					sum += float64(w) * float64(src[o])
					o += rowLen
				}
				dst.Data[px+c*dst.Strides[2]] = store(sum)
			}
		}
	}
}

// storeFunc returns the conversion from accumulator to Out: round half up and
// saturate for integer types, a plain conversion for float32.
func storeFunc[Out tensor.Element]() func(float64) Out {
	lo, hi, saturating := tensor.Range[Out]()
	if !saturating {
		return func(v float64) Out { return Out(v) }
	}
	return func(v float64) Out {
		r := math.Floor(v + 0.5)
		if r <= float64(lo) || math.IsNaN(r) {
			return Out(lo)
		}
		if r >= float64(hi) {
			return Out(hi)
		}
		return Out(r)
	}
}
