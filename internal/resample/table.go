package resample

import (
	"math"
)

// axisTable maps each output coordinate of one axis to a window of taps
// consecutive input coordinates starting at offsets[i], with the normalised
// weights for that window in weights[i*taps:(i+1)*taps].
//
// Windows that would reach past either edge are shifted inside the input and
// the weights of the out-of-range taps are folded onto the edge sample, which
// is the same as clamping the source index.
type axisTable struct {
	in, out int
	taps    int
	offsets []int
	weights []float32
}

func makeTable(f Filter, in, out int) axisTable {
	if f.Type == Nearest {
		return nearestTable(in, out)
	}

	scale := float64(in) / float64(out)
	widen := Widening(f, scale)
	support := f.Radius() * widen
	taps := int(math.Min(float64(in), math.Ceil(2*support)+1))

	t := axisTable{
		in:      in,
		out:     out,
		taps:    taps,
		offsets: make([]int, out),
		weights: make([]float32, out*taps),
	}
	row := make([]float64, taps)
	for i := range out {
		center := (float64(i)+0.5)*scale - 0.5
		first := int(math.Ceil(center - support))
		last := int(math.Floor(center + support))
		x := clip(first, 0, in-taps)

		clear(row)
		sum := 0.0
		for j := first; j <= last; j++ {
			w := Evaluate(f, (float64(j)-center)/widen)
			if w == 0 {
				continue
			}
			row[clip(j, 0, in-1)-x] += w
			sum += w
		}
		if sum == 0 {
			row[clip(int(math.Floor(center+0.5)), 0, in-1)-x] = 1
			sum = 1
		}

		t.offsets[i] = x
		for k, w := range row {
			t.weights[i*taps+k] = float32(w / sum)
		}
	}
	return t
}

// nearestTable picks floor((i+0.5)*in/out) in integer arithmetic, so the
// choice is exact for every size pair.
func nearestTable(in, out int) axisTable {
	t := axisTable{
		in:      in,
		out:     out,
		taps:    1,
		offsets: make([]int, out),
		weights: make([]float32, out),
	}
	for i := range out {
		t.offsets[i] = min((2*i+1)*in/(2*out), in-1)
		t.weights[i] = 1
	}
	return t
}

// window returns the first input index and weights for output coordinate i.
func (t *axisTable) window(i int) (int, []float32) {
	return t.offsets[i], t.weights[i*t.taps : (i+1)*t.taps]
}

func clip(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
