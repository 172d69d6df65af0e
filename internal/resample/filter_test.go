package resample

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		x      float64
		want   float64
	}{
		{"nearest centre", NearestFilter(), 0, 1},
		{"nearest inside", NearestFilter(), -0.49, 1},
		{"nearest edge", NearestFilter(), 0.5, 0},
		{"linear half", LinearFilter(), 0.5, 0.5},
		{"linear negative", LinearFilter(), -0.25, 0.75},
		{"linear outside", LinearFilter(), 1, 0},
		{"triangular half", TriangularFilter(), 0.5, 0.5},
		{"cubic centre", CubicFilter(), 0, 1},
		{"cubic one", CubicFilter(), 1, 0},
		{"cubic lobe", CubicFilter(), 1.5, -0.0625},
		{"cubic outside", CubicFilter(), 2, 0},
		{"lanczos centre", Lanczos3Filter(), 0, 1},
		{"lanczos outside", Lanczos3Filter(), 3, 0},
		{"gaussian centre", GaussianFilter(2), 0, 1},
		{"gaussian sigma", GaussianFilter(2), 2, math.Exp(-0.5)},
		{"gaussian outside", GaussianFilter(2), 6, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Evaluate(tc.filter, tc.x), 1e-12)
		})
	}

	t.Run("lanczos zero crossings", func(t *testing.T) {
		for _, x := range []float64{1, 2, -1, -2} {
			assert.InDelta(t, 0, Evaluate(Lanczos3Filter(), x), 1e-12)
		}
	})
}

func TestSupportRadius(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		ratio  float64
		want   float64
	}{
		{"nearest down", NearestFilter(), 4, 0.5},
		{"linear is never widened", LinearFilter(), 4, 1},
		{"triangular up", TriangularFilter(), 0.5, 1},
		{"triangular same", TriangularFilter(), 1, 1},
		{"triangular down", TriangularFilter(), 2.5, 2.5},
		{"cubic down", CubicFilter(), 3, 6},
		{"lanczos up", Lanczos3Filter(), 0.25, 3},
		{"lanczos down", Lanczos3Filter(), 2, 6},
		{"gaussian ignores ratio", GaussianFilter(2), 4, 6},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SupportRadius(tc.filter, tc.ratio))
		})
	}
}

func TestMakeFilter(t *testing.T) {
	f, err := MakeFilter(Gaussian, 12)
	require.NoError(t, err)
	assert.Equal(t, GaussianFilter(12), f)

	f, err = MakeFilter(Lanczos3)
	require.NoError(t, err)
	assert.Equal(t, Lanczos3Filter(), f)

	_, err = MakeFilter(Gaussian)
	assert.Error(t, err)
	_, err = MakeFilter(Gaussian, 0)
	assert.Error(t, err)
	_, err = MakeFilter(Gaussian, -1)
	assert.Error(t, err)
	_, err = MakeFilter(Cubic, 1)
	assert.Error(t, err)
	_, err = MakeFilter(FilterType(42))
	assert.Error(t, err)
}

func TestParseFilter(t *testing.T) {
	for _, f := range []Filter{
		NearestFilter(), LinearFilter(), TriangularFilter(), CubicFilter(), Lanczos3Filter(), GaussianFilter(2.5),
	} {
		t.Run(f.String(), func(t *testing.T) {
			parsed, err := ParseFilter(f.String())
			require.NoError(t, err)
			assert.Equal(t, f, parsed)
		})
	}

	t.Run("aliases and case", func(t *testing.T) {
		f, err := ParseFilter(" Lanczos ")
		require.NoError(t, err)
		assert.Equal(t, Lanczos3Filter(), f)
	})

	t.Run("errors", func(t *testing.T) {
		for _, s := range []string{"", "bicubic", "gaussian", "gaussian:abc", "gaussian:0", "gaussian:inf", "gaussian:NaN", "linear:2"} {
			_, err := ParseFilter(s)
			assert.Error(t, err, s)
		}
	})

	t.Run("text round trip", func(t *testing.T) {
		text, err := GaussianFilter(12).MarshalText()
		require.NoError(t, err)
		assert.Equal(t, "gaussian:12", string(text))

		var f Filter
		require.NoError(t, f.UnmarshalText(text))
		assert.Equal(t, GaussianFilter(12), f)
	})
}
