package resample

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FilterType enumerates the interpolation kernels.
type FilterType int

const (
	Nearest FilterType = iota
	Linear
	Triangular
	Cubic
	Lanczos3
	Gaussian
)

var filterNames = map[FilterType]string{
	Nearest:    "nearest",
	Linear:     "linear",
	Triangular: "triangular",
	Cubic:      "cubic",
	Lanczos3:   "lanczos3",
	Gaussian:   "gaussian",
}

func (t FilterType) String() string {
	if name, ok := filterNames[t]; ok {
		return name
	}
	return fmt.Sprintf("FilterType(%d)", int(t))
}

// Known reports whether t is one of the defined filter types.
func (t FilterType) Known() bool {
	_, ok := filterNames[t]
	return ok
}

// Filter selects an interpolation kernel. Sigma is only used by Gaussian.
// Filters are plain values and can be compared and used as map keys.
type Filter struct {
	Type  FilterType
	Sigma float64
}

func NearestFilter() Filter    { return Filter{Type: Nearest} }
func LinearFilter() Filter     { return Filter{Type: Linear} }
func TriangularFilter() Filter { return Filter{Type: Triangular} }
func CubicFilter() Filter      { return Filter{Type: Cubic} }
func Lanczos3Filter() Filter   { return Filter{Type: Lanczos3} }

func GaussianFilter(sigma float64) Filter {
	return Filter{Type: Gaussian, Sigma: sigma}
}

// MakeFilter builds a filter of type t. Gaussian takes exactly one parameter,
// its sigma; the other types take none.
func MakeFilter(t FilterType, params ...float64) (Filter, error) {
	if !t.Known() {
		return Filter{}, fmt.Errorf("unknown filter type %v", t)
	}
	if t == Gaussian {
		if len(params) != 1 {
			return Filter{}, fmt.Errorf("gaussian filter takes 1 parameter, got %d", len(params))
		}
		f := GaussianFilter(params[0])
		return f, f.Validate()
	}
	if len(params) != 0 {
		return Filter{}, fmt.Errorf("%v filter takes no parameters, got %d", t, len(params))
	}
	return Filter{Type: t}, nil
}

// Validate checks the filter type and parameters.
func (f Filter) Validate() error {
	if !f.Type.Known() {
		return fmt.Errorf("unknown filter type %v", f.Type)
	}
	if f.Type == Gaussian && !(f.Sigma > 0 && !math.IsInf(f.Sigma, 1)) {
		return fmt.Errorf("gaussian sigma must be positive and finite, got %v", f.Sigma)
	}
	return nil
}

// Radius is the base support radius of the filter, before any widening.
func (f Filter) Radius() float64 {
	switch f.Type {
	case Nearest:
		return 0.5
	case Linear, Triangular:
		return 1
	case Cubic:
		return 2
	case Lanczos3:
		return 3
	case Gaussian:
		return 3 * f.Sigma
	}
	return 0
}

// Widens reports whether the filter support grows with the downscale ratio.
func (f Filter) Widens() bool {
	switch f.Type {
	case Triangular, Cubic, Lanczos3:
		return true
	}
	return false
}

// Widening is the factor applied to the filter argument and radius for a
// given in/out size ratio: max(1, ratio) for widening filters, 1 otherwise.
func Widening(f Filter, scaleRatio float64) float64 {
	if f.Widens() && scaleRatio > 1 {
		return scaleRatio
	}
	return 1
}

// SupportRadius returns the radius, in source samples, of the window that
// contributes to one output sample when resampling at scaleRatio = in/out.
func SupportRadius(f Filter, scaleRatio float64) float64 {
	return f.Radius() * Widening(f, scaleRatio)
}

// Evaluate returns the unnormalised filter weight at distance x.
func Evaluate(f Filter, x float64) float64 {
	x = math.Abs(x)
	if x >= f.Radius() {
		return 0
	}
	switch f.Type {
	case Nearest:
		return 1
	case Linear, Triangular:
		return 1 - x
	case Cubic:
		// Catmull-Rom, B=0 C=0.5
		if x < 1 {
			return (1.5*x-2.5)*x*x + 1
		}
		return ((-0.5*x+2.5)*x-4)*x + 2
	case Lanczos3:
		return sinc(x) * sinc(x/3)
	case Gaussian:
		return math.Exp(-x * x / (2 * f.Sigma * f.Sigma))
	}
	return 0
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	x *= math.Pi
	return math.Sin(x) / x
}

func (f Filter) String() string {
	if f.Type == Gaussian {
		return "gaussian:" + strconv.FormatFloat(f.Sigma, 'g', -1, 64)
	}
	return f.Type.String()
}

// ParseFilter reads the String form of a filter, e.g. "lanczos3" or
// "gaussian:2.5".
func ParseFilter(s string) (Filter, error) {
	name, arg, hasArg := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")
	if name == "lanczos" {
		name = "lanczos3"
	}
	for t, n := range filterNames {
		if n != name {
			continue
		}
		if !hasArg {
			return MakeFilter(t)
		}
		sigma, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid %s parameter %q: %w", name, arg, err)
		}
		return MakeFilter(t, sigma)
	}
	return Filter{}, fmt.Errorf("unknown filter %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (f Filter) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Filter) UnmarshalText(text []byte) error {
	parsed, err := ParseFilter(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
