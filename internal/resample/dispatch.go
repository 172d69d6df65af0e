package resample

import (
	"fmt"
	"sort"

	"github.com/rm-hull/image-resampler/internal/kernel"
	"github.com/rm-hull/image-resampler/internal/tensor"
)

// Generic is a Kernel behind runtime element type tags.
type Generic interface {
	InputType() tensor.ElementType
	OutputType() tensor.ElementType
	GetRequirements(ctx *kernel.Context, in tensor.AnyView, params Params) (kernel.Requirements, error)
	Run(ctx *kernel.Context, out, in tensor.AnyView, params Params)
}

type typePair struct {
	in, out tensor.ElementType
}

var registry = map[typePair]Generic{}

func register[In, Out tensor.Element]() {
	registry[typePair{tensor.TypeOf[In](), tensor.TypeOf[Out]()}] = generic[In, Out]{}
}

func init() {
	register[uint8, uint8]()
	register[uint16, uint16]()
	register[int16, int16]()
	register[float32, float32]()
	register[uint8, float32]()
	register[float32, uint8]()
}

// Lookup returns the kernel registered for the element type pair.
func Lookup(in, out tensor.ElementType) (Generic, error) {
	if g, ok := registry[typePair{in, out}]; ok {
		return g, nil
	}
	return nil, fmt.Errorf("%w: no resampling kernel for %v -> %v", kernel.ErrConfiguration, in, out)
}

// Supported lists the registered pairs as "in->out" strings, sorted.
func Supported() []string {
	names := make([]string, 0, len(registry))
	for p := range registry {
		names = append(names, p.in.String()+"->"+p.out.String())
	}
	sort.Strings(names)
	return names
}

type generic[In, Out tensor.Element] struct {
	typed Kernel[In, Out]
}

func (generic[In, Out]) InputType() tensor.ElementType  { return tensor.TypeOf[In]() }
func (generic[In, Out]) OutputType() tensor.ElementType { return tensor.TypeOf[Out]() }

func (g generic[In, Out]) GetRequirements(ctx *kernel.Context, in tensor.AnyView, params Params) (kernel.Requirements, error) {
	v, ok := in.(tensor.View[In])
	if !ok {
		return kernel.Requirements{}, fmt.Errorf("%w: input is %v, kernel expects %v",
			kernel.ErrConfiguration, in.ElementType(), g.InputType())
	}
	return g.typed.GetRequirements(ctx, v, params)
}

func (g generic[In, Out]) Run(ctx *kernel.Context, out, in tensor.AnyView, params Params) {
	iv, ok := in.(tensor.View[In])
	if !ok {
		kernel.Preconditionf("input is %v, kernel expects %v", in.ElementType(), g.InputType())
	}
	ov, ok := out.(tensor.View[Out])
	if !ok {
		kernel.Preconditionf("output is %v, kernel expects %v", out.ElementType(), g.OutputType())
	}
	g.typed.Run(ctx, ov, iv, params)
}
