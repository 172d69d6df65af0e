package resample

import (
	"sync"

	"github.com/rm-hull/image-resampler/internal/kernel"
	"github.com/rm-hull/image-resampler/internal/scratch"
	"github.com/rm-hull/image-resampler/internal/tensor"
)

// plan is everything Setup derives from an input shape and params. It does
// not depend on element types and is read-only once built, so one plan can
// back any number of engines.
type plan struct {
	in, out tensor.Shape
	params  Params

	// vertical resamples height, horizontal resamples width.
	vertical, horizontal axisTable
}

func newPlan(in tensor.Shape, params Params) (*plan, error) {
	out, err := OutputShape(in, params)
	if err != nil {
		return nil, err
	}
	return &plan{
		in:         in,
		out:        out,
		params:     append(Params(nil), params...),
		vertical:   makeTable(params[0].Filter, in.Height, out.Height),
		horizontal: makeTable(params[1].Filter, in.Width, out.Width),
	}, nil
}

// intermediateShape is the image after the horizontal pass.
func intermediateShape(in, out tensor.Shape) tensor.Shape {
	return tensor.Shape{Height: in.Height, Width: out.Width, Channels: in.Channels}
}

func estimate(in, out tensor.Shape) scratch.Sizes {
	var e scratch.Estimator
	scratch.Add[float32](&e, scratch.MemoryHost, intermediateShape(in, out).NumElements())
	return e.Sizes()
}

func (p *plan) requirements() kernel.Requirements {
	return kernel.Requirements{
		OutputShapes: []tensor.Shape{p.out},
		ScratchSizes: estimate(p.in, p.out),
	}
}

// GetRequirements computes the output shape and scratch sizes for resampling
// an input of the given shape, without building weight tables or touching any
// data.
func GetRequirements(in tensor.Shape, params Params) (kernel.Requirements, error) {
	out, err := OutputShape(in, params)
	if err != nil {
		return kernel.Requirements{}, err
	}
	return kernel.Requirements{
		OutputShapes: []tensor.Shape{out},
		ScratchSizes: estimate(in, out),
	}, nil
}

// PlanCache keeps recently built plans keyed by input shape and params, so
// engines set up repeatedly for the same geometry skip rebuilding weight
// tables. It is safe for concurrent use.
type PlanCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[key]*plan
	order    []key
	hits     int
	misses   int
}

// NewPlanCache returns a cache holding at most capacity plans.
func NewPlanCache(capacity int) *PlanCache {
	return &PlanCache{
		capacity: max(1, capacity),
		entries:  make(map[key]*plan),
	}
}

func (c *PlanCache) get(in tensor.Shape, params Params) (*plan, error) {
	if len(params) != NumAxes {
		return newPlan(in, params)
	}
	k := makeKey(in, params)

	c.mu.Lock()
	if p, ok := c.entries[k]; ok {
		c.hits++
		c.mu.Unlock()
		return p, nil
	}
	c.misses++
	c.mu.Unlock()

	p, err := newPlan(in, params)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[k]; ok {
		return existing, nil
	}
	if len(c.order) >= c.capacity {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
	c.entries[k] = p
	c.order = append(c.order, k)
	return p, nil
}

// Requirements returns the requirements of a cached plan, building it if needed.
func (c *PlanCache) Requirements(in tensor.Shape, params Params) (kernel.Requirements, error) {
	p, err := c.get(in, params)
	if err != nil {
		return kernel.Requirements{}, err
	}
	return p.requirements(), nil
}

// Stats returns the number of cache hits and misses so far.
func (c *PlanCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len returns the number of cached plans.
func (c *PlanCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
