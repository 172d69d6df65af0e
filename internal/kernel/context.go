// Package kernel holds the pieces shared by every two-phase kernel: the
// execution context passed from Setup to Run, the requirements Setup reports,
// and the error taxonomy.
package kernel

import (
	"errors"
	"fmt"

	"github.com/rm-hull/image-resampler/internal/scratch"
	"github.com/rm-hull/image-resampler/internal/tensor"
)

var (
	// ErrConfiguration marks invalid shapes or parameters, reported by Setup
	// before any memory is committed.
	ErrConfiguration = errors.New("invalid kernel configuration")

	// ErrAllocation marks scratch reservations that could not be satisfied.
	ErrAllocation = scratch.ErrAllocation

	// ErrPrecondition marks caller bugs, such as running with a different
	// shape than the kernel was set up for. It is raised with panic.
	ErrPrecondition = errors.New("kernel precondition violated")
)

// Preconditionf panics with an error wrapping ErrPrecondition.
func Preconditionf(format string, args ...any) {
	panic(fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...)))
}

// Requirements is what Setup tells the caller to provide before Run.
type Requirements struct {
	OutputShapes []tensor.Shape `json:"output_shapes"`
	ScratchSizes scratch.Sizes  `json:"scratch_sizes"`
}

// Context carries the state that flows from one Setup to its Run calls.
type Context struct {
	// Scratchpad must be set by the caller before Run.
	Scratchpad *scratch.Scratchpad

	// Data is kernel-private state stashed by Setup.
	Data any
}

// SetData stores kernel-private state in ctx.
func SetData[T any](ctx *Context, v T) {
	ctx.Data = v
}

// GetData returns the kernel-private state if it has type T.
func GetData[T any](ctx *Context) (T, bool) {
	v, ok := ctx.Data.(T)
	return v, ok
}

// MustGetData is GetData for Run paths, where a missing or mistyped value means
// Setup was skipped or belonged to another kernel.
func MustGetData[T any](ctx *Context) T {
	v, ok := GetData[T](ctx)
	if !ok {
		var want T
		Preconditionf("context holds %T, want %T; was the kernel set up?", ctx.Data, want)
	}
	return v
}
