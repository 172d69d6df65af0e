package scratch

import (
	"fmt"
	"unsafe"
)

// Plain is the set of pointer-free types that may live in scratch memory.
type Plain interface {
	~uint8 | ~uint16 | ~int16 | ~int32 | ~uint32 | ~float32 | ~float64
}

// Scratchpad hands out aligned sub-buffers of an Arena's pools.
type Scratchpad struct {
	buffers [NumMemoryKinds][]byte
	offsets [NumMemoryKinds]int
}

// Allocate returns count elements of T carved from kind. The memory is not
// cleared. Exceeding the reservation panics with ErrExhausted.
func Allocate[T Plain](sp *Scratchpad, kind MemoryKind, count int) []T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	off := align(sp.offsets[kind], Alignment)
	end := off + count*size
	if count < 0 || end > len(sp.buffers[kind]) {
		panic(fmt.Errorf("%w: %d x %d bytes from %v at offset %d, capacity %d",
			ErrExhausted, count, size, kind, off, len(sp.buffers[kind])))
	}
	sp.offsets[kind] = end
	if count == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&sp.buffers[kind][off])), count)
}

// Used returns the bytes allocated so far from kind, including padding.
func (sp *Scratchpad) Used(kind MemoryKind) int {
	return sp.offsets[kind]
}

// Estimator accumulates the scratch a kernel will ask for, applying the same
// alignment rules as Allocate so the estimate is never short.
type Estimator struct {
	sizes Sizes
}

// Add records count elements of T in kind.
func Add[T Plain](e *Estimator, kind MemoryKind, count int) {
	var zero T
	e.sizes[kind] = align(e.sizes[kind], Alignment) + count*int(unsafe.Sizeof(zero))
}

// Sizes returns the accumulated estimate.
func (e *Estimator) Sizes() Sizes {
	return e.sizes
}

// Available returns how many bytes of kind are left for an allocation of
// elements aligned to Alignment.
func (sp *Scratchpad) Available(kind MemoryKind) int {
	return max(0, len(sp.buffers[kind])-align(sp.offsets[kind], Alignment))
}

// Mark is a saved allocation cursor.
type Mark [NumMemoryKinds]int

// Mark returns the current cursor. Reset(m) frees everything allocated after it.
func (sp *Scratchpad) Mark() Mark {
	return Mark(sp.offsets)
}

// Reset rewinds the cursor to m. Buffers handed out after m must no longer be used.
func (sp *Scratchpad) Reset(m Mark) {
	sp.offsets = m
}
