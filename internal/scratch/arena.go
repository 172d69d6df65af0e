// Package scratch implements the reusable memory pool kernels draw their
// temporary buffers from.
//
// The caller asks a kernel how much scratch it needs, reserves that much once
// on an Arena and then hands out Scratchpads, which are cheap bump allocators
// over the arena's buffers. Reserving again with equal or smaller sizes keeps
// the existing buffers, so a loop over same-sized images allocates nothing
// after the first iteration.
package scratch

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"
)

// MemoryKind partitions scratch memory by where it lives.
type MemoryKind int

const (
	// MemoryHost is ordinary CPU memory.
	MemoryHost MemoryKind = iota

	NumMemoryKinds
)

func (k MemoryKind) String() string {
	switch k {
	case MemoryHost:
		return "host"
	}
	return fmt.Sprintf("MemoryKind(%d)", int(k))
}

// Alignment of every buffer handed out by a Scratchpad, in bytes.
const Alignment = 64

// Sizes holds a byte count per memory kind.
type Sizes [NumMemoryKinds]int

// Total returns the sum over all kinds.
func (s Sizes) Total() int {
	n := 0
	for _, v := range s {
		n += v
	}
	return n
}

var (
	// ErrAllocation is returned by Reserve when the pool cannot grow. The arena
	// is left as it was, so the caller may retry with a smaller request.
	ErrAllocation = errors.New("scratch allocation failed")

	// ErrNotReserved is the panic value of Scratchpad on an arena that was
	// never reserved.
	ErrNotReserved = errors.New("scratch arena used before Reserve")

	// ErrExhausted is the panic value of Allocate when a request does not fit
	// in what was reserved.
	ErrExhausted = errors.New("scratchpad exhausted")
)

// Arena is a byte pool partitioned by MemoryKind. It is not safe for
// concurrent use, and a Scratchpad obtained from it must only be used by one
// in-flight execution at a time.
type Arena struct {
	// Limit caps the total number of bytes across all kinds; zero means no cap.
	Limit int

	buffers       [NumMemoryKinds][]byte
	reserved      bool
	reallocations int
}

// Reserve grows the pool so that every kind holds at least the requested
// number of bytes. Buffers that are already large enough are kept. On failure
// the arena is unchanged.
func (a *Arena) Reserve(sizes Sizes) (err error) {
	var grown [NumMemoryKinds][]byte
	total := 0
	for k, size := range sizes {
		if size < 0 {
			return fmt.Errorf("%w: negative size %d for %v", ErrAllocation, size, MemoryKind(k))
		}
		total += max(size, len(a.buffers[k]))
	}
	if a.Limit > 0 && total > a.Limit {
		return fmt.Errorf("%w: %d bytes requested, limit is %d", ErrAllocation, total, a.Limit)
	}

	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(runtime.Error); ok {
				err = fmt.Errorf("%w: %v", ErrAllocation, rerr)
				return
			}
			panic(r)
		}
	}()

	for k, size := range sizes {
		if size > len(a.buffers[k]) {
			grown[k] = alignedBytes(size)
		}
	}

	for k, buf := range grown {
		if buf != nil {
			a.buffers[k] = buf
			a.reallocations++
		}
	}
	a.reserved = true
	return nil
}

// Scratchpad returns a fresh allocator over the current buffers. The buffers
// stay valid until the next Reserve that grows them. Calling Scratchpad before
// Reserve is a programming error and panics.
func (a *Arena) Scratchpad() *Scratchpad {
	if !a.reserved {
		panic(ErrNotReserved)
	}
	return &Scratchpad{buffers: a.buffers}
}

// Capacity returns the current size of the pool for kind.
func (a *Arena) Capacity(kind MemoryKind) int {
	return len(a.buffers[kind])
}

// Reallocations returns how many buffers Reserve has (re)allocated so far.
func (a *Arena) Reallocations() int {
	return a.reallocations
}

// alignedBytes allocates n bytes starting on an Alignment boundary.
func alignedBytes(n int) []byte {
	if n == 0 {
		return []byte{}
	}
	buf := make([]byte, n+Alignment-1)
	pad := int((Alignment - uintptr(unsafe.Pointer(&buf[0]))%Alignment) % Alignment)
	return buf[pad : pad+n : pad+n]
}

func align(n, a int) int {
	return (n + a - 1) &^ (a - 1)
}
