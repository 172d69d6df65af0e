package tensor

import "fmt"

// ElementType tags the storage type of a view's elements.
type ElementType int

const (
	Uint8 ElementType = iota
	Uint16
	Int16
	Float32
)

// Element is the set of channel storage types the resampler understands.
type Element interface {
	uint8 | uint16 | int16 | float32
}

// Size returns the element size in bytes.
func (t ElementType) Size() int {
	switch t {
	case Uint8:
		return 1
	case Uint16, Int16:
		return 2
	case Float32:
		return 4
	}
	panic(fmt.Errorf("invalid element type %d", int(t)))
}

func (t ElementType) String() string {
	switch t {
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Int16:
		return "int16"
	case Float32:
		return "float32"
	}
	return fmt.Sprintf("ElementType(%d)", int(t))
}

// TypeOf returns the tag for T.
func TypeOf[T Element]() ElementType {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case int16:
		return Int16
	case float32:
		return Float32
	}
	panic(fmt.Errorf("unsupported element type %T", zero))
}

// Range returns the representable range of T as float32 bounds.
// Float32 has no saturation and reports ok=false.
func Range[T Element]() (lo, hi float32, ok bool) {
	switch TypeOf[T]() {
	case Uint8:
		return 0, 255, true
	case Uint16:
		return 0, 65535, true
	case Int16:
		return -32768, 32767, true
	}
	return 0, 0, false
}
