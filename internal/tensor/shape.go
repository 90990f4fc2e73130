package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
// The empty shape is a scalar.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// Concat returns s followed by every shape in others.
func (s Shape) Concat(others ...Shape) Shape {
	n := len(s)
	for _, o := range others {
		n += len(o)
	}
	out := make(Shape, 0, n)
	out = append(out, s...)
	for _, o := range others {
		out = append(out, o...)
	}
	return out
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Unravel converts a flat row-major index into coordinates.
func (s Shape) Unravel(flat int, coords []int) {
	for i := len(s) - 1; i >= 0; i-- {
		coords[i] = flat % s[i]
		flat /= s[i]
	}
}
