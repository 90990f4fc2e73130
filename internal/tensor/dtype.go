// Package tensor provides the core array types used by the braid evaluator.
package tensor

// Numeric is a constraint for the element types stored unboxed in a RawTensor.
type Numeric interface {
	~float64 | ~complex128
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
//
// The order matters: Promote picks the larger of two types.
const (
	Float64 DataType = iota
	Complex128
	Symbolic
)

// Size returns the byte size of the data type.
// Symbolic entries are boxed and do not live in the byte buffer.
func (dt DataType) Size() int {
	switch dt {
	case Float64:
		return 8
	case Complex128:
		return 16
	case Symbolic:
		return 0
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float64:
		return "float64"
	case Complex128:
		return "complex128"
	case Symbolic:
		return "symbolic"
	default:
		return "unknown"
	}
}

// Promote returns the smallest data type able to hold values of both a and b.
func Promote(a, b DataType) DataType {
	if a > b {
		return a
	}
	return b
}

// inferDataType infers DataType from a generic type T.
func inferDataType[T Numeric](dummy T) DataType {
	switch any(dummy).(type) {
	case float64:
		return Float64
	case complex128:
		return Complex128
	default:
		panic("unsupported type")
	}
}
