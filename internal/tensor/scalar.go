package tensor

import (
	"strconv"
)

// Scalar is the capability every array entry must provide.
//
// Numeric entries are stored unboxed; Scalar is how the backend talks to
// symbolic entries without knowing their representation.
type Scalar interface {
	Add(other Scalar) Scalar
	Mul(other Scalar) Scalar
	Conj() Scalar
	IsZero() bool
	String() string
}

// Substituter is implemented by scalars with free symbols that can be assigned.
type Substituter interface {
	Subs(assignment map[string]Scalar) Scalar
}

// Differentiable is implemented by scalars with a derivative.
type Differentiable interface {
	Diff(symbol string) Scalar
}

// SymbolHolder is implemented by scalars that reference symbols.
type SymbolHolder interface {
	FreeSymbols() []string
}

// Valuer is implemented by scalars that may reduce to a number.
type Valuer interface {
	Value() (complex128, bool)
}

// Complex is the numeric Scalar.
type Complex complex128

// Add implements Scalar. Non-numeric operands take over so that symbols survive.
func (c Complex) Add(other Scalar) Scalar {
	if o, ok := other.(Complex); ok {
		return c + o
	}
	return other.Add(c)
}

// Mul implements Scalar.
func (c Complex) Mul(other Scalar) Scalar {
	if o, ok := other.(Complex); ok {
		return c * o
	}
	return other.Mul(c)
}

// Conj implements Scalar.
func (c Complex) Conj() Scalar {
	return Complex(complex(real(c), -imag(c)))
}

// IsZero implements Scalar.
func (c Complex) IsZero() bool {
	return c == 0
}

// Value implements Valuer.
func (c Complex) Value() (complex128, bool) {
	return complex128(c), true
}

// String formats real numbers without an imaginary part.
func (c Complex) String() string {
	if imag(c) == 0 {
		return strconv.FormatFloat(real(c), 'g', -1, 64)
	}
	return strconv.FormatComplex(complex128(c), 'g', -1, 128)
}

// ValueOf reduces s to a number if it has one.
func ValueOf(s Scalar) (complex128, bool) {
	if v, ok := s.(Valuer); ok {
		return v.Value()
	}
	return 0, false
}
