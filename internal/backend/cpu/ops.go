package cpu

import (
	"fmt"

	"github.com/born-ml/braid/internal/tensor"
)

// Add performs element-wise addition of two tensors of the same shape.
// Mixed dtypes are promoted.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	a, b = cpu.unify("add", a, b)
	result := cpu.Zeros(a.Shape(), a.DType())
	switch a.DType() {
	case tensor.Float64:
		addVectorized(result.AsFloat64(), a.AsFloat64(), b.AsFloat64())
	case tensor.Complex128:
		addVectorized(result.AsComplex128(), a.AsComplex128(), b.AsComplex128())
	case tensor.Symbolic:
		dst, x, y := result.AsScalars(), a.AsScalars(), b.AsScalars()
		for i := range dst {
			dst[i] = x[i].Add(y[i])
		}
	}
	return result
}

// Mul performs element-wise multiplication of two tensors of the same shape.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	a, b = cpu.unify("mul", a, b)
	result := cpu.Zeros(a.Shape(), a.DType())
	switch a.DType() {
	case tensor.Float64:
		mulVectorized(result.AsFloat64(), a.AsFloat64(), b.AsFloat64())
	case tensor.Complex128:
		mulVectorized(result.AsComplex128(), a.AsComplex128(), b.AsComplex128())
	case tensor.Symbolic:
		dst, x, y := result.AsScalars(), a.AsScalars(), b.AsScalars()
		for i := range dst {
			dst[i] = x[i].Mul(y[i])
		}
	}
	return result
}

// Conj returns the element-wise complex conjugate.
// Real tensors are returned unchanged.
func (cpu *CPUBackend) Conj(t *tensor.RawTensor) *tensor.RawTensor {
	switch t.DType() {
	case tensor.Float64:
		return t.Clone()
	case tensor.Complex128:
		result := cpu.Zeros(t.Shape(), t.DType())
		dst, src := result.AsComplex128(), t.AsComplex128()
		for i, v := range src {
			dst[i] = complex(real(v), -imag(v))
		}
		return result
	case tensor.Symbolic:
		result := cpu.Zeros(t.Shape(), t.DType())
		dst, src := result.AsScalars(), t.AsScalars()
		for i, v := range src {
			dst[i] = v.Conj()
		}
		return result
	default:
		panic(fmt.Sprintf("conj: unsupported dtype %v", t.DType()))
	}
}

// unify checks shapes and promotes both operands to a common dtype.
func (cpu *CPUBackend) unify(op string, a, b *tensor.RawTensor) (*tensor.RawTensor, *tensor.RawTensor) {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("%s: shape mismatch %v vs %v", op, a.Shape(), b.Shape()))
	}
	dtype := tensor.Promote(a.DType(), b.DType())
	if a.DType() != dtype {
		a = a.Cast(dtype)
	}
	if b.DType() != dtype {
		b = b.Cast(dtype)
	}
	return a, b
}

func addVectorized[T tensor.Numeric](dst, a, b []T) {
	for i := range dst {
		dst[i] = a[i] + b[i]
	}
}

func mulVectorized[T tensor.Numeric](dst, a, b []T) {
	for i := range dst {
		dst[i] = a[i] * b[i]
	}
}
