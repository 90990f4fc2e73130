package cpu

import (
	"fmt"

	"github.com/born-ml/braid/internal/parallel"
	"github.com/born-ml/braid/internal/tensor"
)

// TensorDot contracts axesA of a with axesB of b.
//
// Both operands are transposed so the contracted axes meet in the middle,
// flattened to matrices and multiplied: (M, K) @ (K, N) -> (M, N). The
// result holds the free axes of a followed by the free axes of b.
// With no contracted axes this is the outer product.
func (cpu *CPUBackend) TensorDot(a, b *tensor.RawTensor, axesA, axesB []int) *tensor.RawTensor {
	if len(axesA) != len(axesB) {
		panic(fmt.Sprintf("tensordot: %d axes for a but %d for b", len(axesA), len(axesB)))
	}
	aShape, bShape := a.Shape(), b.Shape()
	for i := range axesA {
		if aShape[axesA[i]] != bShape[axesB[i]] {
			panic(fmt.Sprintf("tensordot: shape mismatch on axes %d/%d: %v vs %v",
				axesA[i], axesB[i], aShape, bShape))
		}
	}

	freeA := freeAxes(len(aShape), axesA)
	freeB := freeAxes(len(bShape), axesB)

	k := 1
	for _, ax := range axesA {
		k *= aShape[ax]
	}
	outShape := make(tensor.Shape, 0, len(freeA)+len(freeB))
	m, n := 1, 1
	for _, ax := range freeA {
		m *= aShape[ax]
		outShape = append(outShape, aShape[ax])
	}
	for _, ax := range freeB {
		n *= bShape[ax]
		outShape = append(outShape, bShape[ax])
	}

	at := cpu.Transpose(a, append(append([]int{}, freeA...), axesA...)...)
	bt := cpu.Transpose(b, append(append([]int{}, axesB...), freeB...)...)

	dtype := tensor.Promote(a.DType(), b.DType())
	if at.DType() != dtype {
		at = at.Cast(dtype)
	}
	if bt.DType() != dtype {
		bt = bt.Cast(dtype)
	}

	result := cpu.Zeros(outShape, dtype)
	switch dtype {
	case tensor.Float64:
		matmulNumeric(result.AsFloat64(), at.AsFloat64(), bt.AsFloat64(), m, k, n, cpu.parallel)
	case tensor.Complex128:
		matmulNumeric(result.AsComplex128(), at.AsComplex128(), bt.AsComplex128(), m, k, n, cpu.parallel)
	case tensor.Symbolic:
		matmulScalar(result.AsScalars(), at.AsScalars(), bt.AsScalars(), m, k, n)
	default:
		panic(fmt.Sprintf("tensordot: unsupported dtype %s", dtype))
	}
	return result
}

// freeAxes returns the axes in [0, ndim) not listed in contracted, in order.
func freeAxes(ndim int, contracted []int) []int {
	used := make([]bool, ndim)
	for _, ax := range contracted {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("tensordot: invalid axis %d for %dD tensor", ax, ndim))
		}
		if used[ax] {
			panic(fmt.Sprintf("tensordot: duplicate axis %d", ax))
		}
		used[ax] = true
	}
	free := make([]int, 0, ndim-len(contracted))
	for ax := 0; ax < ndim; ax++ {
		if !used[ax] {
			free = append(free, ax)
		}
	}
	return free
}

// matmulNumeric performs naive matrix multiplication, output cells split across workers.
// C[i,j] = sum_k A[i,k] * B[k,j]
func matmulNumeric[T tensor.Numeric](c, a, b []T, m, k, n int, cfg parallel.Config) {
	parallel.ForGrid(m, n, func(i, j int) {
		var sum T
		for kIdx := 0; kIdx < k; kIdx++ {
			sum += a[i*k+kIdx] * b[kIdx*n+j]
		}
		c[i*n+j] = sum
	}, cfg)
}

// matmulScalar is the boxed variant for symbolic entries. It stays sequential
// since Scalar implementations need not be safe for concurrent use.
func matmulScalar(c, a, b []tensor.Scalar, m, k, n int) {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum tensor.Scalar = tensor.Complex(0)
			for kIdx := 0; kIdx < k; kIdx++ {
				sum = sum.Add(a[i*k+kIdx].Mul(b[kIdx*n+j]))
			}
			c[i*n+j] = sum
		}
	}
}
