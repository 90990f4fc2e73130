package cpu

import (
	"fmt"

	"github.com/born-ml/braid/internal/tensor"
)

// Reshape returns a tensor with the same data but different shape.
// Tensors are never written in place, so the result is a view.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: incompatible shapes: %v -> %v (different number of elements)",
			t.Shape(), newShape))
	}
	result, err := t.WithShape(newShape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return result
}

// Transpose transposes the tensor by permuting its dimensions.
// Axis i of the result is axis axes[i] of t.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	// Default: reverse all dimensions
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}

	seen := make([]bool, ndim)
	identity := true
	for i, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
		identity = identity && ax == i
	}
	if identity {
		return t.Clone()
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	result := cpu.Zeros(newShape, t.DType())
	transposeData(result, t, axes)
	return result
}

// MoveAxis moves the axes at source to destination, other axes keep their order.
func (cpu *CPUBackend) MoveAxis(t *tensor.RawTensor, source, destination []int) *tensor.RawTensor {
	ndim := len(t.Shape())
	if len(source) != len(destination) {
		panic(fmt.Sprintf("moveaxis: %d source axes but %d destinations", len(source), len(destination)))
	}

	order := make([]int, ndim)
	for i := range order {
		order[i] = -1
	}
	moved := make([]bool, ndim)
	for i, src := range source {
		dst := destination[i]
		if src < 0 || src >= ndim || dst < 0 || dst >= ndim {
			panic(fmt.Sprintf("moveaxis: axis %d -> %d out of range for %dD tensor", src, dst, ndim))
		}
		if moved[src] || order[dst] != -1 {
			panic(fmt.Sprintf("moveaxis: repeated axis in %v -> %v", source, destination))
		}
		order[dst] = src
		moved[src] = true
	}

	next := 0
	for i := range order {
		if order[i] != -1 {
			continue
		}
		for moved[next] {
			next++
		}
		order[i] = next
		next++
	}
	return cpu.Transpose(t, order...)
}

// transposeData gathers src into result following axes.
func transposeData(result, src *tensor.RawTensor, axes []int) {
	index := transposeIndex(src.Shape(), axes)
	switch src.DType() {
	case tensor.Float64:
		gather(result.AsFloat64(), src.AsFloat64(), index)
	case tensor.Complex128:
		gather(result.AsComplex128(), src.AsComplex128(), index)
	case tensor.Symbolic:
		gather(result.AsScalars(), src.AsScalars(), index)
	default:
		panic("transpose: unsupported dtype")
	}
}

// transposeIndex returns, for every flat destination index, the flat source index.
func transposeIndex(shape tensor.Shape, axes []int) []int {
	ndim := len(shape)
	srcStrides := shape.ComputeStrides()

	dstShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		dstShape[i] = shape[ax]
	}

	n := shape.NumElements()
	index := make([]int, n)
	coords := make([]int, ndim)
	for i := 0; i < n; i++ {
		dstShape.Unravel(i, coords)
		srcIdx := 0
		for dstDim, srcDim := range axes {
			srcIdx += coords[dstDim] * srcStrides[srcDim]
		}
		index[i] = srcIdx
	}
	return index
}

func gather[T any](dst, src []T, index []int) {
	for i, j := range index {
		dst[i] = src[j]
	}
}
