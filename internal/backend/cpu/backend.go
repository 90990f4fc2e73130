// Package cpu implements the pure Go array capability used by the evaluator.
package cpu

import (
	"fmt"

	"github.com/born-ml/braid/internal/parallel"
	"github.com/born-ml/braid/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
// Large contractions are split across goroutines according to its parallel config.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// Compile-time check that CPUBackend implements tensor.Backend.
var _ tensor.Backend = (*CPUBackend)(nil)

// New creates a new CPU backend with the default parallel configuration.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with an explicit parallel configuration.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Zeros allocates a zero tensor.
func (cpu *CPUBackend) Zeros(shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("zeros: %v", err))
	}
	return result
}

// Eye returns the n×n identity matrix.
func (cpu *CPUBackend) Eye(n int, dtype tensor.DataType) *tensor.RawTensor {
	result := cpu.Zeros(tensor.Shape{n, n}, dtype)
	for i := 0; i < n; i++ {
		result.SetScalar(i*n+i, tensor.Complex(1))
	}
	return result
}

// Diagonal returns the tensor with legs axes of size dim holding 1 where all
// indices agree. With no legs it is the scalar 1.
func (cpu *CPUBackend) Diagonal(legs, dim int, dtype tensor.DataType) *tensor.RawTensor {
	shape := make(tensor.Shape, legs)
	for i := range shape {
		shape[i] = dim
	}
	result := cpu.Zeros(shape, dtype)
	if legs == 0 {
		result.SetScalar(0, tensor.Complex(1))
		return result
	}

	// The flat offset of (i, i, ..., i) is i times the sum of strides.
	step := 0
	for _, s := range result.Strides() {
		step += s
	}
	for i := 0; i < dim; i++ {
		result.SetScalar(i*step, tensor.Complex(1))
	}
	return result
}
