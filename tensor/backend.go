// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/braid/internal/tensor"

// Backend defines the array capability the evaluator needs.
// Operations panic on malformed arguments; callers validate shapes first.
//
// Implementations:
//   - backend/cpu: Pure Go, with a parallel contraction kernel
//
// Example:
//
//	import (
//	    "github.com/born-ml/braid/tensor"
//	    "github.com/born-ml/braid/backend/cpu"
//	)
//
//	backend := cpu.New()
//	id := backend.Eye(2, tensor.Float64)
//	swap := backend.Transpose(backend.Reshape(backend.Eye(4, tensor.Float64),
//	    tensor.Shape{2, 2, 2, 2}), 0, 1, 3, 2)
type Backend interface {
	// Creation.
	Zeros(shape Shape, dtype DataType) *RawTensor      // Zero-filled tensor.
	Eye(n int, dtype DataType) *RawTensor              // n×n identity.
	Diagonal(legs, dim int, dtype DataType) *RawTensor // Ones where all indices agree.

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor             // Reshape tensor.
	Transpose(t *RawTensor, axes ...int) *RawTensor              // Permute axes.
	MoveAxis(t *RawTensor, source, destination []int) *RawTensor // NumPy moveaxis.

	// Contraction.
	TensorDot(a, b *RawTensor, axesA, axesB []int) *RawTensor // Sum over paired axes.

	// Element-wise operations.
	Add(a, b *RawTensor) *RawTensor // Element-wise addition.
	Mul(a, b *RawTensor) *RawTensor // Element-wise multiplication.
	Conj(t *RawTensor) *RawTensor   // Complex conjugate.

	// Metadata.
	Name() string   // Backend name (e.g., "CPU").
	Device() Device // Device type.
}

// Compile-time check that internal Backend implements public Backend.
var _ Backend = tensor.Backend(nil)
