// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/braid/internal/tensor"
)

// RawTensor is the array representation shared by every backend.
//
// RawTensor provides:
//   - Shape and type information via Shape(), DType(), Device()
//   - Typed data access via AsFloat64(), AsComplex128(), AsScalars()
//   - Canonical keys via Key(), used for diagram equality
//   - Symbol handling via FreeSymbols(), Subs() and Diff()
//
// Example:
//
//	raw, _ := tensor.FromComplex128(tensor.Shape{2, 2}, 0, 1i, -1i, 0)
//	data := raw.AsComplex128()
//	clone := raw.Clone() // Shares the buffer
type RawTensor = tensor.RawTensor

// NewRaw creates a zero-filled tensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// FromFloat64 builds a real tensor from row-major data.
func FromFloat64(shape Shape, data ...float64) (*RawTensor, error) {
	return tensor.FromFloat64(shape, data...)
}

// FromComplex128 builds a complex tensor from row-major data.
func FromComplex128(shape Shape, data ...complex128) (*RawTensor, error) {
	return tensor.FromComplex128(shape, data...)
}

// FromScalars builds a tensor of the narrowest data type holding every entry.
func FromScalars(shape Shape, data ...Scalar) (*RawTensor, error) {
	return tensor.FromScalars(shape, data...)
}
