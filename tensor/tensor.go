// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/braid/internal/tensor"
)

// DataType represents runtime type information for tensors.
type DataType = tensor.DataType

// Supported data types.
const (
	Float64    = tensor.Float64
	Complex128 = tensor.Complex128
	Symbolic   = tensor.Symbolic
)

// Device represents the compute device holding a tensor.
type Device = tensor.Device

// Supported devices.
const (
	CPU      = tensor.CPU
	External = tensor.External
)

// Shape is the size of every axis.
type Shape = tensor.Shape

// Scalar is the capability every array entry provides.
type Scalar = tensor.Scalar

// Complex is the numeric Scalar.
type Complex = tensor.Complex

// Optional Scalar capabilities.
type (
	Substituter    = tensor.Substituter
	Differentiable = tensor.Differentiable
	SymbolHolder   = tensor.SymbolHolder
	Valuer         = tensor.Valuer
)

// Promote returns the smallest data type able to hold values of both a and b.
func Promote(a, b DataType) DataType {
	return tensor.Promote(a, b)
}

// ValueOf reduces s to a number if it has one.
func ValueOf(s Scalar) (complex128, bool) {
	return tensor.ValueOf(s)
}
