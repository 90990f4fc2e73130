// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense arrays that braid diagrams evaluate to.
//
// # Overview
//
// A RawTensor is a row-major array of one of three element types:
//   - Float64 and Complex128, stored unboxed
//   - Symbolic, where every entry is a Scalar such as a polynomial in
//     named parameters
//
// Arithmetic on arrays goes through a Backend. The evaluator only needs
// reshaping, axis moves, tensordot, elementwise add/mul and conjugation,
// so any array library providing these can be plugged in.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/braid/backend/cpu"
//	    "github.com/born-ml/braid/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    a, _ := tensor.FromFloat64(tensor.Shape{2, 2}, 1, 2, 3, 4)
//	    b := backend.Eye(2, tensor.Float64)
//
//	    // Contract the second axis of a with the first axis of b.
//	    c := backend.TensorDot(a, b, []int{1}, []int{0})
//	}
//
// # Symbolic Entries
//
// Entries implementing Substituter and Differentiable can be bound and
// differentiated in place:
//
//	theta := symbolic.Var("theta")
//	raw, _ := tensor.FromScalars(tensor.Shape{1}, theta)
//	bound := raw.Subs(map[string]tensor.Scalar{"theta": tensor.Complex(0.5)})
//
// # Memory Management
//
// Buffers are reference-counted and shared between clones and reshapes.
// Arrays are never written in place once handed to a Backend.
package tensor
