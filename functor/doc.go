// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package functor evaluates string diagrams as dense tensors.
//
// # Overview
//
// A Functor sends every atom to a dimension and every generic box to an
// array. The other box kinds are interpreted for free:
//   - swaps permute legs
//   - cups and caps are identity matrices bent into shape
//   - spiders are diagonal tensors
//   - sums add their terms
//   - bubbles apply their function to every entry of their inside
//
// Evaluation is functorial: Then becomes contraction, Tensor becomes the
// outer product and Dagger becomes the conjugate transpose.
//
// # Basic Usage
//
//	two := diagram.MustDim(2)
//	raw, _ := tensor.FromFloat64(tensor.Shape{2, 2}, 0, 1, 1, 0)
//	x := diagram.NewBox("X", two, two, diagram.WithData(diagram.NewArray(raw)))
//
//	t, err := functor.Eval(x.Diagram())
//	t.Matrix() // [[0 1] [1 0]]
//
// # Calculus
//
// Tensors with symbolic entries support Subs, Lambdify, Grad and Jacobian.
// Jacobian puts a new leg, one entry per symbol, first in the codomain.
// Diagram.Grad differentiates bubbles by the chain rule, so evaluating the
// gradient of a diagram agrees with differentiating its evaluation.
//
// # Contraction Networks
//
// WithContractor evaluates through a network of nodes and shared edges
// instead of layer by layer. Sequential is provided; other orderings plug
// in through the Contractor interface:
//
//	t, err := functor.Eval(d, functor.WithContractor(functor.Sequential{}))
//
// # Backends
//
// Evaluation uses Functor.Backend when set, then the innermost backend
// installed with UseBackend, then the default CPU backend:
//
//	restore := functor.UseBackend(cpu.New())
//	defer restore()
package functor
