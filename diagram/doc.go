// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package diagram provides string diagrams for symmetric monoidal categories.
//
// # Overview
//
// A Diagram is a list of layers read top to bottom. Each layer places one
// Box between a left and a right whisker. Diagrams compose:
//   - sequentially with Then, when the codomain of one is the domain of the next
//   - in parallel with Tensor, the left operand acting first
//   - by reversal with Dagger
//
// Two diagrams are Equal when they wire the same boxes the same way. Swaps
// are erased and only the connectivity is compared, so the axioms of
// symmetric monoidal categories hold by construction.
//
// # Basic Usage
//
//	x, y := diagram.MustTy("x"), diagram.MustTy("y")
//	f := diagram.NewBox("f", x, y)
//	g := diagram.NewBox("g", y, x)
//
//	fg, err := f.Diagram().Then(g.Diagram())
//	par := f.Diagram().Tensor(g.Diagram())
//
//	// Naturality of the swap.
//	lhs := diagram.Must(par.Then(diagram.Swap(y, x)))
//	rhs := diagram.Must(diagram.Swap(x, y).Then(g.Diagram().Tensor(f.Diagram())))
//	lhs.Equal(rhs) // true
//
// # Dimensions
//
// Types built with NewDim carry leg sizes and can be evaluated by the
// functor package. Dimension 1 is the unit and is elided.
//
// # Term Syntax
//
// Compile builds a diagram from a function over wires. Every wire must be
// used exactly once:
//
//	d, err := diagram.Compile(x.Tensor(y), x, func(b *diagram.Builder, in ...diagram.Wire) ([]diagram.Wire, error) {
//	    out, err := b.Apply(f, in[0])
//	    if err != nil {
//	        return nil, err
//	    }
//	    return b.Apply(h, out[0], in[1])
//	})
package diagram
