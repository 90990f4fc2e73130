// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package diagram

import (
	"github.com/born-ml/braid/internal/diagram"
	"github.com/born-ml/braid/tensor"
)

// Types.
type (
	// Ob is an atomic object, optionally annotated with a dimension.
	Ob = diagram.Ob
	// Ty is an immutable sequence of atoms.
	Ty = diagram.Ty
	// Box is a generator.
	Box = diagram.Box
	// BoxOption configures a generic box.
	BoxOption = diagram.BoxOption
	// Kind tags structural boxes.
	Kind = diagram.Kind
	// DaggerFlag records the orientation of a generic box.
	DaggerFlag = diagram.DaggerFlag
	// Layer places a box between two whiskers.
	Layer = diagram.Layer
	// Diagram is an immutable list of layers.
	Diagram = diagram.Diagram
	// Sum is a formal sum of parallel diagrams.
	Sum = diagram.Sum
	// Hypergraph is the connectivity of a diagram with swaps erased.
	Hypergraph = diagram.Hypergraph
	// Port addresses a box output or a boundary position.
	Port = diagram.Port
	// Hasher hashes diagrams up to equality, for immutable.Map.
	Hasher = diagram.Hasher
	// Builder applies boxes to wires inside Compile.
	Builder = diagram.Builder
	// Wire is an open wire inside Compile.
	Wire = diagram.Wire
	// CompositionError reports mismatched boundaries in Then.
	CompositionError = diagram.CompositionError
	// Func is a scalar function applied entry by entry inside a bubble.
	Func = diagram.Func
)

// Payload capabilities.
type (
	Data           = diagram.Data
	Adjointer      = diagram.Adjointer
	Substituter    = diagram.Substituter
	Differentiable = diagram.Differentiable
	SymbolHolder   = diagram.SymbolHolder
	Array          = diagram.Array
)

// Box kinds.
const (
	KindGeneric = diagram.KindGeneric
	KindSwap    = diagram.KindSwap
	KindCup     = diagram.KindCup
	KindCap     = diagram.KindCap
	KindSpider  = diagram.KindSpider
	KindSum     = diagram.KindSum
	KindBubble  = diagram.KindBubble
)

// Dagger flags.
const (
	DaggerFalse   = diagram.DaggerFalse
	DaggerTrue    = diagram.DaggerTrue
	DaggerUnknown = diagram.DaggerUnknown
)

// Boundary is the node index of the diagram boundary in a Hypergraph.
const Boundary = diagram.Boundary

// Errors.
var (
	ErrTypeMismatch       = diagram.ErrTypeMismatch
	ErrAxiom              = diagram.ErrAxiom
	ErrInvalidPermutation = diagram.ErrInvalidPermutation
	ErrShapeMismatch      = diagram.ErrShapeMismatch
	ErrMissingMapping     = diagram.ErrMissingMapping
	ErrInvalidDimension   = diagram.ErrInvalidDimension
)

// NewTy builds a type from atom names, Ob values and other types.
func NewTy(components ...any) (Ty, error) { return diagram.NewTy(components...) }

// MustTy is NewTy that panics on error.
func MustTy(components ...any) Ty { return diagram.MustTy(components...) }

// NewDim builds a dimension type; dimensions of 1 are elided.
func NewDim(dims ...int) (Ty, error) { return diagram.NewDim(dims...) }

// MustDim is NewDim that panics on error.
func MustDim(dims ...int) Ty { return diagram.MustDim(dims...) }

// NewBox creates a generic box.
func NewBox(name string, dom, cod Ty, opts ...BoxOption) *Box {
	return diagram.NewBox(name, dom, cod, opts...)
}

// WithData attaches a payload to a box.
func WithData(data Data) BoxOption { return diagram.WithData(data) }

// WithDagger sets the orientation flag of a box.
func WithDagger(flag DaggerFlag) BoxOption { return diagram.WithDagger(flag) }

// SwapBox is the braiding of two atoms.
func SwapBox(left, right Ob) *Box { return diagram.SwapBox(left, right) }

// Cup contracts a pair of atoms.
func Cup(left, right Ob) *Box { return diagram.Cup(left, right) }

// Cap creates a pair of atoms.
func Cap(left, right Ob) *Box { return diagram.Cap(left, right) }

// Spider merges nIn copies of x into nOut copies.
func Spider(nIn, nOut int, x Ob) *Box { return diagram.Spider(nIn, nOut, x) }

// Bubble applies fn to every entry of the evaluation of inside.
func Bubble(inside *Diagram, fn *Func) *Box { return diagram.Bubble(inside, fn) }

// NewFunc names a scalar function; derivative may be nil.
func NewFunc(name string, apply func(tensor.Scalar) (tensor.Scalar, error), derivative func() *Func) *Func {
	return diagram.NewFunc(name, apply, derivative)
}

// Monomial is x -> c * x^n.
func Monomial(c float64, n int) *Func { return diagram.Monomial(c, n) }

// Exp is the exponential of numeric entries.
func Exp() *Func { return diagram.Exp() }

// Not sends zero to one and everything else to zero.
func Not() *Func { return diagram.Not() }

// Id is the identity diagram on ty.
func Id(ty Ty) *Diagram { return diagram.Id(ty) }

// NewDiagram validates and builds a diagram from layers.
func NewDiagram(dom, cod Ty, layers []Layer) (*Diagram, error) {
	return diagram.NewDiagram(dom, cod, layers)
}

// Must panics on error, for diagrams known to be well typed.
func Must(d *Diagram, err error) *Diagram { return diagram.Must(d, err) }

// AsDiagram converts a Box, Diagram or Sum into a Diagram.
func AsDiagram(v any) (*Diagram, error) { return diagram.AsDiagram(v) }

// Swap exchanges left and right.
func Swap(left, right Ty) *Diagram { return diagram.Swap(left, right) }

// Permutation sends position k of the codomain to position perm[k] of dom.
func Permutation(perm []int, dom Ty) (*Diagram, error) { return diagram.Permutation(perm, dom) }

// Cups contracts left with right, pairing them from the middle out.
func Cups(left, right Ty) (*Diagram, error) { return diagram.Cups(left, right) }

// Caps is the dagger of Cups.
func Caps(left, right Ty) (*Diagram, error) { return diagram.Caps(left, right) }

// Spiders merges nIn copies of ty into nOut copies, atom by atom.
func Spiders(nIn, nOut int, ty Ty) *Diagram { return diagram.Spiders(nIn, nOut, ty) }

// NewSum builds a formal sum of diagrams from dom to cod.
func NewSum(dom, cod Ty, terms ...*Diagram) (*Sum, error) { return diagram.NewSum(dom, cod, terms...) }

// Zero is the empty sum.
func Zero(dom, cod Ty) *Sum { return diagram.Zero(dom, cod) }

// NewArray wraps an array as a box payload.
func NewArray(raw *tensor.RawTensor) Array { return diagram.NewArray(raw) }

// Compile builds a diagram from a function over wires.
func Compile(dom, cod Ty, fn func(b *Builder, inputs ...Wire) ([]Wire, error)) (*Diagram, error) {
	return diagram.Compile(dom, cod, fn)
}

// RequireCopy fails unless ty can be copied and discarded.
func RequireCopy(ty Ty) error { return diagram.RequireCopy(ty) }
