// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package functor

import (
	"github.com/born-ml/braid/diagram"
	"github.com/born-ml/braid/internal/functor"
	"github.com/born-ml/braid/internal/parallel"
	"github.com/born-ml/braid/tensor"
)

type (
	// Functor is a monoidal functor into tensors.
	Functor = functor.Functor
	// ObMap sends an atom to a dimension.
	ObMap = functor.ObMap
	// ArMap sends a generic box to an array.
	ArMap = functor.ArMap
	// Tensor is an array viewed as a morphism between dimensions.
	Tensor = functor.Tensor
	// Network is a bag of arrays joined by shared edges.
	Network = functor.Network
	// Node is one array of a Network.
	Node = functor.Node
	// Contractor reduces a Network to a single array.
	Contractor = functor.Contractor
	// ContractorFunc adapts a function to Contractor.
	ContractorFunc = functor.ContractorFunc
	// Sequential contracts nodes in network order.
	Sequential = functor.Sequential
	// Option configures Eval.
	Option = functor.Option
	// Factory builds a backend for a parallel configuration.
	Factory = functor.Factory
)

// ErrUnknownBackend is returned by Lookup for unregistered names.
var ErrUnknownBackend = functor.ErrUnknownBackend

// New returns the functor reading dimensions from Dim atoms and arrays from
// box payloads.
func New() *Functor { return functor.New() }

// ObFromDims reads the dimension annotation of each atom.
func ObFromDims() ObMap { return functor.ObFromDims() }

// ObFromMap looks atoms up by name, falling back to their annotation.
func ObFromMap(dims map[string]int) ObMap { return functor.ObFromMap(dims) }

// ArrowMap looks boxes up by identity.
func ArrowMap(arrays map[*diagram.Box]*tensor.RawTensor) ArMap { return functor.ArrowMap(arrays) }

// ArFromData reads the Array payload of each box.
func ArFromData() ArMap { return functor.ArFromData() }

// Eval evaluates d.
func Eval(d *diagram.Diagram, opts ...Option) (*Tensor, error) { return functor.Eval(d, opts...) }

// EvalSum evaluates every term of s and adds the results.
func EvalSum(s *diagram.Sum, opts ...Option) (*Tensor, error) { return functor.EvalSum(s, opts...) }

// WithFunctor replaces the default functor.
func WithFunctor(f *Functor) Option { return functor.WithFunctor(f) }

// WithContractor evaluates through a contraction network.
func WithContractor(c Contractor) Option { return functor.WithContractor(c) }

// WithBackend pins the backend for one evaluation.
func WithBackend(b tensor.Backend) Option { return functor.WithBackend(b) }

// NewTensor reshapes array to dom @ cod.
func NewTensor(dom, cod diagram.Ty, array *tensor.RawTensor, b tensor.Backend) (*Tensor, error) {
	return functor.NewTensor(dom, cod, array, b)
}

// Id is the identity tensor on dim.
func Id(dim diagram.Ty, b tensor.Backend) *Tensor { return functor.Id(dim, b) }

// Zeros is the zero tensor from dom to cod.
func Zeros(dom, cod diagram.Ty, b tensor.Backend) *Tensor { return functor.Zeros(dom, cod, b) }

// Swap is the tensor exchanging left and right.
func Swap(left, right diagram.Ty, b tensor.Backend) *Tensor { return functor.Swap(left, right, b) }

// UseBackend installs b until the returned function is called.
func UseBackend(b tensor.Backend) (restore func()) { return functor.UseBackend(b) }

// Current returns the backend evaluations use by default.
func Current() tensor.Backend { return functor.Current() }

// Register makes a backend available by name.
func Register(name string, factory Factory) { functor.Register(name, factory) }

// Lookup builds the backend registered under name.
func Lookup(name string, cfg parallel.Config) (tensor.Backend, error) { return functor.Lookup(name, cfg) }

// Backends lists the registered backend names.
func Backends() []string { return functor.Backends() }
