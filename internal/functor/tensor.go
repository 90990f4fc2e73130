package functor

import (
	"fmt"
	"math/cmplx"

	"github.com/pkg/errors"

	"github.com/born-ml/braid/internal/diagram"
	"github.com/born-ml/braid/internal/tensor"
)

// Tensor is a dense array viewed as a morphism from Dom to Cod.
// Its array has the legs of Dom followed by the legs of Cod.
type Tensor struct {
	dom     diagram.Ty
	cod     diagram.Ty
	array   *tensor.RawTensor
	backend tensor.Backend
}

// NewTensor reshapes array to dom @ cod. Both types must be dimensions.
func NewTensor(dom, cod diagram.Ty, array *tensor.RawTensor, b tensor.Backend) (*Tensor, error) {
	if b == nil {
		b = Current()
	}
	if !dom.IsDim() || !cod.IsDim() {
		return nil, errors.Wrapf(diagram.ErrTypeMismatch, "%s -> %s is not a dimension", dom, cod)
	}
	shape := legShape(dom.Tensor(cod))
	if array.NumElements() != shape.NumElements() {
		return nil, errors.Wrapf(diagram.ErrShapeMismatch, "array of shape %v does not fit %s -> %s",
			array.Shape(), dom, cod)
	}
	if !array.Shape().Equal(shape) {
		array = b.Reshape(array, shape)
	}
	return &Tensor{dom: dom, cod: cod, array: array, backend: b}, nil
}

func legShape(dim diagram.Ty) tensor.Shape {
	return tensor.Shape(dim.Dims())
}

// axes returns [start, start+n).
func axes(start, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = start + i
	}
	return out
}

// identityArray returns the identity on dim with legs dim @ dim.
func identityArray(b tensor.Backend, dim diagram.Ty) *tensor.RawTensor {
	n := legShape(dim).NumElements()
	eye := b.Eye(n, tensor.Float64)
	return b.Reshape(eye, legShape(dim.Tensor(dim)))
}

// swapLegs exchanges the adjacent leg blocks [off, off+nl) and [off+nl, off+nl+nr).
func swapLegs(b tensor.Backend, array *tensor.RawTensor, off, nl, nr int) *tensor.RawTensor {
	if nl == 0 || nr == 0 {
		return array
	}
	source := axes(off, nl+nr)
	destination := make([]int, 0, nl+nr)
	destination = append(destination, axes(off+nr, nl)...)
	destination = append(destination, axes(off, nr)...)
	return b.MoveAxis(array, source, destination)
}

// Id is the identity tensor on dim.
func Id(dim diagram.Ty, b tensor.Backend) *Tensor {
	if b == nil {
		b = Current()
	}
	return &Tensor{dom: dim, cod: dim, array: identityArray(b, dim), backend: b}
}

// Zeros is the zero tensor from dom to cod.
func Zeros(dom, cod diagram.Ty, b tensor.Backend) *Tensor {
	if b == nil {
		b = Current()
	}
	return &Tensor{dom: dom, cod: cod, array: b.Zeros(legShape(dom.Tensor(cod)), tensor.Float64), backend: b}
}

// Swap is the tensor exchanging left and right.
func Swap(left, right diagram.Ty, b tensor.Backend) *Tensor {
	id := Id(left.Tensor(right), b)
	n := left.Len() + right.Len()
	array := swapLegs(id.backend, id.array, n, left.Len(), right.Len())
	return &Tensor{dom: left.Tensor(right), cod: right.Tensor(left), array: array, backend: id.backend}
}

// Dom returns the domain.
func (t *Tensor) Dom() diagram.Ty { return t.dom }

// Cod returns the codomain.
func (t *Tensor) Cod() diagram.Ty { return t.cod }

// Array returns the underlying array, legs dom then cod.
func (t *Tensor) Array() *tensor.RawTensor { return t.array }

// Then composes sequentially, contracting the codomain of t with the domain of other.
func (t *Tensor) Then(other *Tensor) (*Tensor, error) {
	if !t.cod.Equal(other.dom) {
		return nil, errors.Wrapf(diagram.ErrAxiom, "cannot compose: %s != %s", t.cod, other.dom)
	}
	n := t.cod.Len()
	array := t.backend.TensorDot(t.array, other.array, axes(t.dom.Len(), n), axes(0, n))
	return &Tensor{dom: t.dom, cod: other.cod, array: array, backend: t.backend}, nil
}

// Tensor composes in parallel. The outer product has legs
// dom(t), cod(t), dom(other), cod(other), which are moved to
// dom(t), dom(other), cod(t), cod(other).
func (t *Tensor) Tensor(other *Tensor) *Tensor {
	outer := t.backend.TensorDot(t.array, other.array, nil, nil)
	nd, nc, md := t.dom.Len(), t.cod.Len(), other.dom.Len()
	array := swapLegs(t.backend, outer, nd, nc, md)
	return &Tensor{
		dom:     t.dom.Tensor(other.dom),
		cod:     t.cod.Tensor(other.cod),
		array:   array,
		backend: t.backend,
	}
}

// Dagger is the conjugate transpose.
func (t *Tensor) Dagger() *Tensor {
	nd, nc := t.dom.Len(), t.cod.Len()
	order := append(axes(nd, nc), axes(0, nd)...)
	array := t.backend.Conj(t.backend.Transpose(t.array, order...))
	return &Tensor{dom: t.cod, cod: t.dom, array: array, backend: t.backend}
}

// Conj conjugates every entry, keeping the type.
func (t *Tensor) Conj() *Tensor {
	return &Tensor{dom: t.dom, cod: t.cod, array: t.backend.Conj(t.array), backend: t.backend}
}

// Conjugate is the diagrammatic conjugate: the legs of the domain and of the
// codomain are each reversed and every entry is conjugated. It is the
// mirror image of the diagram, so dom and cod come out reversed.
func (t *Tensor) Conjugate() *Tensor {
	nd, n := t.dom.Len(), t.dom.Len()+t.cod.Len()
	order := make([]int, 0, n)
	for i := nd - 1; i >= 0; i-- {
		order = append(order, i)
	}
	for i := n - 1; i >= nd; i-- {
		order = append(order, i)
	}
	array := t.backend.Conj(t.backend.Transpose(t.array, order...))
	return &Tensor{dom: t.dom.Reverse(), cod: t.cod.Reverse(), array: array, backend: t.backend}
}

// Transpose reverses every leg, turning dom -> cod into
// reverse(cod) -> reverse(dom). Entries are not conjugated.
func (t *Tensor) Transpose() *Tensor {
	n := t.dom.Len() + t.cod.Len()
	order := make([]int, n)
	for i := range order {
		order[i] = n - 1 - i
	}
	array := t.backend.Transpose(t.array, order...)
	return &Tensor{dom: t.cod.Reverse(), cod: t.dom.Reverse(), array: array, backend: t.backend}
}

// Map applies fn to every entry.
func (t *Tensor) Map(fn func(tensor.Scalar) tensor.Scalar) *Tensor {
	return &Tensor{dom: t.dom, cod: t.cod, array: t.array.Map(fn), backend: t.backend}
}

// Subs substitutes symbols in every symbolic entry.
func (t *Tensor) Subs(assignment map[string]tensor.Scalar) *Tensor {
	return &Tensor{dom: t.dom, cod: t.cod, array: t.array.Subs(assignment), backend: t.backend}
}

// Lambdify returns a function binding symbols, in order, to values.
func (t *Tensor) Lambdify(symbols ...string) func(values ...tensor.Scalar) (*Tensor, error) {
	return func(values ...tensor.Scalar) (*Tensor, error) {
		if len(values) != len(symbols) {
			return nil, errors.Wrapf(diagram.ErrTypeMismatch, "expected %d values, got %d", len(symbols), len(values))
		}
		assignment := make(map[string]tensor.Scalar, len(symbols))
		for i, s := range symbols {
			assignment[s] = values[i]
		}
		return t.Subs(assignment), nil
	}
}

// Grad differentiates every entry with respect to symbol.
func (t *Tensor) Grad(symbol string) *Tensor {
	return &Tensor{dom: t.dom, cod: t.cod, array: t.array.Diff(symbol), backend: t.backend}
}

// Jacobian stacks the gradients with respect to symbols along a new leg of
// size len(symbols) placed first in the codomain: dom -> n @ cod.
func (t *Tensor) Jacobian(symbols ...string) (*Tensor, error) {
	dim, err := diagram.NewDim(max(len(symbols), 1))
	if err != nil {
		return nil, err
	}
	result := Zeros(t.dom, dim.Tensor(t.cod), t.backend)
	for i, symbol := range symbols {
		basis, err := oneHot(dim, i, t.backend)
		if err != nil {
			return nil, err
		}
		if result, err = result.Add(basis.Tensor(t.Grad(symbol))); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// oneHot is the state of dim with a single one at index i.
func oneHot(dim diagram.Ty, i int, b tensor.Backend) (*Tensor, error) {
	data := make([]float64, legShape(dim).NumElements())
	data[i] = 1
	raw, err := tensor.FromFloat64(tensor.Shape{len(data)}, data...)
	if err != nil {
		return nil, err
	}
	return NewTensor(diagram.MustTy(), dim, raw, b)
}

// mapEntries applies fn to every entry, stopping at the first error.
func mapEntries(raw *tensor.RawTensor, fn func(tensor.Scalar) (tensor.Scalar, error)) (*tensor.RawTensor, error) {
	var err error
	out := raw.Map(func(x tensor.Scalar) tensor.Scalar {
		if err != nil {
			return x
		}
		y, e := fn(x)
		if e != nil {
			err = e
			return x
		}
		return y
	})
	return out, err
}

// Add sums two tensors of the same type.
func (t *Tensor) Add(other *Tensor) (*Tensor, error) {
	if !t.dom.Equal(other.dom) || !t.cod.Equal(other.cod) {
		return nil, errors.Wrapf(diagram.ErrAxiom, "cannot add %s -> %s to %s -> %s",
			other.dom, other.cod, t.dom, t.cod)
	}
	return &Tensor{dom: t.dom, cod: t.cod, array: t.backend.Add(t.array, other.array), backend: t.backend}, nil
}

// AllClose reports whether both tensors have the same type and entries within tol.
// Symbolic entries must match exactly.
func (t *Tensor) AllClose(other *Tensor, tol float64) bool {
	if !t.dom.Equal(other.dom) || !t.cod.Equal(other.cod) {
		return false
	}
	if !t.array.Shape().Equal(other.array.Shape()) {
		return false
	}
	for i := 0; i < t.array.NumElements(); i++ {
		a, b := t.array.ScalarAt(i), other.array.ScalarAt(i)
		va, okA := tensor.ValueOf(a)
		vb, okB := tensor.ValueOf(b)
		switch {
		case okA && okB:
			if cmplx.Abs(va-vb) > tol {
				return false
			}
		case a.String() != b.String():
			return false
		}
	}
	return true
}

// Matrix returns the array reshaped to (dim dom, dim cod).
func (t *Tensor) Matrix() *tensor.RawTensor {
	rows := legShape(t.dom).NumElements()
	cols := legShape(t.cod).NumElements()
	return t.backend.Reshape(t.array, tensor.Shape{rows, cols})
}

// String formats the type and entries.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(%s -> %s, %s)", t.dom, t.cod, t.array)
}
