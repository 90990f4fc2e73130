// Package functor evaluates string diagrams as dense tensors.
//
// A Functor maps every atom of a type to a dimension and every generic box
// to an array. Structural boxes (swaps, cups, caps, spiders) and formal sums
// are interpreted the same way for every functor.
package functor

import (
	"github.com/pkg/errors"

	"github.com/born-ml/braid/internal/diagram"
	"github.com/born-ml/braid/internal/log"
	"github.com/born-ml/braid/internal/tensor"
)

var logger = log.For("functor")

// ObMap sends an atom to a dimension.
type ObMap func(ob diagram.Ob) (diagram.Ty, error)

// ArMap sends a generic box to an array with the legs of its domain
// followed by the legs of its codomain. Any array with the right number of
// elements is accepted and reshaped.
type ArMap func(box *diagram.Box) (*tensor.RawTensor, error)

// Functor is a monoidal functor into tensors.
type Functor struct {
	Ob      ObMap
	Ar      ArMap
	Backend tensor.Backend // nil selects Current()
}

// New returns the default functor: dimensions from Dim atoms, arrays from
// box payloads.
func New() *Functor {
	return &Functor{Ob: ObFromDims(), Ar: ArFromData()}
}

// ObFromDims reads the dimension annotation of each atom.
func ObFromDims() ObMap {
	return func(ob diagram.Ob) (diagram.Ty, error) {
		if ob.Dim < 1 {
			return diagram.Ty{}, errors.Wrapf(diagram.ErrMissingMapping, "object %s has no dimension", ob.Name)
		}
		return diagram.NewDim(ob.Dim)
	}
}

// ObFromMap looks atoms up by name, falling back to their dimension annotation.
func ObFromMap(dims map[string]int) ObMap {
	annotated := ObFromDims()
	return func(ob diagram.Ob) (diagram.Ty, error) {
		if n, ok := dims[ob.Name]; ok {
			return diagram.NewDim(n)
		}
		return annotated(ob)
	}
}

// ArrowMap looks boxes up by identity. Two boxes with the same kind, name,
// type, orientation and payload share an entry.
func ArrowMap(arrays map[*diagram.Box]*tensor.RawTensor) ArMap {
	byKey := make(map[string]*tensor.RawTensor, len(arrays))
	for box, array := range arrays {
		byKey[box.Key()] = array
	}
	return func(box *diagram.Box) (*tensor.RawTensor, error) {
		array, ok := byKey[box.Key()]
		if !ok {
			return nil, errors.Wrapf(diagram.ErrMissingMapping, "box %s", box)
		}
		return array, nil
	}
}

// ArFromData reads the Array payload of each box.
func ArFromData() ArMap {
	return func(box *diagram.Box) (*tensor.RawTensor, error) {
		array, ok := box.Data().(diagram.Array)
		if !ok || array.RawTensor == nil {
			return nil, errors.Wrapf(diagram.ErrMissingMapping, "box %s has no array", box)
		}
		return array.RawTensor, nil
	}
}

func (f *Functor) backend() tensor.Backend {
	if f.Backend != nil {
		return f.Backend
	}
	return Current()
}

// Dims maps a type atom by atom.
func (f *Functor) Dims(ty diagram.Ty) (diagram.Ty, error) {
	parts := make([]diagram.Ty, 0, ty.Len())
	for _, ob := range ty.Obs() {
		dim, err := f.Ob(ob)
		if err != nil {
			return diagram.Ty{}, err
		}
		if !dim.IsDim() {
			return diagram.Ty{}, errors.Wrapf(diagram.ErrTypeMismatch, "object %s maps to %s", ob, dim)
		}
		parts = append(parts, dim)
	}
	return diagram.MustTy().Tensor(parts...), nil
}

// Apply evaluates d. The array starts as the identity on the domain and
// carries the domain legs followed by the currently open wires; each layer
// contracts its box against the open wires it consumes.
func (f *Functor) Apply(d *diagram.Diagram) (*Tensor, error) {
	b := f.backend()
	dom, err := f.Dims(d.Dom())
	if err != nil {
		return nil, err
	}
	cod, err := f.Dims(d.Cod())
	if err != nil {
		return nil, err
	}

	array := identityArray(b, dom)
	nDom := dom.Len()
	for i, layer := range d.Layers() {
		left, err := f.Dims(layer.Left)
		if err != nil {
			return nil, err
		}
		off := nDom + left.Len()
		box := layer.Box

		switch {
		case box.Kind() == diagram.KindSwap:
			l, err := f.Dims(box.Dom().Slice(0, 1))
			if err != nil {
				return nil, err
			}
			r, err := f.Dims(box.Dom().Slice(1, 2))
			if err != nil {
				return nil, err
			}
			array = swapLegs(b, array, off, l.Len(), r.Len())
		case box.IsIdentity():
			continue
		default:
			boxArray, err := f.arrow(box)
			if err != nil {
				return nil, errors.Wrapf(err, "layer %d", i)
			}
			bd, _ := f.Dims(box.Dom())
			bc, _ := f.Dims(box.Cod())
			array = b.TensorDot(array, boxArray, axes(off, bd.Len()), axes(0, bd.Len()))
			n := len(array.Shape())
			array = b.MoveAxis(array, axes(n-bc.Len(), bc.Len()), axes(off, bc.Len()))
		}
		logger.Debug("layer", "index", i, "box", box.Name(), "legs", len(array.Shape()))
	}
	return &Tensor{dom: dom, cod: cod, array: array, backend: b}, nil
}

// ApplySum evaluates every term and adds the results. The empty sum is zero.
func (f *Functor) ApplySum(s *diagram.Sum) (*Tensor, error) {
	dom, err := f.Dims(s.Dom())
	if err != nil {
		return nil, err
	}
	cod, err := f.Dims(s.Cod())
	if err != nil {
		return nil, err
	}
	result := Zeros(dom, cod, f.backend())
	for _, term := range s.Terms() {
		t, err := f.Apply(term)
		if err != nil {
			return nil, err
		}
		if result, err = result.Add(t); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ApplyBox evaluates a single box.
func (f *Functor) ApplyBox(box *diagram.Box) (*Tensor, error) {
	return f.Apply(box.Diagram())
}

// arrow returns the array of box with legs dims(dom) @ dims(cod).
func (f *Functor) arrow(box *diagram.Box) (*tensor.RawTensor, error) {
	b := f.backend()
	dom, err := f.Dims(box.Dom())
	if err != nil {
		return nil, err
	}
	cod, err := f.Dims(box.Cod())
	if err != nil {
		return nil, err
	}
	shape := legShape(dom.Tensor(cod))

	switch box.Kind() {
	case diagram.KindSwap:
		l, _ := f.Dims(box.Dom().Slice(0, 1))
		r, _ := f.Dims(box.Dom().Slice(1, 2))
		return Swap(l, r, b).array, nil

	case diagram.KindCup, diagram.KindCap:
		pair := box.Dom()
		if box.Kind() == diagram.KindCap {
			pair = box.Cod()
		}
		l, _ := f.Dims(pair.Slice(0, 1))
		r, _ := f.Dims(pair.Slice(1, 2))
		n := legShape(l).NumElements()
		if m := legShape(r).NumElements(); m != n {
			return nil, errors.Wrapf(diagram.ErrShapeMismatch, "%s: %s and %s differ in size", box, l, r)
		}
		return b.Reshape(b.Eye(n, tensor.Float64), shape), nil

	case diagram.KindSpider:
		atom, err := f.Dims(diagram.MustTy(box.Atom()))
		if err != nil {
			return nil, err
		}
		n := legShape(atom).NumElements()
		legs := box.Dom().Len() + box.Cod().Len()
		return b.Reshape(b.Diagonal(legs, n, tensor.Float64), shape), nil

	case diagram.KindSum:
		s, err := diagram.NewSum(box.Dom(), box.Cod(), box.Terms()...)
		if err != nil {
			return nil, err
		}
		t, err := f.ApplySum(s)
		if err != nil {
			return nil, err
		}
		return t.array, nil

	case diagram.KindBubble:
		inside, err := f.Apply(box.Inside())
		if err != nil {
			return nil, err
		}
		return mapEntries(inside.array, box.Func().Apply)
	}

	if box.IsDagger() {
		inner, err := box.Dagger()
		if err != nil {
			return nil, err
		}
		array, err := f.arrow(inner)
		if err != nil {
			return nil, err
		}
		return (&Tensor{dom: cod, cod: dom, array: array, backend: b}).Dagger().array, nil
	}

	raw, err := f.Ar(box)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.Wrapf(diagram.ErrMissingMapping, "box %s", box)
	}
	if raw.NumElements() != shape.NumElements() {
		return nil, errors.Wrapf(diagram.ErrShapeMismatch, "box %s: array of shape %v does not fit %v",
			box, raw.Shape(), shape)
	}
	if raw.Shape().Equal(shape) {
		return raw, nil
	}
	return b.Reshape(raw, shape), nil
}
