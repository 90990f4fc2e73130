// Package diagram implements string diagrams for symmetric monoidal categories.
//
// A Diagram is an immutable list of layers, each placing one box between
// identity wires. Composition never mutates: Then and Tensor share layer
// storage through a persistent list. Diagrams are compared up to the
// symmetric monoidal axioms through their hypergraph (see Equal).
package diagram

import (
	"sort"
	"strings"
	"sync"

	"github.com/benbjohnson/immutable"
	"github.com/pkg/errors"
	"github.com/xtgo/set"

	"github.com/born-ml/braid/internal/tensor"
)

// Layer places Box between identity wires Left and Right.
type Layer struct {
	Left  Ty
	Box   *Box
	Right Ty
}

// Dom returns Left @ Box.Dom @ Right.
func (l Layer) Dom() Ty {
	return l.Left.Tensor(l.Box.Dom(), l.Right)
}

// Cod returns Left @ Box.Cod @ Right.
func (l Layer) Cod() Ty {
	return l.Left.Tensor(l.Box.Cod(), l.Right)
}

// String renders "x @ f @ y", omitting empty whiskers.
func (l Layer) String() string {
	parts := make([]string, 0, 3)
	if l.Left.Len() > 0 {
		parts = append(parts, l.Left.String())
	}
	parts = append(parts, l.Box.String())
	if l.Right.Len() > 0 {
		parts = append(parts, l.Right.String())
	}
	return strings.Join(parts, " @ ")
}

// Diagram is an immutable morphism from Dom to Cod.
type Diagram struct {
	dom    Ty
	cod    Ty
	layers *immutable.List[Layer]

	keyOnce sync.Once
	key     string
}

func newDiagram(dom, cod Ty, layers []Layer) *Diagram {
	return &Diagram{dom: dom, cod: cod, layers: immutable.NewList(layers...)}
}

// Id returns the identity on ty.
func Id(ty Ty) *Diagram {
	return newDiagram(ty, ty, nil)
}

// NewDiagram checks that layers compose from dom to cod.
func NewDiagram(dom, cod Ty, layers []Layer) (*Diagram, error) {
	cur := dom
	for i, l := range layers {
		if l.Box == nil {
			return nil, errors.Wrapf(ErrTypeMismatch, "layer %d has no box", i)
		}
		if !l.Dom().Equal(cur) {
			return nil, errors.Wrapf(ErrAxiom, "layer %d expects %s, got %s", i, l.Dom(), cur)
		}
		cur = l.Cod()
	}
	if !cur.Equal(cod) {
		return nil, errors.Wrapf(ErrAxiom, "layers end in %s, not %s", cur, cod)
	}
	return newDiagram(dom, cod, layers), nil
}

// Must is a helper that wraps a call returning (*Diagram, error) and panics
// if the error is non-nil.
func Must(d *Diagram, err error) *Diagram {
	if err != nil {
		panic(err)
	}
	return d
}

// AsDiagram converts a *Box, *Diagram or *Sum into a diagram.
func AsDiagram(v any) (*Diagram, error) {
	switch x := v.(type) {
	case *Diagram:
		return x, nil
	case *Box:
		return x.Diagram(), nil
	case *Sum:
		return x.Diagram(), nil
	default:
		return nil, errors.Wrapf(ErrTypeMismatch, "%T is not a diagram", v)
	}
}

// Dom returns the domain.
func (d *Diagram) Dom() Ty { return d.dom }

// Cod returns the codomain.
func (d *Diagram) Cod() Ty { return d.cod }

// Len returns the number of layers.
func (d *Diagram) Len() int { return d.layers.Len() }

// Layer returns the i-th layer.
func (d *Diagram) Layer(i int) Layer { return d.layers.Get(i) }

// Layers returns the layers in order.
func (d *Diagram) Layers() []Layer {
	out := make([]Layer, 0, d.layers.Len())
	itr := d.layers.Iterator()
	for !itr.Done() {
		_, l := itr.Next()
		out = append(out, l)
	}
	return out
}

// Boxes returns the box of each layer.
func (d *Diagram) Boxes() []*Box {
	layers := d.Layers()
	out := make([]*Box, len(layers))
	for i, l := range layers {
		out[i] = l.Box
	}
	return out
}

// Offsets returns the number of wires left of each box.
func (d *Diagram) Offsets() []int {
	layers := d.Layers()
	out := make([]int, len(layers))
	for i, l := range layers {
		out[i] = l.Left.Len()
	}
	return out
}

// Then composes sequentially: d first, then each of others.
func (d *Diagram) Then(others ...*Diagram) (*Diagram, error) {
	if d == nil {
		return nil, errors.Wrap(ErrTypeMismatch, "nil diagram")
	}
	out := d
	for i, g := range others {
		if g == nil {
			return nil, errors.Wrapf(ErrTypeMismatch, "nil diagram at position %d", i)
		}
		if !out.cod.Equal(g.dom) {
			return nil, errCompose(out.cod, g.dom)
		}
		layers := out.layers
		itr := g.layers.Iterator()
		for !itr.Done() {
			_, l := itr.Next()
			layers = layers.Append(l)
		}
		out = &Diagram{dom: out.dom, cod: g.cod, layers: layers}
	}
	return out, nil
}

// Tensor composes in parallel. The left operand acts first: its layers are
// whiskered on the right by the domain of the other, then the layers of the
// other are whiskered on the left by the codomain of the first.
func (d *Diagram) Tensor(others ...*Diagram) *Diagram {
	out := d
	for _, g := range others {
		b := immutable.NewListBuilder[Layer]()
		itr := out.layers.Iterator()
		for !itr.Done() {
			_, l := itr.Next()
			b.Append(Layer{Left: l.Left, Box: l.Box, Right: l.Right.Tensor(g.dom)})
		}
		itr = g.layers.Iterator()
		for !itr.Done() {
			_, l := itr.Next()
			b.Append(Layer{Left: out.cod.Tensor(l.Left), Box: l.Box, Right: l.Right})
		}
		out = &Diagram{dom: out.dom.Tensor(g.dom), cod: out.cod.Tensor(g.cod), layers: b.List()}
	}
	return out
}

// Dagger reverses the layers and replaces each box by its adjoint.
func (d *Diagram) Dagger() (*Diagram, error) {
	layers := d.Layers()
	out := make([]Layer, len(layers))
	for i, l := range layers {
		box, err := l.Box.Dagger()
		if err != nil {
			return nil, err
		}
		out[len(out)-1-i] = Layer{Left: l.Left, Box: box, Right: l.Right}
	}
	return newDiagram(d.cod, d.dom, out), nil
}

// mapBoxes rebuilds d with every box replaced by fn(box). fn must preserve types.
func (d *Diagram) mapBoxes(fn func(*Box) *Box) *Diagram {
	layers := d.Layers()
	for i, l := range layers {
		layers[i].Box = fn(l.Box)
	}
	return newDiagram(d.dom, d.cod, layers)
}

// Subs substitutes symbols in every payload that supports it.
func (d *Diagram) Subs(assignment map[string]tensor.Scalar) *Diagram {
	return d.mapBoxes(func(b *Box) *Box { return b.Subs(assignment) })
}

// Lambdify returns a function binding symbols, in order, to values.
func (d *Diagram) Lambdify(symbols ...string) func(values ...tensor.Scalar) (*Diagram, error) {
	return func(values ...tensor.Scalar) (*Diagram, error) {
		if len(values) != len(symbols) {
			return nil, errors.Wrapf(ErrTypeMismatch, "expected %d values, got %d", len(symbols), len(values))
		}
		assignment := make(map[string]tensor.Scalar, len(symbols))
		for i, s := range symbols {
			assignment[s] = values[i]
		}
		return d.Subs(assignment), nil
	}
}

// Grad differentiates d with respect to symbol by the product rule: one term
// per box mentioning symbol, with that box replaced by its derivative.
func (d *Diagram) Grad(symbol string) *Sum {
	layers := d.Layers()
	var terms []*Diagram
	for i, l := range layers {
		for _, dbox := range l.Box.Grad(symbol) {
			before := newDiagram(d.dom, layers[i].Dom(), layers[:i])
			after := newDiagram(layers[i].Cod(), d.cod, layers[i+1:])
			whiskered := Id(l.Left).Tensor(dbox, Id(l.Right))
			term := Must(before.Then(whiskered, after))
			terms = append(terms, term)
		}
	}
	return &Sum{dom: d.dom, cod: d.cod, terms: terms}
}

// Jacobian stacks the gradients of d with respect to symbols along a new
// codomain atom of size len(symbols): each derivative term is tensored with
// a basis state named after its symbol.
func (d *Diagram) Jacobian(symbols ...string) (*Sum, error) {
	n := max(len(symbols), 1)
	dim, err := NewDim(n)
	if err != nil {
		return nil, err
	}
	var terms []*Diagram
	for i, symbol := range symbols {
		data := make([]float64, n)
		data[i] = 1
		raw, err := tensor.FromFloat64(tensor.Shape{n}, data...)
		if err != nil {
			return nil, err
		}
		basis := NewBox(symbol, Ty{}, dim, WithData(NewArray(raw))).Diagram()
		for _, term := range d.Grad(symbol).terms {
			terms = append(terms, basis.Tensor(term))
		}
	}
	return &Sum{dom: d.dom, cod: dim.Tensor(d.cod), terms: terms}, nil
}

// FreeSymbols returns the sorted symbols referenced by any payload.
func (d *Diagram) FreeSymbols() []string {
	var out []string
	itr := d.layers.Iterator()
	for !itr.Done() {
		_, l := itr.Next()
		out = append(out, l.Box.FreeSymbols()...)
	}
	return uniqueSorted(out)
}

func uniqueSorted(xs []string) []string {
	if len(xs) == 0 {
		return nil
	}
	sort.Strings(xs)
	n := set.Uniq(sort.StringSlice(xs))
	return xs[:n]
}

// String renders the layers joined by " >> ", or "Id(ty)".
func (d *Diagram) String() string {
	if d.layers.Len() == 0 {
		return "Id(" + d.dom.String() + ")"
	}
	layers := d.Layers()
	parts := make([]string, len(layers))
	for i, l := range layers {
		parts[i] = l.String()
	}
	return strings.Join(parts, " >> ")
}
