package diagram

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/born-ml/braid/internal/tensor"
)

// Kind tags the closed set of box variants.
type Kind int

// Box kinds.
const (
	KindGeneric Kind = iota
	KindSwap
	KindCup
	KindCap
	KindSpider
	KindSum
	KindBubble
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "Box"
	case KindSwap:
		return "Swap"
	case KindCup:
		return "Cup"
	case KindCap:
		return "Cap"
	case KindSpider:
		return "Spider"
	case KindSum:
		return "Sum"
	case KindBubble:
		return "Bubble"
	default:
		return "Unknown"
	}
}

// DaggerFlag records the orientation of a generic box.
type DaggerFlag int

// Dagger flags. The zero value is a box in its original orientation.
const (
	DaggerFalse DaggerFlag = iota
	DaggerTrue
	// DaggerUnknown marks boxes whose adjoint must come from their payload.
	DaggerUnknown
)

// Data is an opaque box payload with a canonical key.
type Data interface {
	Key() string
}

// Adjointer is implemented by payloads that know their own adjoint.
type Adjointer interface {
	Adjoint() Data
}

// Substituter is implemented by payloads with assignable free symbols.
type Substituter interface {
	Subs(assignment map[string]tensor.Scalar) Data
}

// Differentiable is implemented by payloads with a derivative.
type Differentiable interface {
	Diff(symbol string) Data
}

// SymbolHolder is implemented by payloads that reference symbols.
type SymbolHolder interface {
	FreeSymbols() []string
}

// Array is a dense array payload.
type Array struct {
	*tensor.RawTensor
}

// NewArray wraps raw as a payload.
func NewArray(raw *tensor.RawTensor) Array {
	return Array{RawTensor: raw}
}

// Subs implements Substituter.
func (a Array) Subs(assignment map[string]tensor.Scalar) Data {
	return Array{RawTensor: a.RawTensor.Subs(assignment)}
}

// Diff implements Differentiable.
func (a Array) Diff(symbol string) Data {
	return Array{RawTensor: a.RawTensor.Diff(symbol)}
}

// Box is an immutable generator. Build generic boxes with NewBox and the
// structural ones with SwapBox, Cup, Cap and Spider. Bubble wraps a diagram.
type Box struct {
	name   string
	dom    Ty
	cod    Ty
	kind   Kind
	data   Data
	dagger DaggerFlag
	atom   Ob         // KindSpider only
	terms  []*Diagram // KindSum only
	inside *Diagram   // KindBubble only
	fn     *Func      // KindBubble only
}

// BoxOption configures a generic box.
type BoxOption func(*Box)

// WithData attaches a payload.
func WithData(data Data) BoxOption {
	return func(b *Box) {
		b.data = data
	}
}

// WithDagger sets the dagger flag.
func WithDagger(flag DaggerFlag) BoxOption {
	return func(b *Box) {
		b.dagger = flag
	}
}

// NewBox creates a generic box.
func NewBox(name string, dom, cod Ty, opts ...BoxOption) *Box {
	b := &Box{name: name, dom: dom, cod: cod, kind: KindGeneric}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SwapBox is the braiding of two atoms.
func SwapBox(left, right Ob) *Box {
	return &Box{name: "SWAP", dom: tyOf(left, right), cod: tyOf(right, left), kind: KindSwap}
}

// Cup contracts a pair of atoms into the unit.
func Cup(left, right Ob) *Box {
	return &Box{name: "CUP", dom: tyOf(left, right), kind: KindCup}
}

// Cap creates a pair of atoms from the unit.
func Cap(left, right Ob) *Box {
	return &Box{name: "CAP", cod: tyOf(left, right), kind: KindCap}
}

// Spider merges nIn copies of x into nOut copies.
func Spider(nIn, nOut int, x Ob) *Box {
	return &Box{
		name: fmt.Sprintf("Spider(%d, %d)", nIn, nOut),
		dom:  tyOf(x).Pow(nIn),
		cod:  tyOf(x).Pow(nOut),
		kind: KindSpider,
		atom: x,
	}
}

// Name returns the box name.
func (b *Box) Name() string { return b.name }

// Dom returns the domain.
func (b *Box) Dom() Ty { return b.dom }

// Cod returns the codomain.
func (b *Box) Cod() Ty { return b.cod }

// Kind returns the variant tag.
func (b *Box) Kind() Kind { return b.kind }

// Data returns the payload, or nil.
func (b *Box) Data() Data { return b.data }

// DaggerFlag returns the orientation flag.
func (b *Box) DaggerFlag() DaggerFlag { return b.dagger }

// IsDagger reports whether the box is the adjoint of its un-daggered form.
func (b *Box) IsDagger() bool { return b.dagger == DaggerTrue }

// Atom returns the atom a spider is built on. It is the zero Ob for other
// kinds.
func (b *Box) Atom() Ob { return b.atom }

// Terms returns the summands of a Sum box.
func (b *Box) Terms() []*Diagram {
	return append([]*Diagram(nil), b.terms...)
}

// IsIdentity reports whether the box is a Spider with one leg on each side.
func (b *Box) IsIdentity() bool {
	return b.kind == KindSpider && b.dom.Len() == 1 && b.cod.Len() == 1
}

// Diagram returns the one-layer diagram holding b.
func (b *Box) Diagram() *Diagram {
	return newDiagram(b.dom, b.cod, []Layer{{Box: b}})
}

// Dagger returns the adjoint box.
func (b *Box) Dagger() (*Box, error) {
	switch b.kind {
	case KindSwap:
		return SwapBox(b.dom.At(1), b.dom.At(0)), nil
	case KindCup:
		return Cap(b.dom.At(0), b.dom.At(1)), nil
	case KindCap:
		return Cup(b.cod.At(0), b.cod.At(1)), nil
	case KindSpider:
		return Spider(b.cod.Len(), b.dom.Len(), b.atom), nil
	case KindSum:
		terms := make([]*Diagram, len(b.terms))
		for i, t := range b.terms {
			d, err := t.Dagger()
			if err != nil {
				return nil, err
			}
			terms[i] = d
		}
		return sumBox(b.cod, b.dom, terms), nil
	case KindBubble:
		inside, err := b.inside.Dagger()
		if err != nil {
			return nil, err
		}
		return Bubble(inside, b.fn), nil
	}

	out := &Box{name: b.name, dom: b.cod, cod: b.dom, kind: b.kind, data: b.data}
	switch b.dagger {
	case DaggerFalse:
		out.dagger = DaggerTrue
	case DaggerTrue:
		out.dagger = DaggerFalse
	default:
		adj, ok := b.data.(Adjointer)
		if !ok {
			return nil, errors.Wrapf(ErrAxiom, "box %s has no dagger", b.name)
		}
		out.data = adj.Adjoint()
		out.dagger = DaggerUnknown
	}
	return out, nil
}

// withData returns a copy of b carrying data.
func (b *Box) withData(data Data) *Box {
	out := *b
	out.data = data
	return &out
}

// Subs substitutes symbols in the payload; boxes without the capability are returned as is.
func (b *Box) Subs(assignment map[string]tensor.Scalar) *Box {
	if b.kind == KindSum {
		terms := make([]*Diagram, len(b.terms))
		for i, t := range b.terms {
			terms[i] = t.Subs(assignment)
		}
		return sumBox(b.dom, b.cod, terms)
	}
	if b.kind == KindBubble {
		return Bubble(b.inside.Subs(assignment), b.fn)
	}
	if s, ok := b.data.(Substituter); ok {
		return b.withData(s.Subs(assignment))
	}
	return b
}

// FreeSymbols returns the symbols referenced by the payload.
func (b *Box) FreeSymbols() []string {
	if b.kind == KindSum {
		var out []string
		for _, t := range b.terms {
			out = append(out, t.FreeSymbols()...)
		}
		return uniqueSorted(out)
	}
	if b.kind == KindBubble {
		return b.inside.FreeSymbols()
	}
	if h, ok := b.data.(SymbolHolder); ok {
		return h.FreeSymbols()
	}
	return nil
}

// Grad returns the derivative terms of b with respect to symbol.
// A box not mentioning symbol has no terms.
func (b *Box) Grad(symbol string) []*Diagram {
	if b.kind == KindSum {
		var out []*Diagram
		for _, t := range b.terms {
			out = append(out, t.Grad(symbol).terms...)
		}
		return out
	}
	if b.kind == KindBubble {
		return b.bubbleGrad(symbol)
	}
	if !containsSymbol(b.FreeSymbols(), symbol) {
		return nil
	}
	d, ok := b.data.(Differentiable)
	if !ok {
		return nil
	}
	return []*Diagram{b.withData(d.Diff(symbol)).Diagram()}
}

func containsSymbol(symbols []string, symbol string) bool {
	i := sort.SearchStrings(symbols, symbol)
	return i < len(symbols) && symbols[i] == symbol
}

// Key is the canonical identity of the box: kind, name, types, flag and payload key.
func (b *Box) Key() string {
	var sb strings.Builder
	sb.WriteString(b.kind.String())
	sb.WriteByte('(')
	sb.WriteString(strconv.Quote(b.name))
	sb.WriteByte(';')
	sb.WriteString(b.dom.key())
	sb.WriteByte(';')
	sb.WriteString(b.cod.key())
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(b.dagger)))
	if b.kind == KindSpider {
		sb.WriteByte(';')
		sb.WriteString(tyOf(b.atom).key())
	}
	if b.data != nil {
		sb.WriteByte(';')
		sb.WriteString(b.data.Key())
	}
	if b.kind == KindBubble {
		sb.WriteByte(';')
		sb.WriteString(strconv.Quote(b.inside.canonicalKey()))
	}
	if b.kind == KindSum {
		keys := make([]string, len(b.terms))
		for i, t := range b.terms {
			keys[i] = t.canonicalKey()
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteByte(';')
			sb.WriteString(strconv.Quote(k))
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

// String returns the name, with a dagger mark for adjoint boxes.
func (b *Box) String() string {
	if b.kind == KindSum {
		if len(b.terms) == 0 {
			return "Sum()"
		}
		parts := make([]string, len(b.terms))
		for i, t := range b.terms {
			parts[i] = t.String()
		}
		return "(" + strings.Join(parts, " + ") + ")"
	}
	if b.kind == KindBubble {
		return b.name + "(" + b.inside.String() + ")"
	}
	if b.dagger == DaggerTrue {
		return b.name + "†"
	}
	return b.name
}
