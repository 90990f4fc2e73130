package diagram

import (
	"github.com/pkg/errors"
)

// RequireCopy reports whether wires of ty may be duplicated or discarded.
// Only the unit can be: the category has no copy or discard generators.
func RequireCopy(ty Ty) error {
	if ty.Len() == 0 {
		return nil
	}
	return errors.Wrapf(ErrAxiom, "%s does not have copy or discard", ty)
}

// Wire is an open wire handed out by a Builder.
type Wire struct {
	port Port
	ob   Ob
}

// Ob returns the type of the wire.
func (w Wire) Ob() Ob { return w.ob }

// Builder records box applications as a hypergraph.
type Builder struct {
	h    *Hypergraph
	used map[Port]bool
}

// Apply feeds wires to box and returns its outputs. Each wire may be used once.
func (b *Builder) Apply(box *Box, wires ...Wire) ([]Wire, error) {
	if len(wires) != box.dom.Len() {
		return nil, errors.Wrapf(ErrAxiom, "%s expects %d wires, got %d", box, box.dom.Len(), len(wires))
	}
	for i, w := range wires {
		if w.ob != box.dom.At(i) {
			return nil, errors.Wrapf(ErrAxiom, "%s input %d expects %s, got %s", box, i, box.dom.At(i), w.ob)
		}
		if b.used[w.port] {
			return nil, errors.Wrapf(RequireCopy(tyOf(w.ob)), "wire used twice")
		}
	}

	// Swaps only relabel wires.
	if box.kind == KindSwap {
		return []Wire{wires[1], wires[0]}, nil
	}
	for _, w := range wires {
		if err := b.use(w); err != nil {
			return nil, err
		}
	}

	k := len(b.h.boxes)
	b.h.boxes = append(b.h.boxes, box)
	ins := make([]Port, len(wires))
	for i, w := range wires {
		ins[i] = w.port
	}
	b.h.inputs = append(b.h.inputs, ins)

	outs := make([]Wire, box.cod.Len())
	for j := range outs {
		outs[j] = Wire{port: Port{Node: k, Index: j}, ob: box.cod.At(j)}
	}
	return outs, nil
}

func (b *Builder) use(w Wire) error {
	if b.used[w.port] {
		return errors.Wrapf(RequireCopy(tyOf(w.ob)), "wire used twice")
	}
	b.used[w.port] = true
	return nil
}

// Compile builds a diagram from a function over wires. fn receives one wire
// per atom of dom and returns the wires of cod. Every wire must be consumed
// exactly once; otherwise Compile fails with ErrAxiom.
func Compile(dom, cod Ty, fn func(b *Builder, inputs ...Wire) ([]Wire, error)) (*Diagram, error) {
	b := &Builder{h: &Hypergraph{dom: dom, cod: cod}, used: make(map[Port]bool)}
	inputs := make([]Wire, dom.Len())
	for i := range inputs {
		inputs[i] = Wire{port: Port{Node: Boundary, Index: i}, ob: dom.At(i)}
	}

	outputs, err := fn(b, inputs...)
	if err != nil {
		return nil, err
	}
	if len(outputs) != cod.Len() {
		return nil, errors.Wrapf(ErrAxiom, "expected %d output wires, got %d", cod.Len(), len(outputs))
	}
	for i, w := range outputs {
		if w.ob != cod.At(i) {
			return nil, errors.Wrapf(ErrAxiom, "output %d expects %s, got %s", i, cod.At(i), w.ob)
		}
		if err := b.use(w); err != nil {
			return nil, err
		}
		b.h.outputs = append(b.h.outputs, w.port)
	}

	for _, w := range inputs {
		if !b.used[w.port] {
			return nil, errors.Wrapf(RequireCopy(tyOf(w.ob)), "input wire discarded")
		}
	}
	for k, box := range b.h.boxes {
		for j := 0; j < box.cod.Len(); j++ {
			if !b.used[Port{Node: k, Index: j}] {
				return nil, errors.Wrapf(RequireCopy(box.cod.Slice(j, j+1)), "output of %s discarded", box)
			}
		}
	}
	return b.h.ToDiagram(), nil
}
