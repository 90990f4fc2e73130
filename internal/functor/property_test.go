package functor

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/braid/internal/diagram"
	"github.com/born-ml/braid/internal/tensor"
)

// maxWires bounds the open wires between layers so arrays stay small.
const maxWires = 4

// randomDiagram grows a diagram over atoms of size 2 and 3 one layer at a
// time: generic boxes with up to two legs on each side, swaps, cups and caps
// on equal atoms, and spiders.
type randomDiagram struct {
	rng    *rand.Rand
	atoms  []diagram.Ob
	dom    diagram.Ty
	wires  diagram.Ty
	layers []diagram.Layer
}

func newRandomDiagram(seed int64) *randomDiagram {
	atoms := []diagram.Ob{two.At(0), three.At(0)}
	g := &randomDiagram{rng: rand.New(rand.NewSource(seed)), atoms: atoms}
	g.dom = g.randomTy(1 + g.rng.Intn(3))
	g.wires = g.dom
	return g
}

func (g *randomDiagram) randomTy(n int) diagram.Ty {
	obs := make([]any, n)
	for i := range obs {
		obs[i] = g.atoms[g.rng.Intn(len(g.atoms))]
	}
	return diagram.MustTy(obs...)
}

func (g *randomDiagram) place(off, consumed int, box *diagram.Box) {
	g.layers = append(g.layers, diagram.Layer{
		Left:  g.wires.Slice(0, off),
		Box:   box,
		Right: g.wires.Slice(off+consumed, g.wires.Len()),
	})
	g.wires = g.wires.Slice(0, off).Tensor(box.Cod(), g.wires.Slice(off+consumed, g.wires.Len()))
}

func (g *randomDiagram) generic(name string) {
	n := g.wires.Len()
	off := g.rng.Intn(n + 1)
	consumed := g.rng.Intn(min(2, n-off) + 1)
	produced := g.rng.Intn(min(2, maxWires-n+consumed) + 1)

	dom := g.wires.Slice(off, off+consumed)
	cod := g.randomTy(produced)
	size := legShape(dom.Tensor(cod)).NumElements()
	data := make([]float64, size)
	for i := range data {
		data[i] = 2*g.rng.Float64() - 1
	}
	raw, err := tensor.FromFloat64(tensor.Shape{size}, data...)
	if err != nil {
		panic(err)
	}
	g.place(off, consumed, diagram.NewBox(name, dom, cod, diagram.WithData(diagram.NewArray(raw))))
}

// adjacentEqual returns the offsets i where wires i and i+1 carry the same atom.
func (g *randomDiagram) adjacentEqual() []int {
	var out []int
	for i := 0; i+1 < g.wires.Len(); i++ {
		if g.wires.At(i) == g.wires.At(i+1) {
			out = append(out, i)
		}
	}
	return out
}

func (g *randomDiagram) step(i int) {
	n := g.wires.Len()
	switch g.rng.Intn(5) {
	case 0:
		if n >= 2 {
			off := g.rng.Intn(n - 1)
			g.place(off, 2, diagram.SwapBox(g.wires.At(off), g.wires.At(off+1)))
			return
		}
	case 1:
		if pairs := g.adjacentEqual(); len(pairs) > 0 {
			off := pairs[g.rng.Intn(len(pairs))]
			g.place(off, 2, diagram.Cup(g.wires.At(off), g.wires.At(off+1)))
			return
		}
	case 2:
		if n+2 <= maxWires {
			x := g.atoms[g.rng.Intn(len(g.atoms))]
			g.place(g.rng.Intn(n+1), 0, diagram.Cap(x, x))
			return
		}
	case 3:
		if n > 0 {
			off := g.rng.Intn(n)
			x := g.wires.At(off)
			legs := 1
			if off+1 < n && g.wires.At(off+1) == x {
				legs += g.rng.Intn(2)
			}
			out := g.rng.Intn(min(3, maxWires-n+legs) + 1)
			g.place(off, legs, diagram.Spider(legs, out, x))
			return
		}
	}
	g.generic(fmt.Sprintf("b%d", i))
}

func (g *randomDiagram) build(t *testing.T, steps int) *diagram.Diagram {
	t.Helper()
	for i := 0; i < steps; i++ {
		g.step(i)
	}
	d, err := diagram.NewDiagram(g.dom, g.wires, g.layers)
	require.NoError(t, err)
	return d
}

// composeLayers evaluates d as the composite of its whiskered layers.
func composeLayers(t *testing.T, f *Functor, d *diagram.Diagram) *Tensor {
	t.Helper()
	dims := func(ty diagram.Ty) diagram.Ty {
		out, err := f.Dims(ty)
		require.NoError(t, err)
		return out
	}
	result := Id(dims(d.Dom()), nil)
	for _, layer := range d.Layers() {
		box, err := f.ApplyBox(layer.Box)
		require.NoError(t, err)
		whiskered := Id(dims(layer.Left), nil).Tensor(box).Tensor(Id(dims(layer.Right), nil))
		result, err = result.Then(whiskered)
		require.NoError(t, err)
	}
	return result
}

func TestRandomDiagrams_EvaluationsAgree(t *testing.T) {
	f := New()
	for seed := int64(1); seed <= 60; seed++ {
		g := newRandomDiagram(seed)
		d := g.build(t, 2+g.rng.Intn(6))
		name := fmt.Sprintf("seed %d: %s", seed, d)

		scan, err := f.Apply(d)
		require.NoError(t, err, name)

		assert.True(t, composeLayers(t, f, d).AllClose(scan, tol), "layers: %s", name)

		network, err := f.Contract(d, Sequential{})
		require.NoError(t, err, name)
		assert.True(t, network.AllClose(scan, tol), "network: %s", name)

		simplified, err := f.Apply(d.Simplify())
		require.NoError(t, err, name)
		assert.True(t, simplified.AllClose(scan, tol), "simplify: %s", name)
	}
}

func TestRandomDiagrams_Dagger(t *testing.T) {
	f := New()
	for seed := int64(100); seed < 130; seed++ {
		g := newRandomDiagram(seed)
		d := g.build(t, 1+g.rng.Intn(5))

		dagger, err := d.Dagger()
		require.NoError(t, err)
		lhs, err := f.Apply(dagger)
		require.NoError(t, err)
		rhs, err := f.Apply(d)
		require.NoError(t, err)
		assert.True(t, lhs.AllClose(rhs.Dagger(), tol), "seed %d: %s", seed, d)
	}
}
