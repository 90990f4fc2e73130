package diagram

import (
	"github.com/pkg/errors"
)

// Swap returns the braiding left @ right -> right @ left. Each atom of right
// is moved across the whole of left, one atomic swap at a time. Swapping
// with the unit is the identity.
func Swap(left, right Ty) *Diagram {
	wires := left.Tensor(right).Obs()
	var layers []Layer
	for j := 0; j < right.Len(); j++ {
		for p := j + left.Len(); p > j; p-- {
			layers = append(layers, Layer{
				Left:  tyOf(append([]Ob(nil), wires[:p-1]...)...),
				Box:   SwapBox(wires[p-1], wires[p]),
				Right: tyOf(append([]Ob(nil), wires[p+1:]...)...),
			})
			wires[p-1], wires[p] = wires[p], wires[p-1]
		}
	}
	return newDiagram(left.Tensor(right), right.Tensor(left), layers)
}

func checkPermutation(perm []int, n int) error {
	if len(perm) != n {
		return errors.Wrapf(ErrInvalidPermutation, "%v has length %d, expected %d", perm, len(perm), n)
	}
	seen := make([]bool, n)
	for _, p := range perm {
		if p < 0 || p >= n || seen[p] {
			return errors.Wrapf(ErrInvalidPermutation, "%v is not a bijection on %d wires", perm, n)
		}
		seen[p] = true
	}
	return nil
}

// Permutation returns the diagram sending wire perm[k] of dom to position k
// of its codomain.
//
// The first target wire is brought to the front across the block before it,
// then the rest is permuted recursively.
func Permutation(perm []int, dom Ty) (*Diagram, error) {
	if err := checkPermutation(perm, dom.Len()); err != nil {
		return nil, err
	}

	result := Id(dom)
	var done Ty
	rest := append([]int(nil), perm...)
	remaining := dom
	for len(rest) > 0 {
		i := rest[0]
		x := remaining.Slice(i, i+1)
		step := Id(done).Tensor(Swap(remaining.Slice(0, i), x), Id(remaining.Slice(i+1, remaining.Len())))
		result = Must(result.Then(step))

		next := make([]int, 0, len(rest)-1)
		for _, p := range rest[1:] {
			if p > i {
				p--
			}
			next = append(next, p)
		}
		rest = next
		done = done.Tensor(x)
		remaining = remaining.Slice(0, i).Tensor(remaining.Slice(i+1, remaining.Len()))
	}
	return result, nil
}

// Permute post-composes d with the permutation of its codomain.
func (d *Diagram) Permute(positions ...int) (*Diagram, error) {
	p, err := Permutation(positions, d.cod)
	if err != nil {
		return nil, err
	}
	return d.Then(p)
}

// Cups returns the nested cups from left @ right to the unit, pairing the
// last atom of left with the first atom of right.
func Cups(left, right Ty) (*Diagram, error) {
	if left.Len() != right.Len() {
		return nil, errors.Wrapf(ErrAxiom, "cannot pair %s with %s", left, right)
	}
	result := Id(left.Tensor(right))
	for left.Len() > 0 {
		n := left.Len()
		cup := Cup(left.At(n-1), right.At(0)).Diagram()
		step := Id(left.Slice(0, n-1)).Tensor(cup, Id(right.Slice(1, right.Len())))
		result = Must(result.Then(step))
		left, right = left.Slice(0, n-1), right.Slice(1, right.Len())
	}
	return result, nil
}

// Caps is the dagger of Cups.
func Caps(left, right Ty) (*Diagram, error) {
	cups, err := Cups(left, right)
	if err != nil {
		return nil, err
	}
	return cups.Dagger()
}

// Spiders returns the spider with nIn copies of ty as inputs and nOut copies
// as outputs, one atomic spider per atom of ty.
func Spiders(nIn, nOut int, ty Ty) *Diagram {
	k := ty.Len()
	if k == 1 {
		return Spider(nIn, nOut, ty.At(0)).Diagram()
	}

	// ty^n lists copies in order; group the copies of each atom together.
	group := func(n int) []int {
		perm := make([]int, 0, n*k)
		for a := 0; a < k; a++ {
			for c := 0; c < n; c++ {
				perm = append(perm, c*k+a)
			}
		}
		return perm
	}

	spiders := Id(Ty{})
	for a := 0; a < k; a++ {
		spiders = spiders.Tensor(Spider(nIn, nOut, ty.At(a)).Diagram())
	}
	before := Must(Permutation(group(nIn), ty.Pow(nIn)))
	after := Must(Permutation(group(nOut), ty.Pow(nOut)))
	after = Must(after.Dagger())
	return Must(before.Then(spiders, after))
}
