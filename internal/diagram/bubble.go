package diagram

import (
	"math/cmplx"
	"strconv"

	"github.com/pkg/errors"

	"github.com/born-ml/braid/internal/tensor"
)

// Func is a scalar function applied entry by entry inside a bubble.
// Funcs are identified by name and must commute with complex conjugation.
type Func struct {
	name       string
	apply      func(tensor.Scalar) (tensor.Scalar, error)
	derivative func() *Func
}

// NewFunc names apply. A nil derivative leaves the gradient of any bubble
// using the Func unevaluable.
func NewFunc(name string, apply func(tensor.Scalar) (tensor.Scalar, error), derivative func() *Func) *Func {
	return &Func{name: name, apply: apply, derivative: derivative}
}

// Name returns the name.
func (f *Func) Name() string { return f.name }

// Apply evaluates f at x.
func (f *Func) Apply(x tensor.Scalar) (tensor.Scalar, error) {
	return f.apply(x)
}

// Derivative returns f'.
func (f *Func) Derivative() *Func {
	if f.derivative != nil {
		return f.derivative()
	}
	return NewFunc("d"+f.name, func(tensor.Scalar) (tensor.Scalar, error) {
		return nil, errors.Wrapf(ErrMissingMapping, "%s has no derivative", f.name)
	}, nil)
}

// Monomial is x -> c * x^n. It works on symbolic entries.
func Monomial(c float64, n int) *Func {
	return NewFunc(monomialName(c, n), func(x tensor.Scalar) (tensor.Scalar, error) {
		out := tensor.Scalar(tensor.Complex(complex(c, 0)))
		for i := 0; i < n; i++ {
			out = out.Mul(x)
		}
		return out, nil
	}, func() *Func {
		if n == 0 {
			return Monomial(0, 0)
		}
		return Monomial(c*float64(n), n-1)
	})
}

func monomialName(c float64, n int) string {
	coeff := strconv.FormatFloat(c, 'g', -1, 64)
	switch {
	case n == 0 || c == 0:
		return coeff
	case n == 1 && c == 1:
		return "x"
	case n == 1:
		return coeff + "*x"
	case c == 1:
		return "x^" + strconv.Itoa(n)
	}
	return coeff + "*x^" + strconv.Itoa(n)
}

// Exp is the exponential. Symbolic entries are rejected.
func Exp() *Func {
	return NewFunc("exp", func(x tensor.Scalar) (tensor.Scalar, error) {
		v, ok := tensor.ValueOf(x)
		if !ok {
			return nil, errors.Wrapf(ErrTypeMismatch, "exp of symbolic entry %s", x)
		}
		return tensor.Complex(cmplx.Exp(v)), nil
	}, Exp)
}

// Not sends zero to one and everything else to zero.
func Not() *Func {
	return NewFunc("not", func(x tensor.Scalar) (tensor.Scalar, error) {
		if x.IsZero() {
			return tensor.Complex(1), nil
		}
		return tensor.Complex(0), nil
	}, func() *Func { return Monomial(0, 0) })
}

// Bubble applies fn to every entry of the evaluation of inside. The box has
// the type of inside.
func Bubble(inside *Diagram, fn *Func) *Box {
	return &Box{name: fn.Name(), dom: inside.dom, cod: inside.cod, kind: KindBubble, inside: inside, fn: fn}
}

// Bubble wraps d in a bubble applying fn.
func (d *Diagram) Bubble(fn *Func) *Diagram {
	return Bubble(d, fn).Diagram()
}

// Inside returns the diagram wrapped by a bubble, nil for other kinds.
func (b *Box) Inside() *Diagram { return b.inside }

// Func returns the function of a bubble, nil for other kinds.
func (b *Box) Func() *Func { return b.fn }

// bubbleGrad is the chain rule: the entries of fn'(inside) multiplied by
// those of the derivative of inside, paired up by spiders on both sides.
func (b *Box) bubbleGrad(symbol string) []*Diagram {
	inner := b.inside.Grad(symbol)
	if inner.Len() == 0 {
		return nil
	}
	prime := b.inside.Bubble(b.fn.Derivative())
	body := prime.Tensor(inner.Diagram())
	return []*Diagram{Must(Spiders(1, 2, b.dom).Then(body, Spiders(2, 1, b.cod)))}
}
