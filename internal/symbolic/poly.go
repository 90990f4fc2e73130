// Package symbolic implements tensor.Scalar with multivariate complex polynomials.
//
// Conjugated symbols are independent variables: the derivative of conj(x)
// with respect to x is zero.
package symbolic

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/born-ml/braid/internal/tensor"
)

// factor is one symbol, possibly conjugated.
type factor struct {
	name string
	conj bool
}

func (f factor) String() string {
	if f.conj {
		return "conj(" + f.name + ")"
	}
	return f.name
}

func (f factor) less(g factor) bool {
	if f.name != g.name {
		return f.name < g.name
	}
	return !f.conj && g.conj
}

// monomial is a product of factors, each with a positive power, sorted by factor.
type monomial struct {
	factors []factor
	powers  []int
}

func (m monomial) key() string {
	var sb strings.Builder
	for i, f := range m.factors {
		if i > 0 {
			sb.WriteByte('*')
		}
		sb.WriteString(f.String())
		if m.powers[i] > 1 {
			sb.WriteString("**")
			sb.WriteString(strconv.Itoa(m.powers[i]))
		}
	}
	return sb.String()
}

func (m monomial) times(o monomial) monomial {
	out := monomial{}
	i, j := 0, 0
	for i < len(m.factors) || j < len(o.factors) {
		switch {
		case j == len(o.factors) || (i < len(m.factors) && m.factors[i].less(o.factors[j])):
			out.factors = append(out.factors, m.factors[i])
			out.powers = append(out.powers, m.powers[i])
			i++
		case i == len(m.factors) || o.factors[j].less(m.factors[i]):
			out.factors = append(out.factors, o.factors[j])
			out.powers = append(out.powers, o.powers[j])
			j++
		default:
			out.factors = append(out.factors, m.factors[i])
			out.powers = append(out.powers, m.powers[i]+o.powers[j])
			i++
			j++
		}
	}
	return out
}

func (m monomial) conj() monomial {
	out := monomial{
		factors: make([]factor, len(m.factors)),
		powers:  append([]int(nil), m.powers...),
	}
	for i, f := range m.factors {
		out.factors[i] = factor{name: f.name, conj: !f.conj}
	}
	sortMonomial(&out)
	return out
}

func sortMonomial(m *monomial) {
	idx := make([]int, len(m.factors))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return m.factors[idx[a]].less(m.factors[idx[b]]) })
	factors := make([]factor, len(idx))
	powers := make([]int, len(idx))
	for i, k := range idx {
		factors[i], powers[i] = m.factors[k], m.powers[k]
	}
	m.factors, m.powers = factors, powers
}

type term struct {
	coeff complex128
	mono  monomial
}

// Poly is an immutable polynomial in named complex symbols.
type Poly struct {
	terms map[string]term
}

var _ tensor.Scalar = Poly{}

// Var returns the polynomial consisting of the single symbol name.
func Var(name string) Poly {
	m := monomial{factors: []factor{{name: name}}, powers: []int{1}}
	return Poly{terms: map[string]term{m.key(): {coeff: 1, mono: m}}}
}

// Const returns the constant polynomial c.
func Const(c complex128) Poly {
	if c == 0 {
		return Poly{}
	}
	return Poly{terms: map[string]term{"": {coeff: c}}}
}

// From converts a Scalar into a Poly.
func From(s tensor.Scalar) (Poly, error) {
	switch v := s.(type) {
	case Poly:
		return v, nil
	case tensor.Complex:
		return Const(complex128(v)), nil
	}
	if c, ok := tensor.ValueOf(s); ok {
		return Const(c), nil
	}
	return Poly{}, errors.Errorf("symbolic: cannot convert %T to a polynomial", s)
}

func mustFrom(s tensor.Scalar) Poly {
	p, err := From(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Poly) add(q Poly) Poly {
	out := make(map[string]term, len(p.terms)+len(q.terms))
	for k, t := range p.terms {
		out[k] = t
	}
	for k, t := range q.terms {
		if prev, ok := out[k]; ok {
			t.coeff += prev.coeff
		}
		if t.coeff == 0 {
			delete(out, k)
			continue
		}
		out[k] = t
	}
	return Poly{terms: out}
}

func (p Poly) mul(q Poly) Poly {
	acc := Poly{}
	for _, a := range p.terms {
		for _, b := range q.terms {
			m := a.mono.times(b.mono)
			acc = acc.add(Poly{terms: map[string]term{m.key(): {coeff: a.coeff * b.coeff, mono: m}}})
		}
	}
	return acc
}

// Add implements tensor.Scalar.
func (p Poly) Add(other tensor.Scalar) tensor.Scalar {
	return p.add(mustFrom(other)).simplest()
}

// Mul implements tensor.Scalar.
func (p Poly) Mul(other tensor.Scalar) tensor.Scalar {
	return p.mul(mustFrom(other)).simplest()
}

// Conj implements tensor.Scalar.
func (p Poly) Conj() tensor.Scalar {
	out := make(map[string]term, len(p.terms))
	for _, t := range p.terms {
		m := t.mono.conj()
		out[m.key()] = term{coeff: complex(real(t.coeff), -imag(t.coeff)), mono: m}
	}
	return Poly{terms: out}.simplest()
}

// IsZero implements tensor.Scalar.
func (p Poly) IsZero() bool {
	return len(p.terms) == 0
}

// Value implements tensor.Valuer: constants reduce to numbers.
func (p Poly) Value() (complex128, bool) {
	switch len(p.terms) {
	case 0:
		return 0, true
	case 1:
		if t, ok := p.terms[""]; ok {
			return t.coeff, true
		}
	}
	return 0, false
}

// simplest returns a plain number when p is constant.
func (p Poly) simplest() tensor.Scalar {
	if v, ok := p.Value(); ok {
		return tensor.Complex(v)
	}
	return p
}

// FreeSymbols implements tensor.SymbolHolder.
func (p Poly) FreeSymbols() []string {
	seen := make(map[string]struct{})
	for _, t := range p.terms {
		for _, f := range t.mono.factors {
			seen[f.name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Subs implements tensor.Substituter. Unassigned symbols stay symbolic.
func (p Poly) Subs(assignment map[string]tensor.Scalar) tensor.Scalar {
	var acc tensor.Scalar = tensor.Complex(0)
	for _, k := range p.sortedKeys() {
		t := p.terms[k]
		var prod tensor.Scalar = tensor.Complex(t.coeff)
		for i, f := range t.mono.factors {
			var v tensor.Scalar
			if a, ok := assignment[f.name]; ok {
				v = a
				if f.conj {
					v = v.Conj()
				}
			} else {
				v = Poly{terms: map[string]term{f.String(): {coeff: 1, mono: monomial{factors: []factor{f}, powers: []int{1}}}}}
			}
			for n := 0; n < t.mono.powers[i]; n++ {
				prod = prod.Mul(v)
			}
		}
		acc = acc.Add(prod)
	}
	return acc
}

// Diff implements tensor.Differentiable.
func (p Poly) Diff(symbol string) tensor.Scalar {
	acc := Poly{}
	target := factor{name: symbol}
	for _, t := range p.terms {
		for i, f := range t.mono.factors {
			if f != target {
				continue
			}
			m := monomial{
				factors: append([]factor(nil), t.mono.factors...),
				powers:  append([]int(nil), t.mono.powers...),
			}
			power := m.powers[i]
			if power == 1 {
				m.factors = append(m.factors[:i], m.factors[i+1:]...)
				m.powers = append(m.powers[:i], m.powers[i+1:]...)
			} else {
				m.powers[i]--
			}
			acc = acc.add(Poly{terms: map[string]term{m.key(): {coeff: t.coeff * complex(float64(power), 0), mono: m}}})
		}
	}
	return acc.simplest()
}

func (p Poly) sortedKeys() []string {
	keys := make([]string, 0, len(p.terms))
	for k := range p.terms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders terms in a stable order, e.g. "2*x*conj(y) + 1".
func (p Poly) String() string {
	if len(p.terms) == 0 {
		return "0"
	}
	parts := make([]string, 0, len(p.terms))
	for _, k := range p.sortedKeys() {
		t := p.terms[k]
		coeff := tensor.Complex(t.coeff).String()
		switch {
		case k == "":
			parts = append(parts, coeff)
		case t.coeff == 1:
			parts = append(parts, k)
		default:
			parts = append(parts, coeff+"*"+k)
		}
	}
	return strings.Join(parts, " + ")
}
