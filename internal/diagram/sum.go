package diagram

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/born-ml/braid/internal/tensor"
)

// Sum is a formal sum of diagrams sharing dom and cod.
// The empty sum is the zero morphism.
type Sum struct {
	dom   Ty
	cod   Ty
	terms []*Diagram
}

// NewSum checks that every term goes from dom to cod.
func NewSum(dom, cod Ty, terms ...*Diagram) (*Sum, error) {
	for i, t := range terms {
		if !t.dom.Equal(dom) || !t.cod.Equal(cod) {
			return nil, errors.Wrapf(ErrAxiom, "term %d is %s -> %s, expected %s -> %s",
				i, t.dom, t.cod, dom, cod)
		}
	}
	return &Sum{dom: dom, cod: cod, terms: append([]*Diagram(nil), terms...)}, nil
}

// Zero returns the empty sum from dom to cod.
func Zero(dom, cod Ty) *Sum {
	return &Sum{dom: dom, cod: cod}
}

func sumBox(dom, cod Ty, terms []*Diagram) *Box {
	return &Box{name: "Sum", dom: dom, cod: cod, kind: KindSum, terms: terms}
}

// Dom returns the domain.
func (s *Sum) Dom() Ty { return s.dom }

// Cod returns the codomain.
func (s *Sum) Cod() Ty { return s.cod }

// Len returns the number of terms.
func (s *Sum) Len() int { return len(s.terms) }

// Terms returns the summands.
func (s *Sum) Terms() []*Diagram {
	return append([]*Diagram(nil), s.terms...)
}

// Box returns s as a single box of kind Sum.
func (s *Sum) Box() *Box {
	return sumBox(s.dom, s.cod, s.Terms())
}

// Diagram returns the one-layer diagram holding s.Box().
func (s *Sum) Diagram() *Diagram {
	return s.Box().Diagram()
}

// Add concatenates the terms of s and others.
func (s *Sum) Add(others ...*Sum) (*Sum, error) {
	terms := s.Terms()
	for _, o := range others {
		if !o.dom.Equal(s.dom) || !o.cod.Equal(s.cod) {
			return nil, errors.Wrapf(ErrAxiom, "cannot add %s -> %s to %s -> %s", o.dom, o.cod, s.dom, s.cod)
		}
		terms = append(terms, o.terms...)
	}
	return &Sum{dom: s.dom, cod: s.cod, terms: terms}, nil
}

// Then distributes sequential composition over both sums.
func (s *Sum) Then(other *Sum) (*Sum, error) {
	if !s.cod.Equal(other.dom) {
		return nil, errCompose(s.cod, other.dom)
	}
	terms := make([]*Diagram, 0, len(s.terms)*len(other.terms))
	for _, f := range s.terms {
		for _, g := range other.terms {
			terms = append(terms, Must(f.Then(g)))
		}
	}
	return &Sum{dom: s.dom, cod: other.cod, terms: terms}, nil
}

// Tensor distributes parallel composition over both sums.
func (s *Sum) Tensor(other *Sum) *Sum {
	terms := make([]*Diagram, 0, len(s.terms)*len(other.terms))
	for _, f := range s.terms {
		for _, g := range other.terms {
			terms = append(terms, f.Tensor(g))
		}
	}
	return &Sum{dom: s.dom.Tensor(other.dom), cod: s.cod.Tensor(other.cod), terms: terms}
}

// Dagger takes the dagger of every term.
func (s *Sum) Dagger() (*Sum, error) {
	terms := make([]*Diagram, len(s.terms))
	for i, t := range s.terms {
		d, err := t.Dagger()
		if err != nil {
			return nil, err
		}
		terms[i] = d
	}
	return &Sum{dom: s.cod, cod: s.dom, terms: terms}, nil
}

// Subs substitutes symbols in every term.
func (s *Sum) Subs(assignment map[string]tensor.Scalar) *Sum {
	terms := make([]*Diagram, len(s.terms))
	for i, t := range s.terms {
		terms[i] = t.Subs(assignment)
	}
	return &Sum{dom: s.dom, cod: s.cod, terms: terms}
}

// FreeSymbols returns the sorted symbols of all terms.
func (s *Sum) FreeSymbols() []string {
	var out []string
	for _, t := range s.terms {
		out = append(out, t.FreeSymbols()...)
	}
	return uniqueSorted(out)
}

// Equal compares the terms as a multiset of diagrams up to the axioms.
func (s *Sum) Equal(other *Sum) bool {
	if !s.dom.Equal(other.dom) || !s.cod.Equal(other.cod) || len(s.terms) != len(other.terms) {
		return false
	}
	a, b := s.termKeys(), other.termKeys()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s *Sum) termKeys() []string {
	keys := make([]string, len(s.terms))
	for i, t := range s.terms {
		keys[i] = t.canonicalKey()
	}
	sort.Strings(keys)
	return keys
}

// String renders the terms joined by " + ".
func (s *Sum) String() string {
	if len(s.terms) == 0 {
		return "Sum(" + s.dom.String() + ", " + s.cod.String() + ")"
	}
	parts := make([]string, len(s.terms))
	for i, t := range s.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}
