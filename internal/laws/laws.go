// Package laws checks the axioms of symmetric monoidal categories on
// concrete generators.
//
// Every law is an equation between two diagrams. It holds structurally when
// both sides have the same canonical form, and semantically when a functor
// sends both sides to tensors that agree within a tolerance.
package laws

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/born-ml/braid/internal/diagram"
	"github.com/born-ml/braid/internal/functor"
	"github.com/born-ml/braid/internal/log"
	"github.com/born-ml/braid/internal/tensor"
)

var logger = log.For("laws")

// ErrViolated is returned when the two sides of a law differ.
var ErrViolated = errors.New("law violated")

// Sample holds composable generators f: a -> b, g: b -> c and h: c -> d.
type Sample struct {
	F *diagram.Diagram
	G *diagram.Diagram
	H *diagram.Diagram
}

func (s Sample) validate() error {
	if s.F == nil || s.G == nil || s.H == nil {
		return errors.New("sample needs three generators")
	}
	if !s.F.Cod().Equal(s.G.Dom()) || !s.G.Cod().Equal(s.H.Dom()) {
		return errors.Wrapf(diagram.ErrTypeMismatch, "generators do not compose: %s, %s, %s", s.F, s.G, s.H)
	}
	return nil
}

// Result is the outcome of one law.
type Result struct {
	Law   string
	Err   error
	Exact bool // structural check ran and passed
}

// OK reports whether the law held.
func (r Result) OK() bool { return r.Err == nil }

// Checker runs laws. A nil Functor skips the semantic check.
type Checker struct {
	Functor   *functor.Functor
	Tolerance float64
}

// law produces the two sides of an equation.
type law struct {
	name  string
	sides func(s Sample) (lhs, rhs *diagram.Diagram, err error)
}

func then(d *diagram.Diagram, others ...*diagram.Diagram) (*diagram.Diagram, error) {
	return d.Then(others...)
}

var all = []law{
	{"then/associativity", func(s Sample) (*diagram.Diagram, *diagram.Diagram, error) {
		fg, err := then(s.F, s.G)
		if err != nil {
			return nil, nil, err
		}
		gh, err := then(s.G, s.H)
		if err != nil {
			return nil, nil, err
		}
		lhs, err := then(fg, s.H)
		if err != nil {
			return nil, nil, err
		}
		rhs, err := then(s.F, gh)
		return lhs, rhs, err
	}},
	{"then/identity", func(s Sample) (*diagram.Diagram, *diagram.Diagram, error) {
		lhs, err := then(diagram.Id(s.F.Dom()), s.F, diagram.Id(s.F.Cod()))
		return lhs, s.F, err
	}},
	{"tensor/associativity", func(s Sample) (*diagram.Diagram, *diagram.Diagram, error) {
		return s.F.Tensor(s.G).Tensor(s.H), s.F.Tensor(s.G.Tensor(s.H)), nil
	}},
	{"tensor/unit", func(s Sample) (*diagram.Diagram, *diagram.Diagram, error) {
		unit := diagram.Id(diagram.MustTy())
		return unit.Tensor(s.G, unit), s.G, nil
	}},
	{"interchange", func(s Sample) (*diagram.Diagram, *diagram.Diagram, error) {
		lhs, err := then(s.F.Tensor(diagram.Id(s.H.Dom())), diagram.Id(s.F.Cod()).Tensor(s.H))
		if err != nil {
			return nil, nil, err
		}
		rhs, err := then(diagram.Id(s.F.Dom()).Tensor(s.H), s.F.Tensor(diagram.Id(s.H.Cod())))
		return lhs, rhs, err
	}},
	{"swap/involution", func(s Sample) (*diagram.Diagram, *diagram.Diagram, error) {
		a, b := s.F.Dom(), s.G.Dom()
		lhs, err := then(diagram.Swap(a, b), diagram.Swap(b, a))
		return lhs, diagram.Id(a.Tensor(b)), err
	}},
	{"swap/unit", func(s Sample) (*diagram.Diagram, *diagram.Diagram, error) {
		a := s.F.Dom()
		return diagram.Swap(a, diagram.MustTy()), diagram.Id(a), nil
	}},
	{"swap/naturality", func(s Sample) (*diagram.Diagram, *diagram.Diagram, error) {
		lhs, err := then(s.F.Tensor(s.G), diagram.Swap(s.F.Cod(), s.G.Cod()))
		if err != nil {
			return nil, nil, err
		}
		rhs, err := then(diagram.Swap(s.F.Dom(), s.G.Dom()), s.G.Tensor(s.F))
		return lhs, rhs, err
	}},
	{"swap/hexagon", func(s Sample) (*diagram.Diagram, *diagram.Diagram, error) {
		a, b, c := s.F.Dom(), s.G.Dom(), s.H.Dom()
		rhs, err := then(
			diagram.Swap(a, b).Tensor(diagram.Id(c)),
			diagram.Id(b).Tensor(diagram.Swap(a, c)),
		)
		return diagram.Swap(a, b.Tensor(c)), rhs, err
	}},
	{"swap/yang-baxter", func(s Sample) (*diagram.Diagram, *diagram.Diagram, error) {
		a, b, c := s.F.Dom(), s.G.Dom(), s.H.Dom()
		lhs, err := then(
			diagram.Swap(a, b).Tensor(diagram.Id(c)),
			diagram.Id(b).Tensor(diagram.Swap(a, c)),
			diagram.Swap(b, c).Tensor(diagram.Id(a)),
		)
		if err != nil {
			return nil, nil, err
		}
		rhs, err := then(
			diagram.Id(a).Tensor(diagram.Swap(b, c)),
			diagram.Swap(a, c).Tensor(diagram.Id(b)),
			diagram.Id(c).Tensor(diagram.Swap(a, b)),
		)
		return lhs, rhs, err
	}},
	{"dagger/involution", func(s Sample) (*diagram.Diagram, *diagram.Diagram, error) {
		once, err := s.F.Dagger()
		if err != nil {
			return nil, nil, err
		}
		twice, err := once.Dagger()
		return twice, s.F, err
	}},
	{"dagger/then", func(s Sample) (*diagram.Diagram, *diagram.Diagram, error) {
		fg, err := then(s.F, s.G)
		if err != nil {
			return nil, nil, err
		}
		lhs, err := fg.Dagger()
		if err != nil {
			return nil, nil, err
		}
		gd, err := s.G.Dagger()
		if err != nil {
			return nil, nil, err
		}
		fd, err := s.F.Dagger()
		if err != nil {
			return nil, nil, err
		}
		rhs, err := then(gd, fd)
		return lhs, rhs, err
	}},
	{"simplify/round-trip", func(s Sample) (*diagram.Diagram, *diagram.Diagram, error) {
		d, err := then(diagram.Swap(s.F.Dom(), s.G.Dom()), s.G.Tensor(s.F), diagram.Swap(s.G.Cod(), s.F.Cod()))
		if err != nil {
			return nil, nil, err
		}
		return d.Simplify(), d, nil
	}},
}

// Names lists the laws in the order Check runs them.
func Names() []string {
	names := make([]string, len(all))
	for i, l := range all {
		names[i] = l.name
	}
	return names
}

// Check runs every law on s.
func (c *Checker) Check(s Sample) ([]Result, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(all))
	for _, l := range all {
		r := c.run(l, s)
		logger.Debug("checked", "law", r.Law, "ok", r.OK())
		results = append(results, r)
	}
	return results, nil
}

func (c *Checker) run(l law, s Sample) Result {
	r := Result{Law: l.name}
	lhs, rhs, err := l.sides(s)
	if err != nil {
		r.Err = errors.Wrap(err, l.name)
		return r
	}
	if !lhs.Equal(rhs) {
		r.Err = errors.Wrapf(ErrViolated, "%s: %s != %s", l.name, lhs, rhs)
		return r
	}
	r.Exact = true

	if c.Functor == nil {
		return r
	}
	left, err := c.Functor.Apply(lhs)
	if err != nil {
		r.Err = errors.Wrap(err, l.name)
		return r
	}
	right, err := c.Functor.Apply(rhs)
	if err != nil {
		r.Err = errors.Wrap(err, l.name)
		return r
	}
	if !left.AllClose(right, c.Tolerance) {
		r.Err = errors.Wrapf(ErrViolated, "%s: evaluations differ", l.name)
	}
	return r
}

// Failed returns the results whose law did not hold.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// DefaultSample builds generators on dimensions 2, 3 and 2 with dense
// arrays filled with 1, 2, 3, ...
func DefaultSample() Sample {
	a, b, c, d := diagram.MustDim(2), diagram.MustDim(3), diagram.MustDim(2), diagram.MustDim(4)
	return Sample{
		F: countingBox("f", a, b),
		G: countingBox("g", b, c),
		H: countingBox("h", c, d),
	}
}

// MultiLegSample builds generators with several legs on each side, so the
// swap laws permute more than one wire at a time.
func MultiLegSample() Sample {
	two, three := diagram.MustDim(2), diagram.MustDim(3)
	return Sample{
		F: countingBox("f", two.Tensor(three), three),
		G: countingBox("g", three, two.Tensor(two)),
		H: countingBox("h", two.Tensor(two), three.Tensor(two)),
	}
}

func countingBox(name string, dom, cod diagram.Ty) *diagram.Diagram {
	n := 1
	for _, k := range dom.Tensor(cod).Dims() {
		n *= k
	}
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i + 1)
	}
	raw, err := tensor.FromFloat64(tensor.Shape{n}, data...)
	if err != nil {
		panic(fmt.Sprintf("laws: %v", err))
	}
	return diagram.NewBox(name, dom, cod, diagram.WithData(diagram.NewArray(raw))).Diagram()
}
