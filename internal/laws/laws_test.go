package laws

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/braid/internal/diagram"
	"github.com/born-ml/braid/internal/functor"
)

func symbolicSample() Sample {
	x, y, z, w := diagram.MustTy("x"), diagram.MustTy("y"), diagram.MustTy("z"), diagram.MustTy("w")
	return Sample{
		F: diagram.NewBox("f", x, y).Diagram(),
		G: diagram.NewBox("g", y, z.Tensor(x)).Diagram(),
		H: diagram.NewBox("h", z.Tensor(x), w).Diagram(),
	}
}

func TestCheck_Structural(t *testing.T) {
	c := &Checker{}
	results, err := c.Check(symbolicSample())
	require.NoError(t, err)
	require.Len(t, results, len(Names()))

	for _, r := range results {
		assert.NoError(t, r.Err, r.Law)
		assert.True(t, r.Exact, r.Law)
	}
	assert.Empty(t, Failed(results))
}

func TestCheck_Semantic(t *testing.T) {
	c := &Checker{Functor: functor.New(), Tolerance: 1e-9}
	results, err := c.Check(DefaultSample())
	require.NoError(t, err)

	for _, r := range results {
		assert.True(t, r.OK(), "%s: %v", r.Law, r.Err)
	}
}

func TestCheck_SemanticMultiLeg(t *testing.T) {
	s := MultiLegSample()
	require.Equal(t, 2, s.F.Dom().Len())
	require.Equal(t, 2, s.H.Cod().Len())

	c := &Checker{Functor: functor.New(), Tolerance: 1e-9}
	results, err := c.Check(s)
	require.NoError(t, err)
	for _, r := range results {
		assert.True(t, r.OK(), "%s: %v", r.Law, r.Err)
		assert.True(t, r.Exact, r.Law)
	}
}

func TestCheck_SemanticNeedsArrays(t *testing.T) {
	c := &Checker{Functor: functor.New(), Tolerance: 1e-9}
	results, err := c.Check(symbolicSample())
	require.NoError(t, err)

	failed := Failed(results)
	require.NotEmpty(t, failed)
	for _, r := range failed {
		assert.True(t, r.Exact, "structural check should pass for %s", r.Law)
		assert.True(t, errors.Is(r.Err, diagram.ErrMissingMapping), r.Law)
	}
}

func TestCheck_UnknownDagger(t *testing.T) {
	s := symbolicSample()
	x, y := diagram.MustTy("x"), diagram.MustTy("y")
	s.F = diagram.NewBox("f", x, y, diagram.WithDagger(diagram.DaggerUnknown)).Diagram()

	results, err := (&Checker{}).Check(s)
	require.NoError(t, err)

	var names []string
	for _, r := range Failed(results) {
		names = append(names, r.Law)
		assert.True(t, errors.Is(r.Err, diagram.ErrAxiom))
	}
	assert.Equal(t, []string{"dagger/involution", "dagger/then"}, names)
}

func TestCheck_Violation(t *testing.T) {
	s := symbolicSample()
	broken := law{"broken", func(s Sample) (*diagram.Diagram, *diagram.Diagram, error) {
		return s.F, diagram.NewBox("f'", s.F.Dom(), s.F.Cod()).Diagram(), nil
	}}

	r := (&Checker{}).run(broken, s)
	assert.False(t, r.OK())
	assert.False(t, r.Exact)
	assert.True(t, errors.Is(r.Err, ErrViolated))
	assert.Contains(t, r.Err.Error(), "broken")
}

func TestCheck_InvalidSample(t *testing.T) {
	s := symbolicSample()
	s.G, s.H = s.H, s.G

	_, err := (&Checker{}).Check(s)
	assert.True(t, errors.Is(err, diagram.ErrTypeMismatch))

	_, err = (&Checker{}).Check(Sample{})
	assert.Error(t, err)
}
