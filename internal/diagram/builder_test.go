package diagram

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	f := NewBox("f", x, y)
	g := NewBox("g", z.Tensor(y), w)

	// (x, z) -> g(z, f(x))
	d, err := Compile(x.Tensor(z), w, func(b *Builder, in ...Wire) ([]Wire, error) {
		fx, err := b.Apply(f, in[0])
		if err != nil {
			return nil, err
		}
		return b.Apply(g, in[1], fx[0])
	})
	require.NoError(t, err)

	expected := then(t, f.Diagram().Tensor(Id(z)), Swap(y, z), g.Diagram())
	assert.True(t, d.Equal(expected))
}

func TestCompile_Swap(t *testing.T) {
	d, err := Compile(x.Tensor(y), y.Tensor(x), func(b *Builder, in ...Wire) ([]Wire, error) {
		return b.Apply(SwapBox(x.At(0), y.At(0)), in...)
	})
	require.NoError(t, err)
	assert.True(t, d.Equal(Swap(x, y)))
}

func TestCompile_NoCopy(t *testing.T) {
	g := NewBox("g", x.Tensor(x), y)

	_, err := Compile(x, y, func(b *Builder, in ...Wire) ([]Wire, error) {
		return b.Apply(g, in[0], in[0])
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAxiom))
	assert.Contains(t, err.Error(), "does not have copy or discard")
}

func TestCompile_NoDiscard(t *testing.T) {
	_, err := Compile(x.Tensor(y), y, func(b *Builder, in ...Wire) ([]Wire, error) {
		return in[1:], nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAxiom))
	assert.Contains(t, err.Error(), "x does not have copy or discard")
}

func TestCompile_TypeMismatch(t *testing.T) {
	f := NewBox("f", x, y)
	_, err := Compile(z, y, func(b *Builder, in ...Wire) ([]Wire, error) {
		return b.Apply(f, in...)
	})
	assert.True(t, errors.Is(err, ErrAxiom))
}

func TestRequireCopy(t *testing.T) {
	assert.NoError(t, RequireCopy(MustTy()))
	assert.True(t, errors.Is(RequireCopy(x), ErrAxiom))
}
