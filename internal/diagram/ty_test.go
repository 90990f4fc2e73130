package diagram

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTy(t *testing.T) {
	x := MustTy("x")
	xy, err := NewTy(x, "y", Ob{Name: "z", Dim: 3})
	require.NoError(t, err)

	assert.Equal(t, 3, xy.Len())
	assert.Equal(t, "x @ y @ z", xy.String())
	assert.Equal(t, Ob{Name: "z", Dim: 3}, xy.At(2))
	assert.False(t, xy.IsDim())
	assert.Equal(t, "Ty()", MustTy().String())
}

func TestNewTy_Errors(t *testing.T) {
	_, err := NewTy("x", 1.5)
	assert.True(t, errors.Is(err, ErrTypeMismatch))

	_, err = NewTy(Ob{Name: "x", Dim: -2})
	assert.True(t, errors.Is(err, ErrInvalidDimension))

	_, err = NewDim(2, 0)
	assert.True(t, errors.Is(err, ErrInvalidDimension))
}

func TestNewDim_ElidesOnes(t *testing.T) {
	d := MustDim(2, 1, 3, 1)
	assert.True(t, d.IsDim())
	if diff := cmp.Diff([]int{2, 3}, d.Dims()); diff != "" {
		t.Errorf("Dims mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, MustDim(1, 1).Len())
}

func TestTy_Monoid(t *testing.T) {
	x, y, z := MustTy("x"), MustTy("y"), MustTy("z")
	unit := MustTy()

	assert.True(t, x.Tensor(y).Tensor(z).Equal(x.Tensor(y.Tensor(z))))
	assert.True(t, unit.Tensor(x).Equal(x))
	assert.True(t, x.Tensor(unit).Equal(x))
	assert.False(t, x.Tensor(y).Equal(y.Tensor(x)))
}

func TestTy_SliceReversePow(t *testing.T) {
	xyz := MustTy("x", "y", "z")
	assert.Equal(t, "y @ z", xyz.Slice(1, 3).String())
	assert.Equal(t, "z @ y @ x", xyz.Reverse().String())
	assert.Equal(t, "x @ y @ z", xyz.String(), "Reverse must not modify its receiver")
	assert.Equal(t, "x @ x @ x", MustTy("x").Pow(3).String())

	// Appending to a slice must not leak into the original.
	head := xyz.Slice(0, 1)
	_ = head.Tensor(MustTy("w"))
	assert.Equal(t, "x @ y @ z", xyz.String())
}
