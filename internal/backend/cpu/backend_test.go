package cpu

import (
	"math/cmplx"
	"testing"

	"github.com/born-ml/braid/internal/parallel"
	"github.com/born-ml/braid/internal/symbolic"
	"github.com/born-ml/braid/internal/tensor"
)

// Helper to create test backend.
func newTestBackend() *CPUBackend {
	return New()
}

// Helper to check float64 slices are equal within epsilon.
func float64SliceEqual(a, b []float64) bool {
	const epsilon = 1e-12
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		diff := a[i] - b[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > epsilon {
			return false
		}
	}
	return true
}

func complex128SliceEqual(a, b []complex128) bool {
	const epsilon = 1e-12
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if cmplx.Abs(a[i]-b[i]) > epsilon {
			return false
		}
	}
	return true
}

func mustFloat64(t *testing.T, shape tensor.Shape, data ...float64) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromFloat64(shape, data...)
	if err != nil {
		t.Fatalf("FromFloat64 failed: %v", err)
	}
	return raw
}

// TestCPUBackend_New tests backend creation.
func TestCPUBackend_New(t *testing.T) {
	backend := New()
	if backend == nil {
		t.Fatal("New() returned nil")
	}
	if backend.Name() != "CPU" {
		t.Errorf("Expected name 'CPU', got '%s'", backend.Name())
	}
	if backend.Device() != tensor.CPU {
		t.Errorf("Expected device CPU, got %v", backend.Device())
	}
}

func TestCPUBackend_Eye(t *testing.T) {
	backend := newTestBackend()

	eye := backend.Eye(3, tensor.Float64)
	expected := []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	if !float64SliceEqual(eye.AsFloat64(), expected) {
		t.Errorf("Expected %v, got %v", expected, eye.AsFloat64())
	}

	c := backend.Eye(2, tensor.Complex128)
	if !complex128SliceEqual(c.AsComplex128(), []complex128{1, 0, 0, 1}) {
		t.Errorf("Unexpected complex identity %v", c.AsComplex128())
	}
}

func TestCPUBackend_Diagonal(t *testing.T) {
	backend := newTestBackend()

	t.Run("ThreeLegs", func(t *testing.T) {
		d := backend.Diagonal(3, 2, tensor.Float64)
		if !d.Shape().Equal(tensor.Shape{2, 2, 2}) {
			t.Fatalf("Expected shape [2 2 2], got %v", d.Shape())
		}
		expected := []float64{1, 0, 0, 0, 0, 0, 0, 1}
		if !float64SliceEqual(d.AsFloat64(), expected) {
			t.Errorf("Expected %v, got %v", expected, d.AsFloat64())
		}
	})

	t.Run("NoLegs", func(t *testing.T) {
		d := backend.Diagonal(0, 2, tensor.Float64)
		if len(d.Shape()) != 0 {
			t.Fatalf("Expected scalar, got shape %v", d.Shape())
		}
		if d.AsFloat64()[0] != 1 {
			t.Errorf("Expected 1, got %v", d.AsFloat64()[0])
		}
	})

	t.Run("TwoLegsIsIdentity", func(t *testing.T) {
		d := backend.Diagonal(2, 3, tensor.Float64)
		eye := backend.Eye(3, tensor.Float64)
		if d.Key() != eye.Key() {
			t.Errorf("Expected %s, got %s", eye.Key(), d.Key())
		}
	})
}

func TestCPUBackend_Reshape(t *testing.T) {
	backend := newTestBackend()
	a := mustFloat64(t, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)

	result := backend.Reshape(a, tensor.Shape{3, 2})
	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Errorf("Expected shape [3 2], got %v", result.Shape())
	}
	if !float64SliceEqual(result.AsFloat64(), a.AsFloat64()) {
		t.Errorf("Reshape changed data: %v", result.AsFloat64())
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for incompatible reshape")
		}
	}()
	backend.Reshape(a, tensor.Shape{4})
}

func TestCPUBackend_Transpose(t *testing.T) {
	backend := newTestBackend()

	t.Run("Matrix", func(t *testing.T) {
		a := mustFloat64(t, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)
		result := backend.Transpose(a)
		if !result.Shape().Equal(tensor.Shape{3, 2}) {
			t.Fatalf("Expected shape [3 2], got %v", result.Shape())
		}
		expected := []float64{1, 4, 2, 5, 3, 6}
		if !float64SliceEqual(result.AsFloat64(), expected) {
			t.Errorf("Expected %v, got %v", expected, result.AsFloat64())
		}
	})

	t.Run("ThreeD", func(t *testing.T) {
		a := mustFloat64(t, tensor.Shape{2, 2, 2}, 0, 1, 2, 3, 4, 5, 6, 7)
		result := backend.Transpose(a, 1, 2, 0)
		if !result.Shape().Equal(tensor.Shape{2, 2, 2}) {
			t.Fatalf("Expected shape [2 2 2], got %v", result.Shape())
		}
		// result[i,j,k] = a[k,i,j]
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				for k := 0; k < 2; k++ {
					got := result.At(i, j, k)
					want := a.At(k, i, j)
					if got != want {
						t.Errorf("At(%d,%d,%d): expected %v, got %v", i, j, k, want, got)
					}
				}
			}
		}
	})

	t.Run("Identity", func(t *testing.T) {
		a := mustFloat64(t, tensor.Shape{2, 2}, 1, 2, 3, 4)
		result := backend.Transpose(a, 0, 1)
		if !float64SliceEqual(result.AsFloat64(), a.AsFloat64()) {
			t.Errorf("Identity transpose changed data: %v", result.AsFloat64())
		}
	})

	t.Run("DuplicateAxisPanics", func(t *testing.T) {
		a := mustFloat64(t, tensor.Shape{2, 2}, 1, 2, 3, 4)
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic for duplicate axes")
			}
		}()
		backend.Transpose(a, 0, 0)
	})
}

func TestCPUBackend_MoveAxis(t *testing.T) {
	backend := newTestBackend()
	a := mustFloat64(t, tensor.Shape{2, 3, 4}, make([]float64, 24)...)
	for i := range a.AsFloat64() {
		a.AsFloat64()[i] = float64(i)
	}

	tests := []struct {
		name        string
		source      []int
		destination []int
		shape       tensor.Shape
	}{
		{"FirstToLast", []int{0}, []int{2}, tensor.Shape{3, 4, 2}},
		{"LastToFirst", []int{2}, []int{0}, tensor.Shape{4, 2, 3}},
		{"SwapPair", []int{0, 1}, []int{1, 0}, tensor.Shape{3, 2, 4}},
		{"Noop", nil, nil, tensor.Shape{2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := backend.MoveAxis(a, tt.source, tt.destination)
			if !result.Shape().Equal(tt.shape) {
				t.Errorf("Expected shape %v, got %v", tt.shape, result.Shape())
			}
		})
	}

	// a[1,2,3] lands at [3,1,2] after moving the last axis to the front.
	moved := backend.MoveAxis(a, []int{2}, []int{0})
	if moved.At(3, 1, 2) != a.At(1, 2, 3) {
		t.Errorf("Expected %v, got %v", a.At(1, 2, 3), moved.At(3, 1, 2))
	}
}

func TestCPUBackend_TensorDot(t *testing.T) {
	backend := newTestBackend()

	t.Run("MatrixProduct", func(t *testing.T) {
		a := mustFloat64(t, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)
		b := mustFloat64(t, tensor.Shape{3, 2}, 7, 8, 9, 10, 11, 12)
		result := backend.TensorDot(a, b, []int{1}, []int{0})
		expected := []float64{58, 64, 139, 154}
		if !result.Shape().Equal(tensor.Shape{2, 2}) {
			t.Fatalf("Expected shape [2 2], got %v", result.Shape())
		}
		if !float64SliceEqual(result.AsFloat64(), expected) {
			t.Errorf("Expected %v, got %v", expected, result.AsFloat64())
		}
	})

	t.Run("OuterProduct", func(t *testing.T) {
		a := mustFloat64(t, tensor.Shape{2}, 1, 2)
		b := mustFloat64(t, tensor.Shape{3}, 3, 4, 5)
		result := backend.TensorDot(a, b, nil, nil)
		expected := []float64{3, 4, 5, 6, 8, 10}
		if !result.Shape().Equal(tensor.Shape{2, 3}) {
			t.Fatalf("Expected shape [2 3], got %v", result.Shape())
		}
		if !float64SliceEqual(result.AsFloat64(), expected) {
			t.Errorf("Expected %v, got %v", expected, result.AsFloat64())
		}
	})

	t.Run("FullContraction", func(t *testing.T) {
		a := mustFloat64(t, tensor.Shape{2, 2}, 1, 2, 3, 4)
		b := mustFloat64(t, tensor.Shape{2, 2}, 1, 0, 0, 1)
		result := backend.TensorDot(a, b, []int{0, 1}, []int{0, 1})
		if len(result.Shape()) != 0 {
			t.Fatalf("Expected scalar, got shape %v", result.Shape())
		}
		if result.AsFloat64()[0] != 5 {
			t.Errorf("Expected trace 5, got %v", result.AsFloat64()[0])
		}
	})

	t.Run("ContractSecondAxisOfB", func(t *testing.T) {
		a := mustFloat64(t, tensor.Shape{2}, 1, 1)
		b := mustFloat64(t, tensor.Shape{3, 2}, 1, 2, 3, 4, 5, 6)
		result := backend.TensorDot(a, b, []int{0}, []int{1})
		expected := []float64{3, 7, 11}
		if !float64SliceEqual(result.AsFloat64(), expected) {
			t.Errorf("Expected %v, got %v", expected, result.AsFloat64())
		}
	})

	t.Run("MixedDTypes", func(t *testing.T) {
		a := mustFloat64(t, tensor.Shape{2}, 1, 2)
		b, err := tensor.FromComplex128(tensor.Shape{2}, 1i, 1)
		if err != nil {
			t.Fatal(err)
		}
		result := backend.TensorDot(a, b, []int{0}, []int{0})
		if result.DType() != tensor.Complex128 {
			t.Fatalf("Expected complex128 result, got %s", result.DType())
		}
		if !complex128SliceEqual(result.AsComplex128(), []complex128{2 + 1i}) {
			t.Errorf("Expected 2+1i, got %v", result.AsComplex128())
		}
	})

	t.Run("Parallel", func(t *testing.T) {
		par := NewWithConfig(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1})
		seq := NewWithConfig(parallel.Config{Enabled: false})
		a := mustFloat64(t, tensor.Shape{8, 8}, make([]float64, 64)...)
		for i := range a.AsFloat64() {
			a.AsFloat64()[i] = float64(i % 7)
		}
		want := seq.TensorDot(a, a, []int{1}, []int{0})
		got := par.TensorDot(a, a, []int{1}, []int{0})
		if !float64SliceEqual(got.AsFloat64(), want.AsFloat64()) {
			t.Errorf("Parallel result differs: %v vs %v", got.AsFloat64(), want.AsFloat64())
		}
	})

	t.Run("ShapeMismatchPanics", func(t *testing.T) {
		a := mustFloat64(t, tensor.Shape{2}, 1, 2)
		b := mustFloat64(t, tensor.Shape{3}, 1, 2, 3)
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic for mismatched contraction")
			}
		}()
		backend.TensorDot(a, b, []int{0}, []int{0})
	})
}

func TestCPUBackend_Symbolic(t *testing.T) {
	backend := newTestBackend()

	x := symbolic.Var("x")
	a, err := tensor.FromScalars(tensor.Shape{2}, x, tensor.Complex(1))
	if err != nil {
		t.Fatal(err)
	}
	if a.DType() != tensor.Symbolic {
		t.Fatalf("Expected symbolic dtype, got %s", a.DType())
	}
	b := mustFloat64(t, tensor.Shape{2, 2}, 0, 1, 1, 0)

	result := backend.TensorDot(a, b, []int{0}, []int{0})
	if result.DType() != tensor.Symbolic {
		t.Fatalf("Expected symbolic result, got %s", result.DType())
	}
	if got := result.At(0).String(); got != "1" {
		t.Errorf("Expected 1, got %s", got)
	}
	if got := result.At(1).String(); got != "x" {
		t.Errorf("Expected x, got %s", got)
	}

	substituted := result.Subs(map[string]tensor.Scalar{"x": tensor.Complex(3)})
	if substituted.DType() != tensor.Float64 {
		t.Fatalf("Expected float64 after substitution, got %s", substituted.DType())
	}
	if !float64SliceEqual(substituted.AsFloat64(), []float64{1, 3}) {
		t.Errorf("Expected [1 3], got %v", substituted.AsFloat64())
	}
}

func TestCPUBackend_Add(t *testing.T) {
	backend := newTestBackend()
	a := mustFloat64(t, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)
	b := mustFloat64(t, tensor.Shape{2, 3}, 10, 11, 12, 13, 14, 15)

	result := backend.Add(a, b)
	expected := []float64{11, 13, 15, 17, 19, 21}
	if !float64SliceEqual(result.AsFloat64(), expected) {
		t.Errorf("Expected %v, got %v", expected, result.AsFloat64())
	}

	// Inputs are never modified.
	if a.AsFloat64()[0] != 1 || b.AsFloat64()[0] != 10 {
		t.Error("Add modified its inputs")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for shape mismatch")
		}
	}()
	backend.Add(a, mustFloat64(t, tensor.Shape{3, 2}, 1, 2, 3, 4, 5, 6))
}

func TestCPUBackend_Mul(t *testing.T) {
	backend := newTestBackend()
	a := mustFloat64(t, tensor.Shape{4}, 1, 2, 3, 4)
	b, err := tensor.FromComplex128(tensor.Shape{4}, 1i, 1i, 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	result := backend.Mul(a, b)
	expected := []complex128{1i, 2i, 3, 4}
	if !complex128SliceEqual(result.AsComplex128(), expected) {
		t.Errorf("Expected %v, got %v", expected, result.AsComplex128())
	}
}

func TestCPUBackend_Conj(t *testing.T) {
	backend := newTestBackend()

	c, err := tensor.FromComplex128(tensor.Shape{2}, 1+2i, -3i)
	if err != nil {
		t.Fatal(err)
	}
	result := backend.Conj(c)
	if !complex128SliceEqual(result.AsComplex128(), []complex128{1 - 2i, 3i}) {
		t.Errorf("Unexpected conjugate %v", result.AsComplex128())
	}

	r := mustFloat64(t, tensor.Shape{2}, 1, 2)
	if backend.Conj(r).Key() != r.Key() {
		t.Error("Conjugate of a real tensor must equal the tensor")
	}
}
