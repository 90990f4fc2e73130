package tensor

import (
	"testing"
)

// testSymbol is a minimal symbolic Scalar: a named unknown scaled by a coefficient.
type testSymbol struct {
	name  string
	coeff complex128
}

func (s testSymbol) Add(other Scalar) Scalar {
	if o, ok := other.(testSymbol); ok && o.name == s.name {
		return testSymbol{s.name, s.coeff + o.coeff}
	}
	if v, ok := ValueOf(other); ok && v == 0 {
		return s
	}
	panic("testSymbol: unsupported addition")
}

func (s testSymbol) Mul(other Scalar) Scalar {
	if v, ok := ValueOf(other); ok {
		return testSymbol{s.name, s.coeff * v}
	}
	panic("testSymbol: unsupported product")
}

func (s testSymbol) Conj() Scalar { return s }
func (s testSymbol) IsZero() bool { return s.coeff == 0 }
func (s testSymbol) String() string { return Complex(s.coeff).String() + "*" + s.name }
func (s testSymbol) FreeSymbols() []string { return []string{s.name} }
func (s testSymbol) Diff(symbol string) Scalar {
	if symbol == s.name {
		return Complex(s.coeff)
	}
	return Complex(0)
}

func (s testSymbol) Subs(assignment map[string]Scalar) Scalar {
	if v, ok := assignment[s.name]; ok {
		return v.Mul(Complex(s.coeff))
	}
	return s
}

func TestRawTensorAsFloat64(t *testing.T) {
	raw, _ := NewRaw(Shape{3, 2}, Float64, CPU)
	data := raw.AsFloat64()

	if len(data) != 6 {
		t.Errorf("AsFloat64 length = %d, want 6", len(data))
	}

	// Modify and verify zero-copy
	data[0] = 42
	if raw.AsFloat64()[0] != 42 {
		t.Error("AsFloat64 should return zero-copy slice")
	}
}

func TestRawTensorAsComplex128(t *testing.T) {
	raw, _ := NewRaw(Shape{2, 2}, Complex128, CPU)
	data := raw.AsComplex128()

	if len(data) != 4 {
		t.Errorf("AsComplex128 length = %d, want 4", len(data))
	}

	data[3] = 1i
	if raw.AsComplex128()[3] != 1i {
		t.Error("AsComplex128 should return zero-copy slice")
	}
}

func TestRawTensorSymbolicZeroInitialised(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Symbolic, CPU)
	for i, s := range raw.AsScalars() {
		if !s.IsZero() {
			t.Errorf("entry %d = %v, want 0", i, s)
		}
	}
}

func TestRawTensorCloneIsShared(t *testing.T) {
	raw, _ := NewRaw(Shape{2, 2}, Float64, CPU)
	raw.AsFloat64()[0] = 1.0

	clone := raw.Clone()

	if clone.AsFloat64()[0] != 1.0 {
		t.Error("Clone should share data initially")
	}
	if !clone.Shape().Equal(raw.Shape()) {
		t.Errorf("Clone shape = %v, want %v", clone.Shape(), raw.Shape())
	}
}

func TestNewRawInvalidShape(t *testing.T) {
	invalidShapes := []Shape{
		{0},
		{-1},
		{2, 0},
		{2, -3},
	}

	for _, shape := range invalidShapes {
		_, err := NewRaw(shape, Float64, CPU)
		if err == nil {
			t.Errorf("NewRaw(%v) should fail but didn't", shape)
		}
	}
}

func TestRawTensorScalar(t *testing.T) {
	raw, _ := NewRaw(Shape{}, Complex128, CPU)

	if raw.NumElements() != 1 {
		t.Errorf("Scalar tensor NumElements = %d, want 1", raw.NumElements())
	}
	if len(raw.AsComplex128()) != 1 {
		t.Errorf("Scalar tensor data length = %d, want 1", len(raw.AsComplex128()))
	}
}

func TestRawTensorAsWrongTypePanics(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Float64, CPU)

	defer func() {
		if r := recover(); r == nil {
			t.Error("AsComplex128 on Float64 tensor should panic")
		}
	}()
	_ = raw.AsComplex128()
}

func TestFromScalarsPicksNarrowestType(t *testing.T) {
	re, err := FromScalars(Shape{2}, Complex(1), Complex(2))
	if err != nil {
		t.Fatal(err)
	}
	if re.DType() != Float64 {
		t.Errorf("DType = %v, want float64", re.DType())
	}

	cplx, _ := FromScalars(Shape{2}, Complex(1), Complex(2i))
	if cplx.DType() != Complex128 {
		t.Errorf("DType = %v, want complex128", cplx.DType())
	}

	sym, _ := FromScalars(Shape{2}, Complex(1), testSymbol{"phi", 1})
	if sym.DType() != Symbolic {
		t.Errorf("DType = %v, want symbolic", sym.DType())
	}
}

func TestFromFloat64WrongLength(t *testing.T) {
	if _, err := FromFloat64(Shape{2, 2}, 1, 2, 3); err == nil {
		t.Error("FromFloat64 should reject 3 values for shape [2 2]")
	}
}

func TestRawTensorAt(t *testing.T) {
	raw, _ := FromFloat64(Shape{2, 3}, 0, 1, 2, 3, 4, 5)
	if got := raw.At(1, 2); got != Complex(5) {
		t.Errorf("At(1, 2) = %v, want 5", got)
	}
}

func TestRawTensorKey(t *testing.T) {
	a, _ := FromFloat64(Shape{2}, 0, 1)
	b, _ := FromFloat64(Shape{2}, 0, 1)
	c, _ := FromFloat64(Shape{1, 2}, 0, 1)

	if a.Key() != b.Key() {
		t.Errorf("equal tensors should have equal keys: %q vs %q", a.Key(), b.Key())
	}
	if a.Key() == c.Key() {
		t.Error("tensors with different shapes should have different keys")
	}
	if a.Key() != "float64[2]{0,1}" {
		t.Errorf("Key() = %q", a.Key())
	}
}

func TestRawTensorWithShape(t *testing.T) {
	raw, _ := FromFloat64(Shape{4}, 1, 2, 3, 4)
	view, err := raw.WithShape(Shape{2, 2})
	if err != nil {
		t.Fatal(err)
	}
	if view.At(1, 0) != Complex(3) {
		t.Errorf("At(1, 0) = %v, want 3", view.At(1, 0))
	}
	if _, err := raw.WithShape(Shape{3}); err == nil {
		t.Error("WithShape should reject a different element count")
	}
}

func TestRawTensorSymbols(t *testing.T) {
	raw, _ := FromScalars(Shape{3}, testSymbol{"psi", 1}, Complex(0), testSymbol{"phi", 2})

	syms := raw.FreeSymbols()
	if len(syms) != 2 || syms[0] != "phi" || syms[1] != "psi" {
		t.Errorf("FreeSymbols() = %v, want [phi psi]", syms)
	}

	subbed := raw.Subs(map[string]Scalar{"phi": Complex(3), "psi": Complex(1)})
	if subbed.DType() != Float64 {
		t.Fatalf("fully substituted tensor should be numeric, got %v", subbed.DType())
	}
	want := []float64{1, 0, 6}
	for i, w := range want {
		if subbed.AsFloat64()[i] != w {
			t.Errorf("entry %d = %v, want %v", i, subbed.AsFloat64()[i], w)
		}
	}

	grad := raw.Diff("phi")
	if grad.ScalarAt(2) != Complex(2) || !grad.ScalarAt(0).IsZero() {
		t.Errorf("Diff(phi) = %v", grad)
	}
}

func TestCastWidens(t *testing.T) {
	raw, _ := FromFloat64(Shape{2}, 1, 2)
	c := raw.Cast(Complex128)
	if c.AsComplex128()[1] != 2 {
		t.Errorf("Cast: got %v", c.AsComplex128())
	}
}

func TestPromote(t *testing.T) {
	if Promote(Float64, Complex128) != Complex128 {
		t.Error("float64 and complex128 should promote to complex128")
	}
	if Promote(Symbolic, Float64) != Symbolic {
		t.Error("symbolic should absorb numeric types")
	}
}
