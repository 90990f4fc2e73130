// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/born-ml/braid/internal/backend/cpu"
	"github.com/born-ml/braid/tensor"
)

// TestBackendInterface verifies that cpu.CPUBackend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = (*cpu.CPUBackend)(nil)
}

// TestRawTensorAPI verifies RawTensor type alias exposes expected API.
func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Complex128, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	if !raw.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", raw.Shape())
	}
	if raw.DType() != tensor.Complex128 {
		t.Errorf("DType() = %v, want Complex128", raw.DType())
	}
	if raw.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want CPU", raw.Device())
	}
	if raw.NumElements() != 6 {
		t.Errorf("NumElements() = %d, want 6", raw.NumElements())
	}
}

// TestFromScalars verifies that the narrowest data type is chosen.
func TestFromScalars(t *testing.T) {
	raw, err := tensor.FromScalars(tensor.Shape{2}, tensor.Complex(1), tensor.Complex(2))
	if err != nil {
		t.Fatalf("FromScalars failed: %v", err)
	}
	if raw.DType() != tensor.Float64 {
		t.Errorf("DType() = %v, want Float64", raw.DType())
	}

	raw, err = tensor.FromScalars(tensor.Shape{2}, tensor.Complex(1), tensor.Complex(1i))
	if err != nil {
		t.Fatalf("FromScalars failed: %v", err)
	}
	if raw.DType() != tensor.Complex128 {
		t.Errorf("DType() = %v, want Complex128", raw.DType())
	}
}

// TestPromote verifies the data type order.
func TestPromote(t *testing.T) {
	if got := tensor.Promote(tensor.Float64, tensor.Complex128); got != tensor.Complex128 {
		t.Errorf("Promote(Float64, Complex128) = %v", got)
	}
	if got := tensor.Promote(tensor.Symbolic, tensor.Float64); got != tensor.Symbolic {
		t.Errorf("Promote(Symbolic, Float64) = %v", got)
	}
}

// TestBackendThroughInterface exercises the public interface end to end.
func TestBackendThroughInterface(t *testing.T) {
	var backend tensor.Backend = cpu.New()

	a, err := tensor.FromFloat64(tensor.Shape{2, 2}, 1, 2, 3, 4)
	if err != nil {
		t.Fatalf("FromFloat64 failed: %v", err)
	}
	c := backend.TensorDot(a, backend.Eye(2, tensor.Float64), []int{1}, []int{0})

	want := []float64{1, 2, 3, 4}
	got := c.AsFloat64()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("TensorDot with identity = %v, want %v", got, want)
		}
	}
}
