package tensor

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unsafe"
)

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	External
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case External:
		return "External"
	default:
		return "Unknown"
	}
}

// tensorBuffer holds the entries of one or more tensors sharing storage.
// Numeric entries live in data, symbolic entries in objects.
type tensorBuffer struct {
	data    []byte
	objects []Scalar
}

func newTensorBuffer(n int, dtype DataType) *tensorBuffer {
	buf := &tensorBuffer{}
	if dtype == Symbolic {
		buf.objects = make([]Scalar, n)
		for i := range buf.objects {
			buf.objects[i] = Complex(0)
		}
	} else {
		buf.data = make([]byte, n*dtype.Size())
	}
	return buf
}

// RawTensor is the low-level dense array.
// Data is always contiguous and row-major.
type RawTensor struct {
	buffer *tensorBuffer // Shared with clones and reshaped views
	shape  Shape         // Tensor dimensions
	stride []int         // Memory strides (row-major)
	dtype  DataType      // Runtime type information
	device Device        // Compute device
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is zero-initialized.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		buffer: newTensorBuffer(shape.NumElements(), dtype),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}, nil
}

// FromFloat64 copies data into a new Float64 tensor.
func FromFloat64(shape Shape, data ...float64) (*RawTensor, error) {
	return fromSlice(shape, data)
}

// FromComplex128 copies data into a new Complex128 tensor.
func FromComplex128(shape Shape, data ...complex128) (*RawTensor, error) {
	return fromSlice(shape, data)
}

func fromSlice[T Numeric](shape Shape, data []T) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), CPU)
	if err != nil {
		return nil, err
	}
	copy(asSlice[T](raw), data)
	return raw, nil
}

// FromScalars builds a tensor from boxed entries.
// The result is numeric when every entry reduces to a number.
func FromScalars(shape Shape, data ...Scalar) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	dtype := Float64
	for _, s := range data {
		v, ok := ValueOf(s)
		switch {
		case !ok:
			dtype = Symbolic
		case imag(v) != 0:
			dtype = Promote(dtype, Complex128)
		}
	}
	raw, err := NewRaw(shape, dtype, CPU)
	if err != nil {
		return nil, err
	}
	for i, s := range data {
		raw.SetScalar(i, s)
	}
	return raw, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// Data returns the raw byte slice of numeric tensors.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.buffer.data
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	return asSlice[float64](r)
}

// AsComplex128 interprets the data as []complex128.
// Panics if the tensor's dtype is not Complex128.
func (r *RawTensor) AsComplex128() []complex128 {
	if r.dtype != Complex128 {
		panic(fmt.Sprintf("tensor dtype is %s, not complex128", r.dtype))
	}
	return asSlice[complex128](r)
}

// AsScalars returns the boxed entries of a Symbolic tensor.
// Panics if the tensor's dtype is not Symbolic.
func (r *RawTensor) AsScalars() []Scalar {
	if r.dtype != Symbolic {
		panic(fmt.Sprintf("tensor dtype is %s, not symbolic", r.dtype))
	}
	return r.buffer.objects
}

func asSlice[T Numeric](r *RawTensor) []T {
	data := r.buffer.data
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), r.NumElements())
}

// ScalarAt returns the entry at flat index i as a Scalar.
func (r *RawTensor) ScalarAt(i int) Scalar {
	switch r.dtype {
	case Float64:
		return Complex(complex(r.AsFloat64()[i], 0))
	case Complex128:
		return Complex(r.AsComplex128()[i])
	case Symbolic:
		return r.buffer.objects[i]
	default:
		panic(fmt.Sprintf("unsupported dtype %v", r.dtype))
	}
}

// SetScalar stores s at flat index i.
// Panics if s does not fit the tensor's dtype.
func (r *RawTensor) SetScalar(i int, s Scalar) {
	if r.dtype == Symbolic {
		r.buffer.objects[i] = s
		return
	}
	v, ok := ValueOf(s)
	if !ok {
		panic(fmt.Sprintf("cannot store symbolic value %s in %s tensor", s, r.dtype))
	}
	switch r.dtype {
	case Float64:
		if imag(v) != 0 {
			panic(fmt.Sprintf("cannot store complex value %v in float64 tensor", v))
		}
		r.AsFloat64()[i] = real(v)
	case Complex128:
		r.AsComplex128()[i] = v
	}
}

// At returns the element at the given coordinates.
func (r *RawTensor) At(indices ...int) Scalar {
	if len(indices) != len(r.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(r.shape), len(indices)))
	}
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= r.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, r.shape[i]))
		}
		offset += idx * r.stride[i]
	}
	return r.ScalarAt(offset)
}

// Cast returns a copy of the tensor converted to dtype.
// Narrowing casts panic when a value does not fit.
func (r *RawTensor) Cast(dtype DataType) *RawTensor {
	result, err := NewRaw(r.shape, dtype, r.device)
	if err != nil {
		panic(fmt.Sprintf("cast: %v", err))
	}
	if dtype == r.dtype {
		copy(result.buffer.data, r.buffer.data)
		copy(result.buffer.objects, r.buffer.objects)
		return result
	}
	for i := 0; i < r.NumElements(); i++ {
		result.SetScalar(i, r.ScalarAt(i))
	}
	return result
}

// WithShape returns a tensor sharing this buffer under a new shape with the
// same number of elements.
func (r *RawTensor) WithShape(shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != r.NumElements() {
		return nil, fmt.Errorf("cannot reshape %v into %v", r.shape, shape)
	}
	view := r.Clone()
	view.shape = shape.Clone()
	view.stride = shape.ComputeStrides()
	return view, nil
}

// Clone returns a tensor sharing this buffer. Backends never write into
// their inputs, so sharing is safe once construction is done.
func (r *RawTensor) Clone() *RawTensor {
	return &RawTensor{
		buffer: r.buffer,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: r.device,
	}
}

// Key returns a canonical encoding of dtype, shape and entries.
// Two tensors with equal keys hold the same values.
func (r *RawTensor) Key() string {
	var sb strings.Builder
	sb.WriteString(r.dtype.String())
	sb.WriteString(fmt.Sprint([]int(r.shape)))
	sb.WriteByte('{')
	for i := 0; i < r.NumElements(); i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		switch r.dtype {
		case Float64:
			sb.WriteString(strconv.FormatFloat(r.AsFloat64()[i], 'g', -1, 64))
		default:
			sb.WriteString(r.ScalarAt(i).String())
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

// String formats the tensor like Key.
func (r *RawTensor) String() string {
	return r.Key()
}

// FreeSymbols returns the sorted symbols referenced by any entry.
func (r *RawTensor) FreeSymbols() []string {
	if r.dtype != Symbolic {
		return nil
	}
	seen := make(map[string]struct{})
	for _, s := range r.buffer.objects {
		if h, ok := s.(SymbolHolder); ok {
			for _, name := range h.FreeSymbols() {
				seen[name] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Map applies fn to every entry and returns a new tensor of the narrowest dtype.
func (r *RawTensor) Map(fn func(Scalar) Scalar) *RawTensor {
	out := make([]Scalar, r.NumElements())
	for i := range out {
		out[i] = fn(r.ScalarAt(i))
	}
	result, err := FromScalars(r.shape, out...)
	if err != nil {
		panic(fmt.Sprintf("map: %v", err))
	}
	return result
}

// Subs substitutes symbols in every entry that supports it.
func (r *RawTensor) Subs(assignment map[string]Scalar) *RawTensor {
	if r.dtype != Symbolic {
		return r
	}
	return r.Map(func(s Scalar) Scalar {
		if sub, ok := s.(Substituter); ok {
			return sub.Subs(assignment)
		}
		return s
	})
}

// Diff differentiates every entry with respect to symbol.
// Entries without a derivative are constants.
func (r *RawTensor) Diff(symbol string) *RawTensor {
	return r.Map(func(s Scalar) Scalar {
		if d, ok := s.(Differentiable); ok {
			return d.Diff(symbol)
		}
		return Complex(0)
	})
}
