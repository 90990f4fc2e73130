package tensor

// Backend defines the array capability the evaluator needs.
// Backends handle the actual computation for tensor operations.
//
// Operations panic on malformed arguments; callers validate shapes first.
//
// Implementations:
//   - CPU: pure Go (internal/backend/cpu)
type Backend interface {
	// Creation
	Zeros(shape Shape, dtype DataType) *RawTensor
	Eye(n int, dtype DataType) *RawTensor

	// Diagonal returns the rank-legs tensor of size dim per leg with ones
	// exactly where all indices agree.
	Diagonal(legs, dim int, dtype DataType) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// MoveAxis moves axes at source positions to destination positions,
	// keeping the other axes in order (NumPy moveaxis).
	MoveAxis(t *RawTensor, source, destination []int) *RawTensor

	// TensorDot contracts axesA of a against axesB of b. The result holds
	// the remaining axes of a followed by the remaining axes of b.
	TensorDot(a, b *RawTensor, axesA, axesB []int) *RawTensor

	// Element-wise operations (shapes must match)
	Add(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Conj(t *RawTensor) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
