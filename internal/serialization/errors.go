package serialization

import (
	"fmt"

	"github.com/pkg/errors"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrOffsetOverlap      = errors.New("array offsets overlap")
	ErrOutOfBounds        = errors.New("array extends beyond data section")
	ErrNegativeOffset     = errors.New("negative offset or size")
	ErrTooManyArrays      = errors.New("too many arrays in file")
	ErrInvalidArrayName   = errors.New("invalid array name")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrUnsupportedDType   = errors.New("unsupported data type")
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Type   string // e.g. "offset_overlap", "out_of_bounds"
	Array  string
	Array2 string // second array of an overlap
	Err    error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Array2 != "" {
		return fmt.Sprintf("%s: arrays %q and %q: %v", e.Type, e.Array, e.Array2, e.Err)
	}
	if e.Array != "" {
		return fmt.Sprintf("%s: array %q: %v", e.Type, e.Array, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Type, e.Err)
}

// Unwrap returns the sentinel behind the failure.
func (e *ValidationError) Unwrap() error { return e.Err }
