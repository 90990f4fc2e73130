package serialization

import (
	"sort"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// ValidateName rejects empty, overlong and non-printable array names.
func ValidateName(name string) error {
	switch {
	case name == "":
		return &ValidationError{Type: "invalid_name", Err: errors.Wrap(ErrInvalidArrayName, "empty name")}
	case len(name) > MaxNameLength:
		return &ValidationError{Type: "invalid_name", Array: name[:32] + "...", Err: errors.Wrapf(ErrInvalidArrayName, "length %d", len(name))}
	case strings.IndexFunc(name, func(r rune) bool { return !unicode.IsPrint(r) }) >= 0:
		return &ValidationError{Type: "invalid_name", Array: name, Err: errors.Wrap(ErrInvalidArrayName, "non-printable character")}
	}
	return nil
}

// ValidateOffsets checks that arrays are within the data section and do not
// overlap.
func ValidateOffsets(arrays []ArrayMeta, dataSize int64) error {
	if len(arrays) > MaxArrays {
		return &ValidationError{Type: "too_many_arrays", Err: errors.Wrapf(ErrTooManyArrays, "%d > %d", len(arrays), MaxArrays)}
	}

	sorted := make([]ArrayMeta, len(arrays))
	copy(sorted, arrays)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	for i, a := range sorted {
		if a.Offset < 0 || a.Size < 0 {
			return &ValidationError{Type: "negative_offset", Array: a.Name, Err: ErrNegativeOffset}
		}
		if a.Offset+a.Size > dataSize {
			return &ValidationError{Type: "out_of_bounds", Array: a.Name, Err: errors.Wrapf(ErrOutOfBounds, "end %d > %d", a.Offset+a.Size, dataSize)}
		}
		if i > 0 {
			prev := sorted[i-1]
			if prev.Offset+prev.Size > a.Offset {
				return &ValidationError{Type: "offset_overlap", Array: prev.Name, Array2: a.Name, Err: ErrOffsetOverlap}
			}
		}
	}
	return nil
}

// ValidateHeader checks names, data types, shapes and offsets.
func ValidateHeader(h *Header, dataSize int64) error {
	if h.FormatVersion != FormatVersion {
		return errors.Wrapf(ErrUnsupportedVersion, "header version %d", h.FormatVersion)
	}
	seen := make(map[string]bool, len(h.Arrays))
	for _, a := range h.Arrays {
		if err := ValidateName(a.Name); err != nil {
			return err
		}
		if seen[a.Name] {
			return &ValidationError{Type: "duplicate_name", Array: a.Name, Err: ErrInvalidArrayName}
		}
		seen[a.Name] = true

		dt, ok := stringToDtype(a.DType)
		if !ok {
			return &ValidationError{Type: "dtype", Array: a.Name, Err: errors.Wrap(ErrUnsupportedDType, a.DType)}
		}
		n := int64(1)
		for _, k := range a.Shape {
			if k < 0 {
				return &ValidationError{Type: "shape", Array: a.Name, Err: errors.Wrapf(ErrNegativeOffset, "shape %v", a.Shape)}
			}
			n *= int64(k)
		}
		if n*int64(dt.Size()) != a.Size {
			return &ValidationError{Type: "size", Array: a.Name, Err: errors.Wrapf(ErrOutOfBounds, "shape %v needs %d bytes, header says %d", a.Shape, n*int64(dt.Size()), a.Size)}
		}
	}
	return ValidateOffsets(h.Arrays, dataSize)
}
