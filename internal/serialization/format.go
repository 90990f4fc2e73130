package serialization

import (
	"crypto/sha256"
	"time"

	"github.com/born-ml/braid/internal/tensor"
)

// Format constants.
const (
	MagicBytes      = "BRAD"
	FormatVersion   = 1
	HeaderAlignment = 64 // array data starts on a 64-byte boundary
	FixedHeaderSize = 64
	ChecksumSize    = sha256.Size
	ChecksumOffset  = 0x20

	// MaxHeaderSize bounds the JSON header read from untrusted files.
	MaxHeaderSize = 16 << 20
	MaxArrays     = 1 << 16
	MaxNameLength = 1024
)

// Data type names stored in the header.
const (
	DTypeFloat64    = "float64"
	DTypeComplex128 = "complex128"
)

// FlagHasMetadata is set when the header carries custom metadata.
const FlagHasMetadata uint32 = 1 << 0

// Header is the JSON header of a .braid file.
type Header struct {
	FormatVersion int               `json:"format_version"`
	BraidVersion  string            `json:"braid_version"`
	CreatedAt     time.Time         `json:"created_at"`
	Arrays        []ArrayMeta       `json:"arrays"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// ArrayMeta describes one array in the data section.
type ArrayMeta struct {
	Name   string `json:"name"`
	DType  string `json:"dtype"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"` // bytes from the start of the data section
	Size   int64  `json:"size"`
}

// ComputeChecksum computes the SHA-256 checksum of data.
func ComputeChecksum(data []byte) [ChecksumSize]byte {
	return sha256.Sum256(data)
}

func dtypeToString(dt tensor.DataType) (string, bool) {
	switch dt {
	case tensor.Float64:
		return DTypeFloat64, true
	case tensor.Complex128:
		return DTypeComplex128, true
	default:
		return "", false
	}
}

func stringToDtype(s string) (tensor.DataType, bool) {
	switch s {
	case DTypeFloat64:
		return tensor.Float64, true
	case DTypeComplex128:
		return tensor.Complex128, true
	default:
		return 0, false
	}
}
