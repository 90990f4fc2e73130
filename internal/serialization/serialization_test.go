package serialization

import (
	"bytes"
	"encoding/binary"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/braid/internal/symbolic"
	"github.com/born-ml/braid/internal/tensor"
)

func sampleArrays(t *testing.T) map[string]*tensor.RawTensor {
	t.Helper()
	dense, err := tensor.FromFloat64(tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)
	require.NoError(t, err)
	cplx, err := tensor.FromComplex128(tensor.Shape{2}, 1+2i, -3i)
	require.NoError(t, err)
	scalar, err := tensor.FromFloat64(tensor.Shape{}, 7)
	require.NoError(t, err)
	return map[string]*tensor.RawTensor{"f": dense, "phase": cplx, "loop": scalar}
}

func TestWriteRead(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleArrays(t), map[string]string{"diagram": "f >> g"}))

	assert.Equal(t, MagicBytes, buf.String()[:4])
	assert.Equal(t, FlagHasMetadata, binary.LittleEndian.Uint32(buf.Bytes()[8:12]))

	arrays, header, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, header.FormatVersion)
	assert.Equal(t, "f >> g", header.Metadata["diagram"])

	names := make([]string, len(header.Arrays))
	for i, a := range header.Arrays {
		names[i] = a.Name
	}
	assert.Equal(t, []string{"f", "loop", "phase"}, names)

	require.Len(t, arrays, 3)
	assert.Equal(t, tensor.Shape{2, 3}, arrays["f"].Shape())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, arrays["f"].AsFloat64())
	assert.Equal(t, []complex128{1 + 2i, -3i}, arrays["phase"].AsComplex128())
	assert.Equal(t, []float64{7}, arrays["loop"].AsFloat64())
	assert.Equal(t, 0, len(arrays["loop"].Shape()))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "arrays.braid")
	require.NoError(t, WriteFile(path, sampleArrays(t), nil))

	arrays, header, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, arrays, 3)
	assert.Empty(t, header.Metadata)

	_, _, err = ReadFile(filepath.Join(t.TempDir(), "missing.braid"))
	assert.Error(t, err)
}

func TestWrite_Symbolic(t *testing.T) {
	raw, err := tensor.FromScalars(tensor.Shape{1}, symbolic.Var("x"))
	require.NoError(t, err)

	err = Write(&bytes.Buffer{}, map[string]*tensor.RawTensor{"x": raw}, nil)
	assert.True(t, errors.Is(err, ErrUnsupportedDType))
}

func TestWrite_InvalidName(t *testing.T) {
	err := Write(&bytes.Buffer{}, map[string]*tensor.RawTensor{"": sampleArrays(t)["f"]}, nil)
	assert.True(t, errors.Is(err, ErrInvalidArrayName))
}

func TestRead_Corrupted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleArrays(t), nil))
	good := buf.Bytes()

	t.Run("checksum", func(t *testing.T) {
		data := bytes.Clone(good)
		data[len(data)-1] ^= 0xff
		_, _, err := Read(bytes.NewReader(data))
		assert.True(t, errors.Is(err, ErrChecksumMismatch))
	})

	t.Run("magic", func(t *testing.T) {
		data := bytes.Clone(good)
		copy(data, "BORN")
		_, _, err := Read(bytes.NewReader(data))
		assert.True(t, errors.Is(err, ErrInvalidMagic))
	})

	t.Run("version", func(t *testing.T) {
		data := bytes.Clone(good)
		binary.LittleEndian.PutUint32(data[4:8], 9)
		_, _, err := Read(bytes.NewReader(data))
		assert.True(t, errors.Is(err, ErrUnsupportedVersion))
	})

	t.Run("header size", func(t *testing.T) {
		data := bytes.Clone(good)
		binary.LittleEndian.PutUint64(data[16:24], MaxHeaderSize+1)
		_, _, err := Read(bytes.NewReader(data))
		assert.True(t, errors.Is(err, ErrHeaderTooLarge))
	})

	t.Run("truncated", func(t *testing.T) {
		_, _, err := Read(bytes.NewReader(good[:len(good)-8]))
		assert.Error(t, err)
	})
}

func TestValidateOffsets(t *testing.T) {
	tests := []struct {
		name   string
		arrays []ArrayMeta
		want   error
	}{
		{"ok", []ArrayMeta{{Name: "a", Offset: 0, Size: 8}, {Name: "b", Offset: 8, Size: 8}}, nil},
		{"overlap", []ArrayMeta{{Name: "a", Offset: 0, Size: 16}, {Name: "b", Offset: 8, Size: 8}}, ErrOffsetOverlap},
		{"out of bounds", []ArrayMeta{{Name: "a", Offset: 8, Size: 16}}, ErrOutOfBounds},
		{"negative", []ArrayMeta{{Name: "a", Offset: -1, Size: 8}}, ErrNegativeOffset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOffsets(tt.arrays, 16)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}

func TestValidateHeader(t *testing.T) {
	h := &Header{FormatVersion: FormatVersion, Arrays: []ArrayMeta{
		{Name: "a", DType: DTypeFloat64, Shape: []int{2}, Size: 16},
	}}
	require.NoError(t, ValidateHeader(h, 16))

	h.Arrays[0].DType = "float32"
	assert.True(t, errors.Is(ValidateHeader(h, 16), ErrUnsupportedDType))

	h.Arrays[0].DType = DTypeComplex128
	assert.True(t, errors.Is(ValidateHeader(h, 16), ErrOutOfBounds))

	h.Arrays[0].DType = DTypeFloat64
	h.Arrays = append(h.Arrays, h.Arrays[0])
	assert.True(t, errors.Is(ValidateHeader(h, 32), ErrInvalidArrayName))
}
