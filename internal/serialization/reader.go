package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/born-ml/braid/internal/tensor"
)

// Read parses an archive and verifies its checksum.
func Read(r io.Reader) (map[string]*tensor.RawTensor, Header, error) {
	var header Header

	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, header, errors.Wrap(err, "failed to read fixed header")
	}
	if string(fixed[0:4]) != MagicBytes {
		return nil, header, errors.Wrapf(ErrInvalidMagic, "got %q", fixed[0:4])
	}
	if v := binary.LittleEndian.Uint32(fixed[4:8]); v != FormatVersion {
		return nil, header, errors.Wrapf(ErrUnsupportedVersion, "version %d", v)
	}
	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	dataSize := binary.LittleEndian.Uint64(fixed[24:32])
	if headerSize > MaxHeaderSize {
		return nil, header, errors.Wrapf(ErrHeaderTooLarge, "%d bytes", headerSize)
	}
	var stored [ChecksumSize]byte
	copy(stored[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, header, errors.Wrap(err, "failed to read header")
	}
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, header, errors.Wrap(err, "failed to parse header")
	}

	pos := int64(FixedHeaderSize) + int64(headerSize)
	padding := (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment
	if _, err := io.CopyN(io.Discard, r, padding); err != nil {
		return nil, header, errors.Wrap(err, "failed to skip padding")
	}

	if err := ValidateHeader(&header, int64(dataSize)); err != nil {
		return nil, header, err
	}
	data := make([]byte, dataSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, header, errors.Wrap(err, "failed to read array data")
	}
	if ComputeChecksum(data) != stored {
		return nil, header, ErrChecksumMismatch
	}

	arrays := make(map[string]*tensor.RawTensor, len(header.Arrays))
	for _, meta := range header.Arrays {
		dt, _ := stringToDtype(meta.DType)
		raw, err := tensor.NewRaw(tensor.Shape(meta.Shape), dt, tensor.CPU)
		if err != nil {
			return nil, header, errors.Wrapf(err, "array %q", meta.Name)
		}
		copy(raw.Data(), data[meta.Offset:meta.Offset+meta.Size])
		arrays[meta.Name] = raw
	}
	return arrays, header, nil
}

// ReadFile opens path and calls Read.
func ReadFile(path string) (map[string]*tensor.RawTensor, Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Header{}, errors.Wrap(err, "failed to open archive")
	}
	defer f.Close()
	return Read(bufio.NewReader(f))
}
