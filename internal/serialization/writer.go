package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/born-ml/braid/internal/tensor"
)

// Version is recorded in every header written by this package.
var Version = "v0.1.0-dev"

// Write stores arrays, sorted by name, with optional metadata.
func Write(w io.Writer, arrays map[string]*tensor.RawTensor, metadata map[string]string) error {
	names := make([]string, 0, len(arrays))
	for name := range arrays {
		names = append(names, name)
	}
	sort.Strings(names)

	header := Header{
		FormatVersion: FormatVersion,
		BraidVersion:  Version,
		CreatedAt:     time.Now().UTC(),
		Arrays:        make([]ArrayMeta, 0, len(arrays)),
		Metadata:      metadata,
	}

	var data []byte
	for _, name := range names {
		if err := ValidateName(name); err != nil {
			return err
		}
		raw := arrays[name]
		dtype, ok := dtypeToString(raw.DType())
		if !ok {
			return errors.Wrapf(ErrUnsupportedDType, "array %q has dtype %s", name, raw.DType())
		}
		bytes := raw.Data()[:raw.NumElements()*raw.DType().Size()]
		header.Arrays = append(header.Arrays, ArrayMeta{
			Name:   name,
			DType:  dtype,
			Shape:  []int(raw.Shape().Clone()),
			Offset: int64(len(data)),
			Size:   int64(len(bytes)),
		})
		data = append(data, bytes...)
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "failed to marshal header")
	}

	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	var flags uint32
	if len(metadata) > 0 {
		flags |= FlagHasMetadata
	}
	binary.LittleEndian.PutUint32(fixed[8:12], flags)
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(len(data)))
	checksum := ComputeChecksum(data)
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	pos := int64(FixedHeaderSize + len(headerJSON))
	padding := (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment

	for _, chunk := range [][]byte{fixed, headerJSON, make([]byte, padding), data} {
		if _, err := w.Write(chunk); err != nil {
			return errors.Wrap(err, "failed to write archive")
		}
	}
	return nil
}

// WriteFile stores arrays at path, creating parent directories.
func WriteFile(path string, arrays map[string]*tensor.RawTensor, metadata map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	bw := bufio.NewWriter(f)
	if err := Write(bw, arrays, metadata); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "failed to flush archive")
	}
	return f.Close()
}
