package runlog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
)

// Compression selects how segment payloads are compressed on disk.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionSnappy
	CompressionZstd
)

var (
	// magicBytes identify valid run log files (RLOG).
	magicBytes = []byte{0x52, 0x4C, 0x4F, 0x47}

	ErrInvalidMagic       = errors.New("runlog: invalid magic bytes - not a run log file")
	ErrUnsupportedVersion = errors.New("runlog: unsupported format version")
	ErrUnknownCompression = errors.New("runlog: unknown compression codec")
	ErrChecksum           = errors.New("runlog: segment checksum mismatch")
	ErrCorrupt            = errors.New("runlog: corrupted segment")
)

const (
	formatVersion = 1

	// headerSize is the file header: four magic bytes plus a version byte.
	headerSize = int64(5)

	// segmentHeaderSize is the per-segment header: total length (8),
	// compression flag (1) and payload checksum (8).
	segmentHeaderSize = int64(8 + 1 + 8)

	// maxRecordLen bounds a single record in a compressed payload, whose
	// decoded extent is not known until it is read.
	maxRecordLen = int64(1) << 30
)

// segmentInfo locates one segment inside a run log file. length covers the
// whole segment including its header.
type segmentInfo struct {
	offset      int64
	length      int64
	compression Compression
	checksum    uint64
}

// binaryWriter handles writing binary fields with little-endian layout.
type binaryWriter struct {
	w io.Writer
}

func (bw binaryWriter) WriteInt64(v int64) error {
	return binary.Write(bw.w, binary.LittleEndian, v)
}

func (bw binaryWriter) WriteUint64(v uint64) error {
	return binary.Write(bw.w, binary.LittleEndian, v)
}

func (bw binaryWriter) WriteUint8(v uint8) error {
	return binary.Write(bw.w, binary.LittleEndian, v)
}

// WriteBytes writes a length-prefixed blob.
func (bw binaryWriter) WriteBytes(b []byte) error {
	if err := binary.Write(bw.w, binary.LittleEndian, uint64(len(b))); err != nil {
		return err
	}
	_, err := bw.w.Write(b)
	return err
}

// binaryReader handles reading binary fields with little-endian layout.
type binaryReader struct {
	r io.Reader
}

func (br binaryReader) ReadInt64() (int64, error) {
	var v int64
	err := binary.Read(br.r, binary.LittleEndian, &v)
	return v, err
}

func (br binaryReader) ReadUint64() (uint64, error) {
	var v uint64
	err := binary.Read(br.r, binary.LittleEndian, &v)
	return v, err
}

func (br binaryReader) ReadUint8() (uint8, error) {
	var v uint8
	err := binary.Read(br.r, binary.LittleEndian, &v)
	return v, err
}

// ReadBytes reads a length-prefixed blob of at most max bytes. The length
// prefix is untrusted input, so it is checked before any allocation.
func (br binaryReader) ReadBytes(max int64) ([]byte, error) {
	var length uint64
	if err := binary.Read(br.r, binary.LittleEndian, &length); err != nil {
		return nil, err
	}
	if length > uint64(max) {
		return nil, fmt.Errorf("record length %d exceeds segment bounds", length)
	}
	b := make([]byte, length)
	if _, err := io.ReadFull(br.r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// compressWriter wraps w so a segment payload is compressed as it is
// built.
func compressWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionSnappy:
		return snappy.NewBufferedWriter(w), nil
	case CompressionZstd:
		return zstd.NewWriter(w)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}
}

// nopWriteCloser is an io.WriteCloser with a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// decompressReader wraps r so segment payloads are decompressed as they
// are streamed, keeping memory at one record per segment rather than one
// segment per segment.
func decompressReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionNone:
		return io.NopCloser(r), nil
	case CompressionSnappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &zstdReadCloser{dec}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}
}

// zstdReadCloser wraps a zstd.Decoder to implement io.ReadCloser.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z *zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// segmentSeq streams the records of one segment in their on-disk (sorted)
// order. The payload checksum is accumulated while streaming and verified
// once the segment is exhausted.
type segmentSeq[V any] struct {
	r     io.ReaderAt
	codec Codec[V]
	seg   segmentInfo
}

func (s *segmentSeq[V]) All() iter.Seq2[V, error] {
	return func(yield func(V, error) bool) {
		var zero V
		section := io.NewSectionReader(s.r, s.seg.offset+segmentHeaderSize, s.seg.length-segmentHeaderSize)
		digest := xxhash.New()
		rc, err := decompressReader(io.TeeReader(section, digest), s.seg.compression)
		if err != nil {
			yield(zero, err)
			return
		}
		defer rc.Close()

		// A record cannot outsize the payload holding it. Compressed
		// payloads have no exact extent up front, so a fixed cap applies.
		limit := s.seg.length - segmentHeaderSize
		if s.seg.compression != CompressionNone {
			limit = maxRecordLen
		}

		br := binaryReader{r: rc}
		for {
			data, err := br.ReadBytes(limit)
			if errors.Is(err, io.EOF) {
				if digest.Sum64() != s.seg.checksum {
					yield(zero, fmt.Errorf("%w: segment at offset %d", ErrChecksum, s.seg.offset))
				}
				return
			}
			if err != nil {
				yield(zero, fmt.Errorf("%w: segment at offset %d: %w", ErrCorrupt, s.seg.offset, err))
				return
			}
			v, err := s.codec.Decode(data)
			if err != nil {
				yield(zero, fmt.Errorf("runlog: decoding record: %w", err))
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}
