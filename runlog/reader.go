package runlog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/sweeneyde/multimerge/winner"
)

// Reader reads a run log file and merges its sorted segments back into a
// single sorted stream. Segment locations are scanned once when the reader
// is opened; record data is only read while the stream is consumed.
type Reader[V any] struct {
	r        io.ReaderAt
	codec    Codec[V]
	less     func(a, b V) bool
	segments []segmentInfo
}

// OpenReader scans the run log in r. less must order records the same way
// the file was written.
func OpenReader[V any](r io.ReaderAt, codec Codec[V], less func(a, b V) bool) (*Reader[V], error) {
	if r == nil {
		return nil, errors.New("runlog: reader cannot be nil")
	}
	if codec == nil {
		return nil, errors.New("runlog: codec cannot be nil")
	}
	if less == nil {
		return nil, errors.New("runlog: less cannot be nil")
	}

	rd := &Reader[V]{r: r, codec: codec, less: less}
	if err := rd.readHeader(); err != nil {
		return nil, err
	}
	if err := rd.scanSegments(); err != nil {
		return nil, err
	}
	return rd, nil
}

func (r *Reader[V]) readHeader() error {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(io.NewSectionReader(r.r, 0, headerSize), header); err != nil {
		return ErrInvalidMagic
	}
	if !bytes.Equal(header[:len(magicBytes)], magicBytes) {
		return ErrInvalidMagic
	}
	if header[len(magicBytes)] != formatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, header[len(magicBytes)])
	}
	return nil
}

func (r *Reader[V]) scanSegments() error {
	offset := headerSize
	for {
		br := binaryReader{r: io.NewSectionReader(r.r, offset, segmentHeaderSize)}
		length, err := br.ReadInt64()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			// A short header is a torn tail from an interrupted flush;
			// everything before it is intact.
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return fmt.Errorf("%w: segment header at offset %d: %w", ErrCorrupt, offset, err)
		}
		flags, err := br.ReadUint8()
		if err != nil {
			return nil
		}
		checksum, err := br.ReadUint64()
		if err != nil {
			return nil
		}
		if length < segmentHeaderSize {
			return fmt.Errorf("%w: segment at offset %d reports length %d", ErrCorrupt, offset, length)
		}
		if !r.complete(offset, length) {
			// Torn tail: the header made it to disk but the payload did
			// not. Completed segments stay readable.
			return nil
		}
		if Compression(flags) > CompressionZstd {
			return fmt.Errorf("%w: %d at offset %d", ErrUnknownCompression, flags, offset)
		}

		r.segments = append(r.segments, segmentInfo{
			offset:      offset,
			length:      length,
			compression: Compression(flags),
			checksum:    checksum,
		})
		offset += length
	}
}

// complete reports whether the full extent of a segment is present.
func (r *Reader[V]) complete(offset, length int64) bool {
	if length == segmentHeaderSize {
		return true
	}
	var probe [1]byte
	_, err := io.ReadFull(io.NewSectionReader(r.r, offset+length-1, 1), probe[:])
	return err == nil
}

// Segments reports how many sorted segments the file holds.
func (r *Reader[V]) Segments() int {
	return len(r.segments)
}

// All returns every record of the file in sorted order, merging the
// segments as they are streamed. Records that compare equal come out in
// the order they were originally written. A corruption or decode failure
// ends the stream and is yielded as the final element.
func (r *Reader[V]) All() iter.Seq2[V, error] {
	return func(yield func(V, error) bool) {
		seqs := make([]winner.Sequence[V], len(r.segments))
		for i, seg := range r.segments {
			seqs[i] = &segmentSeq[V]{r: r.r, codec: r.codec, seg: seg}
		}
		tree, err := winner.New(seqs, winner.Identity[V], r.less)
		if err != nil {
			var zero V
			yield(zero, err)
			return
		}
		tree.All()(yield)
	}
}
