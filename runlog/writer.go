package runlog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/btree"
)

var (
	ErrWriterClosed    = errors.New("runlog: writer is closed")
	ErrInvalidCapacity = errors.New("runlog: segment capacity must be greater than 0")
)

// entry pairs a record with its arrival number so the segment buffer keeps
// duplicate records and flushes them in the order they were written.
type entry[V any] struct {
	value V
	seq   uint64
}

// Writer buffers records, sorts them, and flushes them to w as the
// sorted segments of a run log file. Records may be written in any order;
// each flushed segment is a sorted run, and Reader merges the segments
// back into one sorted stream.
type Writer[V any] struct {
	w           io.Writer
	codec       Codec[V]
	less        func(a, b V) bool
	capacity    int
	compression Compression

	mu      sync.Mutex
	records *btree.BTreeG[entry[V]]
	seq     uint64
	closed  bool
}

// NewWriter creates a run log writer on top of w. Records are ordered by
// less; records that compare equal keep their write order. The file header
// is written immediately.
func NewWriter[V any](w io.Writer, codec Codec[V], less func(a, b V) bool, opts ...Option) (*Writer[V], error) {
	if w == nil {
		return nil, errors.New("runlog: writer cannot be nil")
	}
	if codec == nil {
		return nil, errors.New("runlog: codec cannot be nil")
	}
	if less == nil {
		return nil, errors.New("runlog: less cannot be nil")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.segmentCapacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if o.compression > CompressionZstd {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, o.compression)
	}

	wr := &Writer[V]{
		w:           w,
		codec:       codec,
		less:        less,
		capacity:    o.segmentCapacity,
		compression: o.compression,
	}
	if err := wr.writeHeader(); err != nil {
		return nil, err
	}
	wr.newSegment()
	return wr, nil
}

func (w *Writer[V]) writeHeader() error {
	if _, err := w.w.Write(magicBytes); err != nil {
		return fmt.Errorf("runlog: writing header: %w", err)
	}
	if err := (binaryWriter{w: w.w}).WriteUint8(formatVersion); err != nil {
		return fmt.Errorf("runlog: writing header: %w", err)
	}
	return nil
}

func (w *Writer[V]) newSegment() {
	w.records = btree.NewG(2, func(a, b entry[V]) bool {
		if w.less(a.value, b.value) {
			return true
		}
		if w.less(b.value, a.value) {
			return false
		}
		return a.seq < b.seq
	})
}

// Write buffers one record. When the buffer reaches the configured segment
// capacity it is flushed as a sorted segment.
func (w *Writer[V]) Write(value V) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWriterClosed
	}

	w.seq++
	w.records.ReplaceOrInsert(entry[V]{value: value, seq: w.seq})

	if w.records.Len() >= w.capacity {
		return w.flushLocked()
	}
	return nil
}

// Flush writes the buffered records out as a segment. Flushing early cuts
// a smaller segment; it does not affect correctness of the merged read.
func (w *Writer[V]) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWriterClosed
	}
	return w.flushLocked()
}

func (w *Writer[V]) flushLocked() error {
	if w.records.Len() == 0 {
		return nil
	}

	var payload bytes.Buffer
	cw, err := compressWriter(&payload, w.compression)
	if err != nil {
		return err
	}
	bw := binaryWriter{w: cw}
	var encodeErr error
	w.records.Ascend(func(e entry[V]) bool {
		data, err := w.codec.Encode(e.value)
		if err != nil {
			encodeErr = fmt.Errorf("runlog: encoding record: %w", err)
			return false
		}
		if err := bw.WriteBytes(data); err != nil {
			encodeErr = fmt.Errorf("runlog: compressing segment: %w", err)
			return false
		}
		return true
	})
	if encodeErr != nil {
		_ = cw.Close()
		return encodeErr
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("runlog: compressing segment: %w", err)
	}

	fw := binaryWriter{w: w.w}
	if err := fw.WriteInt64(segmentHeaderSize + int64(payload.Len())); err != nil {
		return fmt.Errorf("runlog: writing segment: %w", err)
	}
	if err := fw.WriteUint8(uint8(w.compression)); err != nil {
		return fmt.Errorf("runlog: writing segment: %w", err)
	}
	if err := fw.WriteUint64(xxhash.Sum64(payload.Bytes())); err != nil {
		return fmt.Errorf("runlog: writing segment: %w", err)
	}
	if _, err := w.w.Write(payload.Bytes()); err != nil {
		return fmt.Errorf("runlog: writing segment: %w", err)
	}

	w.newSegment()
	return nil
}

// Close flushes any buffered records and marks the writer closed. Closing
// the underlying io.Writer remains the caller's responsibility.
func (w *Writer[V]) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWriterClosed
	}
	w.closed = true
	return w.flushLocked()
}
