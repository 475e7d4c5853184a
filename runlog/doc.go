// Package runlog stores sorted runs of records on disk and reads them back
// as a single sorted stream.
//
// A run log is built from segments. The writer buffers incoming records in
// a B-tree, so they may arrive in any order; when the buffer reaches the
// segment capacity it is flushed as one sorted, checksummed and optionally
// compressed segment. Reading opens all segments and merges them through a
// tournament tree, so the file streams back in fully sorted order without
// ever being loaded whole. Records that compare equal keep the order they
// were written in, within and across segments.
//
// Key features:
//   - Records of any type via a pluggable Codec (gob, raw bytes, strings)
//   - Segments verified with xxhash64 checksums on read
//   - Optional snappy or zstd segment compression
//   - Streamed, merged reads: one buffered record per segment
//   - Merge and Compact combine any number of run log files
//
// Basic usage:
//
//	file, err := os.Create("events.runlog")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	writer, err := runlog.NewWriter(file, runlog.GobCodec[Event]{},
//	    func(a, b Event) bool { return a.Time.Before(b.Time) },
//	    runlog.WithCompression(runlog.CompressionSnappy),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, e := range events {
//	    if err := writer.Write(e); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	if err := writer.Close(); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Read back in sorted order
//	reader, err := runlog.OpenReader(file, runlog.GobCodec[Event]{},
//	    func(a, b Event) bool { return a.Time.Before(b.Time) },
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for e, err := range reader.All() {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    // Process event
//	}
//
// File Format:
// A file starts with four magic bytes ("RLOG") and a version byte. Each
// segment consists of:
//   - Total segment length including this header (8 bytes)
//   - Compression flag (1 byte)
//   - xxhash64 checksum of the compressed payload (8 bytes)
//   - Payload: length-prefixed encoded records in sorted order
//
// Segments follow each other until the end of the file; the format needs
// no footer, so a crashed writer leaves a file that is readable up to the
// last complete segment.
package runlog
