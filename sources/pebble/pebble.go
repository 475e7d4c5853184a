// Package pebble adapts Pebble key/value stores to the merge engine,
// exposing key ranges as lazy sorted sequences.
//
// A Source scans one store in key order and can be consumed directly or
// handed to the merge engine; Merged combines any number of sources into a
// single stream sorted by key bytes. Scanning a *pebble.DB sees the data
// committed before each consumption begins; scan a pebble snapshot for a
// frozen view.
package pebble

import (
	"bytes"
	"fmt"
	"iter"

	"github.com/cockroachdb/pebble"

	"github.com/sweeneyde/multimerge"
	"github.com/sweeneyde/multimerge/winner"
)

// KV is one key/value pair read from a store.
type KV struct {
	Key   []byte
	Value []byte
}

// Less orders pairs by raw key bytes.
func Less(a, b KV) bool {
	return bytes.Compare(a.Key, b.Key) < 0
}

// Source is a lazily scanned key range of one store. Every consumption
// opens a fresh iterator, so a Source can be ranged over more than once.
type Source struct {
	r    pebble.Reader
	opts scanOptions
}

// Scan reads the key/value pairs of r in key order. r is any Pebble
// reader: a database, snapshot or batch.
func Scan(r pebble.Reader, opts ...ScanOption) *Source {
	o := defaultScanOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Source{r: r, opts: *o}
}

// All returns the pairs of the scanned range in key order. Key and value
// bytes are copied out of the store, so they stay valid after the yield.
// An iterator failure ends the stream and is yielded as the final element.
func (s *Source) All() iter.Seq2[KV, error] {
	return func(yield func(KV, error) bool) {
		it, err := s.r.NewIter(&pebble.IterOptions{
			LowerBound: s.opts.lowerBound,
			UpperBound: s.opts.upperBound,
		})
		if err != nil {
			yield(KV{}, fmt.Errorf("pebble: opening iterator: %w", err))
			return
		}
		defer it.Close()

		for it.First(); it.Valid(); it.Next() {
			kv := KV{
				Key:   bytes.Clone(it.Key()),
				Value: bytes.Clone(it.Value()),
			}
			if !yield(kv, nil) {
				return
			}
		}
		if err := it.Error(); err != nil {
			yield(KV{}, fmt.Errorf("pebble: scanning: %w", err))
		}
	}
}

// Merged merges several sources into one stream sorted by key bytes.
// Pairs with equal keys surface in the order their sources were given.
func Merged(sources ...*Source) iter.Seq2[KV, error] {
	seqs := make([]iter.Seq2[KV, error], len(sources))
	for i, s := range sources {
		seqs[i] = s.All()
	}
	return multimerge.MergeFunc(winner.Identity[KV], Less, seqs...)
}
