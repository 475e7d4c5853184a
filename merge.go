package multimerge

import (
	"cmp"
	"iter"

	"github.com/sweeneyde/multimerge/winner"
)

// Merge merges sorted sequences into a single sorted sequence. Each input
// must already be sorted ascending. Items that compare equal appear in the
// order their sequences were passed, so the merge is stable.
//
// The merge is lazy: nothing is pulled from the inputs until the returned
// sequence is ranged over, and then only one buffered item per input is
// held. A failure yielded by an input ends the merge and is re-yielded as
// the final element.
func Merge[V cmp.Ordered](seqs ...iter.Seq2[V, error]) iter.Seq2[V, error] {
	return MergeFunc(winner.Identity[V], cmp.Less[V], seqs...)
}

// MergeDescending merges sequences that are sorted in descending order
// into a single descending sequence. Ties still resolve toward the earlier
// sequence.
func MergeDescending[V cmp.Ordered](seqs ...iter.Seq2[V, error]) iter.Seq2[V, error] {
	return MergeDescendingFunc(winner.Identity[V], cmp.Less[V], seqs...)
}

// MergeFunc merges sequences sorted ascending by the key derived with key,
// compared with less. The key is computed at most once per item. A key or
// input failure ends the merge and is yielded as the final element.
func MergeFunc[V, K any](key func(V) (K, error), less func(a, b K) bool, seqs ...iter.Seq2[V, error]) iter.Seq2[V, error] {
	return mergeSeqs(key, less, seqs)
}

// MergeDescendingFunc is MergeFunc for inputs sorted descending by key.
func MergeDescendingFunc[V, K any](key func(V) (K, error), less func(a, b K) bool, seqs ...iter.Seq2[V, error]) iter.Seq2[V, error] {
	return mergeSeqs(key, less, seqs, winner.WithDescending())
}

func mergeSeqs[V, K any](key func(V) (K, error), less func(a, b K) bool, seqs []iter.Seq2[V, error], opts ...winner.Option) iter.Seq2[V, error] {
	return func(yield func(V, error) bool) {
		sources := make([]winner.Sequence[V], len(seqs))
		for i, s := range seqs {
			sources[i] = sequence[V](s)
		}
		tree, err := winner.New(sources, key, less, opts...)
		if err != nil {
			var zero V
			yield(zero, err)
			return
		}
		tree.All()(yield)
	}
}

// sequence adapts a raw iter.Seq2 to the winner.Sequence interface.
type sequence[V any] iter.Seq2[V, error]

func (s sequence[V]) All() iter.Seq2[V, error] { return iter.Seq2[V, error](s) }
