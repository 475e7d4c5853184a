package winner_test

import (
	"container/heap"
	"fmt"
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sweeneyde/multimerge/winner"
)

func genSequences(count, items int) []winner.Sequence[int] {
	seqs := make([]winner.Sequence[int], count)
	for s := 0; s < count; s++ {
		list := make([]int, items)
		for i := 0; i < items; i++ {
			list[i] = i*count + s
		}
		seqs[s] = NewList(list...)
	}
	return seqs
}

func BenchmarkMerge(b *testing.B) {
	benchCases := []struct {
		name      string
		sequences int
		items     int
	}{
		{"Few", 4, 10000},
		{"Some", 16, 10000},
		{"Many", 64, 10000},
	}

	for _, bc := range benchCases {
		seqs := genSequences(bc.sequences, bc.items)
		total := bc.sequences * bc.items

		b.Run(fmt.Sprintf("Tree/%s/%dx%d", bc.name, bc.sequences, bc.items), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				tree, err := winner.New(seqs, winner.Identity[int],
					func(a, b int) bool { return a < b })
				require.NoError(b, err)
				n := 0
				for tree.Next() {
					n++
				}
				require.NoError(b, tree.Err())
				require.Equal(b, total, n)
			}
		})

		b.Run(fmt.Sprintf("Heap/%s/%dx%d", bc.name, bc.sequences, bc.items), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				n := heapMergeCount(b, seqs)
				require.Equal(b, total, n)
			}
		})
	}
}

// heapMergeCount is a container/heap merge used as a baseline. It keeps one
// entry per live sequence, ordered by (value, sequence index) so its output
// order matches the tree's.
func heapMergeCount(b *testing.B, seqs []winner.Sequence[int]) int {
	b.Helper()
	h := make(mergeHeap, 0, len(seqs))
	for s, seq := range seqs {
		next, stop := iter.Pull2(seq.All())
		defer stop()
		v, err, ok := next()
		require.NoError(b, err)
		if !ok {
			continue
		}
		h = append(h, &heapEntry{value: v, src: s, next: next})
	}
	heap.Init(&h)

	n := 0
	for h.Len() > 0 {
		top := h[0]
		n++
		v, err, ok := top.next()
		require.NoError(b, err)
		if !ok {
			heap.Pop(&h)
			continue
		}
		top.value = v
		heap.Fix(&h, 0)
	}
	return n
}

type heapEntry struct {
	value int
	src   int
	next  func() (int, error, bool)
}

type mergeHeap []*heapEntry

func (h mergeHeap) Len() int { return len(h) }

func (h mergeHeap) Less(i, j int) bool {
	if h[i].value != h[j].value {
		return h[i].value < h[j].value
	}
	return h[i].src < h[j].src
}

func (h mergeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *mergeHeap) Push(x any) { *h = append(*h, x.(*heapEntry)) }

func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
