package runlog

import (
	"fmt"
	"iter"

	"github.com/sweeneyde/multimerge"
	"github.com/sweeneyde/multimerge/winner"
)

// Merge merges the streams of several run log files into one sorted
// stream. Each reader's stream is already sorted, so the files merge the
// same way segments merge within a file: lazily, with ties resolving
// toward the earlier reader.
func Merge[V any](less func(a, b V) bool, readers ...*Reader[V]) iter.Seq2[V, error] {
	streams := make([]iter.Seq2[V, error], len(readers))
	for i, r := range readers {
		streams[i] = r.All()
	}
	return multimerge.MergeFunc(winner.Identity[V], less, streams...)
}

// Compact merges the given run log files into w, producing a single file
// holding every record of the inputs. It returns the number of records
// written. The caller still owns w and must Close it to flush the final
// segment.
func Compact[V any](w *Writer[V], readers ...*Reader[V]) (int, error) {
	n := 0
	for v, err := range Merge(w.less, readers...) {
		if err != nil {
			return n, fmt.Errorf("runlog: compacting: %w", err)
		}
		if err := w.Write(v); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
