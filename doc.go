// Package multimerge merges multiple sorted sequences into a single sorted
// stream.
//
// The merge is lazy and stable: items are pulled from the inputs only as
// the output is consumed, one buffered item per input, and items that
// compare equal come out in the order their sequences were supplied.
// Producing each item costs O(log K) comparisons for K inputs, driven by a
// tournament tree (see the winner subpackage, which exposes the underlying
// engine and its Next/At/Err pull interface).
//
// Sequences carry failures in-band as iter.Seq2[V, error] pairs. The first
// failure, whether from an input, a key function or a comparison, ends the
// merge and is yielded exactly once as the final element.
//
// Basic usage:
//
//	a := multimerge.Slice([]int{1, 3, 5})
//	b := multimerge.Slice([]int{2, 4, 6})
//
//	for v, err := range multimerge.Merge(a, b) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(v)
//	}
//
// The runlog subpackage stores sorted runs on disk and reads any number of
// them back as one merged stream; the sources/pebble subpackage does the
// same for pebble databases.
package multimerge
