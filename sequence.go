package multimerge

import "iter"

// Slice returns the elements of s as a sequence that never fails.
func Slice[V any](s []V) iter.Seq2[V, error] {
	return func(yield func(V, error) bool) {
		for _, v := range s {
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Values lifts an infallible sequence into one that can carry a failure.
func Values[V any](seq iter.Seq[V]) iter.Seq2[V, error] {
	return func(yield func(V, error) bool) {
		for v := range seq {
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Collect gathers the items of seq into a slice. It stops at the first
// failure and returns the items collected up to that point alongside the
// error.
func Collect[V any](seq iter.Seq2[V, error]) ([]V, error) {
	var out []V
	for v, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}
