// Package winner implements a tournament tree (winner tree) for lazily
// merging multiple sorted sequences into a single sorted stream.
//
// A winner tree is a binary tree whose leaves buffer the head item of one
// input sequence each, and whose internal nodes cache the winner of the
// game between their children. The overall winner sits at the root, so
// producing the next merged item costs one sequence pull and O(log K)
// comparisons along a single root path, where K is the number of inputs.
//
// Key features:
//   - Lazy merging: items are pulled on demand, one buffered item per
//     live sequence, never the whole input
//   - Stable: items that compare equal appear in the order their
//     sequences were supplied
//   - Optional key function, invoked at most once per item
//   - Descending mode for merging descending inputs
//   - Failure propagation from sequences, key functions and comparisons,
//     reported exactly once
//
// Basic usage:
//
//	tree, err := winner.New(
//	    []winner.Sequence[int]{seq1, seq2, seq3},
//	    winner.Identity[int],
//	    func(a, b int) bool { return a < b },
//	)
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
//
//	for tree.Next() {
//	    fmt.Println(tree.At())
//	}
//	if err := tree.Err(); err != nil {
//	    return err
//	}
//
// Implementation Details:
// The tree is built by pairing adjacent sequences left to right and
// repeating per level until a single root remains, so earlier sequences
// stay to the left of later ones. Every game is decided by exactly one
// strict-less evaluation in which the right contender must win strictly;
// equal keys therefore resolve to the left, which is what makes the merge
// stable without ever testing equality. When a sequence runs out, its leaf
// is removed by hoisting the sibling into the shared parent, shrinking the
// tree so dead sequences cost nothing. Once a single sequence remains the
// key function is no longer invoked, since there is nobody left to play
// against.
//
// A Tree is single-threaded: Next, At, Err and Close must not be called
// concurrently, and Next must not be re-entered from a key or comparison
// function.
package winner
