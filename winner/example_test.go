package winner_test

import (
	"fmt"

	"github.com/sweeneyde/multimerge/winner"
)

// ExampleNew demonstrates merging sorted integer sequences.
func ExampleNew() {
	seq1 := NewList(1, 3, 5, 7)
	seq2 := NewList(0, 2, 4, 8)
	seq3 := NewList(5, 10, 15, 20)

	tree, err := winner.New(
		[]winner.Sequence[int]{seq1, seq2, seq3},
		winner.Identity[int],
		func(a, b int) bool { return a < b },
	)
	if err != nil {
		panic(err)
	}
	defer tree.Close()

	for tree.Next() {
		fmt.Printf("%d ", tree.At())
	}

	// Output: 0 1 2 3 4 5 5 7 8 10 15 20
}

// ExampleNew_key merges words by length. Equal lengths come out in the
// order their sequences were supplied.
func ExampleNew_key() {
	seq1 := NewList("dog", "horse")
	seq2 := NewList("cat", "fish", "kangaroo")

	tree, err := winner.New(
		[]winner.Sequence[string]{seq1, seq2},
		func(s string) (int, error) { return len(s), nil },
		func(a, b int) bool { return a < b },
	)
	if err != nil {
		panic(err)
	}
	defer tree.Close()

	for tree.Next() {
		fmt.Printf("%s ", tree.At())
	}

	// Output: dog cat fish horse kangaroo
}

// ExampleNew_descending merges sequences that are sorted high to low.
func ExampleNew_descending() {
	seq1 := NewList(5, 3, 1)
	seq2 := NewList(4, 2, 0)

	tree, err := winner.New(
		[]winner.Sequence[int]{seq1, seq2},
		winner.Identity[int],
		func(a, b int) bool { return a < b },
		winner.WithDescending(),
	)
	if err != nil {
		panic(err)
	}
	defer tree.Close()

	for tree.Next() {
		fmt.Printf("%d ", tree.At())
	}

	// Output: 5 4 3 2 1 0
}

// ExampleTree_All ranges over the merged stream, handling a failure as the
// final element.
func ExampleTree_All() {
	seq1 := NewList(1, 4)
	seq2 := NewList(2, 3)

	tree, err := winner.New(
		[]winner.Sequence[int]{seq1, seq2},
		winner.Identity[int],
		func(a, b int) bool { return a < b },
	)
	if err != nil {
		panic(err)
	}

	for v, err := range tree.All() {
		if err != nil {
			fmt.Println("merge failed:", err)
			return
		}
		fmt.Println(v)
	}

	// Output:
	// 1
	// 2
	// 3
	// 4
}
