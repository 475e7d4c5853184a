package winner

import (
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrSequencePull wraps a failure reported by an input sequence.
	ErrSequencePull = errors.New("winner: sequence pull failed")
	// ErrKeyComputation wraps a failure reported by the key function.
	ErrKeyComputation = errors.New("winner: key computation failed")
	// ErrComparison wraps a failure reported by the comparison function.
	ErrComparison = errors.New("winner: comparison failed")
)

// Sequence yields items in sorted order. Yielding a non-nil error reports
// that the sequence cannot produce further items; a Sequence must stop
// after yielding an error.
type Sequence[V any] interface {
	All() iter.Seq2[V, error]
}

// KeyFunc derives the sort key for an item. It is invoked at most once per
// item, when the item is pulled from its sequence.
type KeyFunc[V, K any] func(V) (K, error)

// LessFunc reports whether a sorts strictly before b.
type LessFunc[K any] func(a, b K) bool

// CompareFunc is a LessFunc whose evaluation may fail.
type CompareFunc[K any] func(a, b K) (bool, error)

// Identity is a KeyFunc that orders items by the items themselves.
func Identity[V any](v V) (V, error) { return v, nil }

type nodeKind uint8

const (
	leafKind nodeKind = iota
	gameKind
)

// node is a tagged variant. A leaf buffers the head item of one live
// sequence together with its key and the sequence's pull handles. A game
// caches the winning leaf of its subtree and a copy of that leaf's key.
// Parent pointers are back-references only; child links own the structure.
type node[V, K any] struct {
	kind   nodeKind
	parent *node[V, K]

	// leaf fields
	next func() (V, error, bool)
	stop func()
	item V
	src  int

	// game fields
	left, right *node[V, K]
	champ       *node[V, K]

	key K
}

// championLeaf returns the leaf holding the next item of n's subtree.
func (n *node[V, K]) championLeaf() *node[V, K] {
	if n.kind == leafKind {
		return n
	}
	return n.champ
}

// Tree merges sorted sequences lazily. Items are pulled from the inputs on
// demand, one buffered item per live sequence, and each advance replays
// O(log K) games along one root path.
//
// A Tree is not safe for concurrent use.
type Tree[V, K any] struct {
	root       *node[V, K]
	key        KeyFunc[V, K]
	cmp        CompareFunc[K]
	descending bool

	popped *node[V, K]
	cur    V
	err    error
	done   bool
}

// New builds a merge tree over seqs. Each sequence must already be sorted,
// ascending by key under less, or descending when the WithDescending option
// is given. Ties between sequences resolve toward the earlier sequence, so
// the merge is stable. key must be non-nil; use Identity to order items by
// themselves.
//
// New pulls the first item of every sequence. Empty sequences are dropped.
// An error pulling or keying a first item aborts construction, releases the
// sequences already started, and is returned wrapped.
func New[V, K any](seqs []Sequence[V], key KeyFunc[V, K], less LessFunc[K], opts ...Option) (*Tree[V, K], error) {
	return NewCompare(seqs, key, liftLess(less), opts...)
}

// NewCompare is New with a comparison function that may fail. A comparison
// failure, at construction or during an advance, terminates the merge with
// an error wrapping ErrComparison.
func NewCompare[V, K any](seqs []Sequence[V], key KeyFunc[V, K], cmp CompareFunc[K], opts ...Option) (*Tree[V, K], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	t := &Tree[V, K]{
		key:        key,
		cmp:        cmp,
		descending: o.descending,
	}
	if err := t.build(seqs); err != nil {
		return nil, err
	}
	return t, nil
}

func liftLess[K any](less LessFunc[K]) CompareFunc[K] {
	return func(a, b K) (bool, error) {
		return less(a, b), nil
	}
}

func (t *Tree[V, K]) build(seqs []Sequence[V]) error {
	leaves := make([]*node[V, K], 0, len(seqs))
	abort := func() {
		for _, l := range leaves {
			l.stop()
		}
	}
	for i, s := range seqs {
		next, stop := iter.Pull2(s.All())
		item, err, ok := next()
		if err != nil {
			stop()
			abort()
			return fmt.Errorf("%w: sequence %d: %w", ErrSequencePull, i, err)
		}
		if !ok {
			stop()
			continue
		}
		leaf := &node[V, K]{kind: leafKind, next: next, stop: stop, item: item, src: i}
		leaf.key, err = t.key(item)
		if err != nil {
			stop()
			abort()
			return fmt.Errorf("%w: sequence %d: %w", ErrKeyComputation, i, err)
		}
		leaves = append(leaves, leaf)
	}

	if len(leaves) == 0 {
		t.done = true
		return nil
	}
	if len(leaves) == 1 {
		// A single live sequence plays no games, so its keys are never
		// compared. Stop computing them.
		t.key = nil
	}

	// Unite adjacent nodes under a common parent until one tree remains.
	// An odd level carries its leftmost node up unpaired, which keeps every
	// contender to the left of all later sequences at every level.
	nodes := leaves
	for len(nodes) > 1 {
		level := make([]*node[V, K], 0, (len(nodes)+1)/2)
		i := 0
		if len(nodes)%2 == 1 {
			level = append(level, nodes[0])
			i = 1
		}
		for ; i < len(nodes)-1; i += 2 {
			game := &node[V, K]{kind: gameKind, left: nodes[i], right: nodes[i+1]}
			nodes[i].parent = game
			nodes[i+1].parent = game
			if err := t.playGame(game); err != nil {
				abort()
				return fmt.Errorf("%w: %w", ErrComparison, err)
			}
			level = append(level, game)
		}
		nodes = level
	}
	t.root = nodes[0]
	return nil
}

// playGame decides the game at n with exactly one strict-less evaluation
// and records the winner's champion leaf and key. The right contender wins
// only by comparing strictly less (strictly greater when descending), so
// ties resolve toward the left, earlier sequence.
func (t *Tree[V, K]) playGame(n *node[V, K]) error {
	a, b := n.right.key, n.left.key
	if t.descending {
		a, b = b, a
	}
	rightWins, err := t.cmp(a, b)
	if err != nil {
		return err
	}
	w := n.left
	if rightWins {
		w = n.right
	}
	n.champ = w.championLeaf()
	n.key = w.key
	return nil
}

// Next advances to the next merged item, reporting whether one is
// available. Once Next returns false it keeps returning false; Err
// explains why the merge ended.
func (t *Tree[V, K]) Next() bool {
	if t.done {
		return false
	}
	if t.popped != nil {
		leaf := t.popped
		t.popped = nil
		if !t.advance(leaf) {
			return false
		}
	}
	leaf := t.root.championLeaf()
	t.cur = leaf.item
	t.popped = leaf
	return true
}

// At returns the item produced by the last successful Next. It is only
// valid after Next has returned true and before the next call to Next.
func (t *Tree[V, K]) At() V {
	return t.cur
}

// Err returns the failure that terminated the merge, or nil if the merge
// is still active or ended by exhausting every sequence. The returned
// error wraps ErrSequencePull, ErrKeyComputation or ErrComparison together
// with the underlying cause.
func (t *Tree[V, K]) Err() error {
	return t.err
}

// advance refills the leaf whose item was just produced and replays the
// games on its root path. It reports whether the tree still holds an item.
func (t *Tree[V, K]) advance(leaf *node[V, K]) bool {
	start := leaf
	item, err, ok := leaf.next()
	switch {
	case err != nil:
		t.fail(fmt.Errorf("%w: sequence %d: %w", ErrSequencePull, leaf.src, err))
		return false
	case !ok:
		leaf.stop()
		if leaf.parent == nil {
			// Last sequence exhausted; the merge is complete.
			t.root = nil
			t.done = true
			return false
		}
		start = t.promoteSibling(leaf)
		if t.root.kind == leafKind {
			// Only one sequence remains; its keys are never compared again.
			t.key = nil
		}
	default:
		leaf.item = item
		if t.key != nil {
			leaf.key, err = t.key(item)
			if err != nil {
				t.fail(fmt.Errorf("%w: sequence %d: %w", ErrKeyComputation, leaf.src, err))
				return false
			}
		}
	}
	for n := start.parent; n != nil; n = n.parent {
		if err := t.playGame(n); err != nil {
			t.fail(fmt.Errorf("%w: %w", ErrComparison, err))
			return false
		}
	}
	return true
}

// promoteSibling removes an exhausted leaf by moving its sibling's contents
// into their shared parent, keeping the tree strictly binary below the
// root. It returns the parent, from which games must be replayed.
func (t *Tree[V, K]) promoteSibling(leaf *node[V, K]) *node[V, K] {
	parent := leaf.parent
	sibling := parent.left
	if sibling == leaf {
		sibling = parent.right
	}
	parent.kind = sibling.kind
	parent.next = sibling.next
	parent.stop = sibling.stop
	parent.item = sibling.item
	parent.src = sibling.src
	parent.left = sibling.left
	parent.right = sibling.right
	parent.champ = sibling.champ
	parent.key = sibling.key
	if sibling.kind == gameKind {
		sibling.left.parent = parent
		sibling.right.parent = parent
	}
	// Ancestors may still cache the hoisted node as their champion; the
	// replay that follows every promotion rewrites them before any read.
	return parent
}

func (t *Tree[V, K]) fail(err error) {
	release(t.root)
	t.root = nil
	t.err = err
	t.done = true
}

// Close releases the pull handles of every live sequence and terminates
// the merge. It is idempotent and safe to call at any point; Err is
// unaffected.
func (t *Tree[V, K]) Close() {
	release(t.root)
	t.root = nil
	t.done = true
}

func release[V, K any](n *node[V, K]) {
	if n == nil {
		return
	}
	if n.kind == leafKind {
		n.stop()
		return
	}
	release(n.left)
	release(n.right)
}

// All returns the merged items as a sequence. A failure is yielded as a
// final (zero, err) pair. All closes the tree when the loop ends, so
// breaking out of the range releases every input sequence.
func (t *Tree[V, K]) All() iter.Seq2[V, error] {
	return func(yield func(V, error) bool) {
		defer t.Close()
		for t.Next() {
			if !yield(t.cur, nil) {
				return
			}
		}
		if t.err != nil {
			var zero V
			yield(zero, t.err)
		}
	}
}
