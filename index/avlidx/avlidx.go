// Package avlidx implements the balanced-BST lookup strategy as an AVL tree
// keyed by value. Each node carries the list of positions its key occupies,
// so duplicates are retained as distinct entries rather than overwritten.
//
// The Tree contract below is the replaceable component boundary: any
// height-balanced BST exposing the same insert / search-all-matches
// behavior can stand in for the AVL implementation.
package avlidx

import "fmt"

// Tree is the balanced-BST contract the benchmark harness relies on.
//
// Insert adds one (key, position) entry; repeated keys accumulate positions
// in insertion order. Search returns every position recorded for key, nil
// or empty meaning absent. Implementations must keep
// |height(left) - height(right)| <= 1 at every node after each insert.
type Tree interface {
	Insert(key int64, pos int)
	Search(key int64) []int
	Len() int
}

type node struct {
	key       int64
	positions []int
	left      *node
	right     *node
	height    int
}

// Index is the AVL implementation of Tree, plus the Build/Search shape the
// harness drives.
type Index struct {
	root *node
	size int
}

var _ Tree = (*Index)(nil)

func New() *Index {
	return &Index{}
}

// Build discards the current tree and inserts every (key, position) pair in
// population order. O(log N) amortized per insert.
func (ix *Index) Build(population []int64) {
	ix.root = nil
	ix.size = 0
	for i, k := range population {
		ix.Insert(k, i)
	}
}

// Insert adds one entry, rebalancing on the way back up.
func (ix *Index) Insert(key int64, pos int) {
	ix.root = insert(ix.root, key, pos)
	ix.size++
}

// Search returns all positions recorded for key, in insertion order. An
// empty result means not found.
func (ix *Index) Search(key int64) []int {
	n := ix.root
	for n != nil {
		switch {
		case key < n.key:
			n = n.left
		case key > n.key:
			n = n.right
		default:
			return n.positions
		}
	}
	return nil
}

// Len returns the number of inserted entries, duplicates included.
func (ix *Index) Len() int { return ix.size }

// Height returns the tree height; 0 for an empty tree.
func (ix *Index) Height() int { return height(ix.root) }

func height(n *node) int {
	if n == nil {
		return 0
	}
	return n.height
}

func balanceFactor(n *node) int {
	return height(n.left) - height(n.right)
}

func fix(n *node) *node {
	n.height = 1 + max(height(n.left), height(n.right))
	return n
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = fix(y)
	return fix(x)
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = fix(x)
	return fix(y)
}

func insert(n *node, key int64, pos int) *node {
	if n == nil {
		return &node{key: key, positions: []int{pos}, height: 1}
	}
	switch {
	case key < n.key:
		n.left = insert(n.left, key, pos)
	case key > n.key:
		n.right = insert(n.right, key, pos)
	default:
		n.positions = append(n.positions, pos)
		return n
	}

	fix(n)
	switch bf := balanceFactor(n); {
	case bf > 1 && key < n.left.key: // LL
		return rotateRight(n)
	case bf > 1: // LR
		n.left = rotateLeft(n.left)
		return rotateRight(n)
	case bf < -1 && key > n.right.key: // RR
		return rotateLeft(n)
	case bf < -1: // RL
		n.right = rotateRight(n.right)
		return rotateLeft(n)
	}
	return n
}

// Validate walks the whole tree and reports the first violated invariant:
// BST key order, recorded heights, or the AVL balance factor bound.
func (ix *Index) Validate() error {
	_, err := validate(ix.root, nil, nil)
	return err
}

func validate(n *node, lo, hi *int64) (int, error) {
	if n == nil {
		return 0, nil
	}
	if lo != nil && n.key <= *lo {
		return 0, fmt.Errorf("key %d violates BST order (must be > %d)", n.key, *lo)
	}
	if hi != nil && n.key >= *hi {
		return 0, fmt.Errorf("key %d violates BST order (must be < %d)", n.key, *hi)
	}
	lh, err := validate(n.left, lo, &n.key)
	if err != nil {
		return 0, err
	}
	rh, err := validate(n.right, &n.key, hi)
	if err != nil {
		return 0, err
	}
	h := 1 + max(lh, rh)
	if n.height != h {
		return 0, fmt.Errorf("node %d records height %d, actual %d", n.key, n.height, h)
	}
	if bf := lh - rh; bf < -1 || bf > 1 {
		return 0, fmt.Errorf("node %d has balance factor %d", n.key, bf)
	}
	return h, nil
}
