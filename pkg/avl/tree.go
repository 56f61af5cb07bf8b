// Package avl implements a generic height-balanced binary search tree.
//
// The tree is used as the ordered index behind the factory registry and as the
// transient id lookup during network discovery. Keys are compared with a
// caller-supplied function, so any key type can be indexed without type erasure.
//
// A Tree is not safe for concurrent use.
package avl

import (
	"cmp"
	"errors"
)

var (
	ErrUnbalanced     = errors.New("avl: node balance factor out of range")
	ErrHeightMismatch = errors.New("avl: cached height does not match subtree")
	ErrOutOfOrder     = errors.New("avl: in-order keys are not strictly increasing")
)

// CompareFunc returns a negative number when a < b, zero when a == b and a
// positive number when a > b.
type CompareFunc[K any] func(a, b K) int

type node[K any, V any] struct {
	key    K
	value  V
	left   *node[K, V]
	right  *node[K, V]
	height int
}

// Tree is an AVL tree mapping keys to values.
type Tree[K any, V any] struct {
	root      *node[K, V]
	cmp       CompareFunc[K]
	size      int
	rotations uint64
}

// New creates an empty tree ordered by cmp.
func New[K any, V any](cmp CompareFunc[K]) *Tree[K, V] {
	return &Tree[K, V]{cmp: cmp}
}

// NewOrdered creates an empty tree over a naturally ordered key type.
func NewOrdered[K cmp.Ordered, V any]() *Tree[K, V] {
	return New[K, V](cmp.Compare[K])
}

// Len returns the number of entries.
func (t *Tree[K, V]) Len() int {
	return t.size
}

// Height returns the height of the root, 0 for an empty tree.
func (t *Tree[K, V]) Height() int {
	return height(t.root)
}

// Rotations returns the number of single rotations performed since creation.
// A double rotation counts as two.
func (t *Tree[K, V]) Rotations() uint64 {
	return t.rotations
}

// Insert adds key with value. If the key is already present the stored value
// is kept, value is discarded, and Insert returns false.
func (t *Tree[K, V]) Insert(key K, value V) bool {
	var inserted bool
	t.root = t.insert(t.root, key, value, &inserted)
	if inserted {
		t.size++
	}
	return inserted
}

func (t *Tree[K, V]) insert(n *node[K, V], key K, value V, inserted *bool) *node[K, V] {
	if n == nil {
		*inserted = true
		return &node[K, V]{key: key, value: value, height: 1}
	}

	c := t.cmp(key, n.key)
	switch {
	case c < 0:
		n.left = t.insert(n.left, key, value, inserted)
	case c > 0:
		n.right = t.insert(n.right, key, value, inserted)
	default:
		return n
	}
	if !*inserted {
		return n
	}

	n.height = 1 + max(height(n.left), height(n.right))
	balance := balanceOf(n)

	switch {
	case balance > 1 && t.cmp(key, n.left.key) < 0:
		return t.rotateRight(n)
	case balance < -1 && t.cmp(key, n.right.key) > 0:
		return t.rotateLeft(n)
	case balance > 1 && t.cmp(key, n.left.key) > 0:
		n.left = t.rotateLeft(n.left)
		return t.rotateRight(n)
	case balance < -1 && t.cmp(key, n.right.key) < 0:
		n.right = t.rotateRight(n.right)
		return t.rotateLeft(n)
	}
	return n
}

// Search returns the value stored under key.
func (t *Tree[K, V]) Search(key K) (V, bool) {
	n := t.root
	for n != nil {
		c := t.cmp(key, n.key)
		switch {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n.value, true
		}
	}
	var zero V
	return zero, false
}

// Contains reports whether key is present.
func (t *Tree[K, V]) Contains(key K) bool {
	_, ok := t.Search(key)
	return ok
}

// Destroy tears the tree down in post-order, calling release once per entry.
// release may be nil. The tree is empty afterwards and can be reused.
func (t *Tree[K, V]) Destroy(release func(key K, value V)) {
	destroy(t.root, release)
	t.root = nil
	t.size = 0
}

func destroy[K any, V any](n *node[K, V], release func(K, V)) {
	if n == nil {
		return
	}
	destroy(n.left, release)
	destroy(n.right, release)
	if release != nil {
		release(n.key, n.value)
	}
	n.left, n.right = nil, nil
}

func height[K any, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	return n.height
}

func balanceOf[K any, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	return height(n.left) - height(n.right)
}
