package avl

import (
	"fmt"
	"iter"
)

// Ascend visits every entry in increasing key order until visit returns false.
func (t *Tree[K, V]) Ascend(visit func(key K, value V) bool) {
	ascend(t.root, visit)
}

// Descend visits every entry in decreasing key order until visit returns false.
func (t *Tree[K, V]) Descend(visit func(key K, value V) bool) {
	descend(t.root, visit)
}

// All returns an iterator over the entries in increasing key order.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		ascend(t.root, yield)
	}
}

// Backward returns an iterator over the entries in decreasing key order.
func (t *Tree[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		descend(t.root, yield)
	}
}

func ascend[K any, V any](n *node[K, V], visit func(K, V) bool) bool {
	if n == nil {
		return true
	}
	if !ascend(n.left, visit) {
		return false
	}
	if !visit(n.key, n.value) {
		return false
	}
	return ascend(n.right, visit)
}

func descend[K any, V any](n *node[K, V], visit func(K, V) bool) bool {
	if n == nil {
		return true
	}
	if !descend(n.right, visit) {
		return false
	}
	if !visit(n.key, n.value) {
		return false
	}
	return descend(n.left, visit)
}

// Validate walks the whole tree and checks the cached heights, the balance
// factor of every node, and the strict ordering of keys.
func (t *Tree[K, V]) Validate() error {
	_, err := t.validate(t.root, nil, nil)
	return err
}

func (t *Tree[K, V]) validate(n *node[K, V], lo, hi *K) (int, error) {
	if n == nil {
		return 0, nil
	}
	if lo != nil && t.cmp(*lo, n.key) >= 0 {
		return 0, fmt.Errorf("%w: key %v after %v", ErrOutOfOrder, n.key, *lo)
	}
	if hi != nil && t.cmp(n.key, *hi) >= 0 {
		return 0, fmt.Errorf("%w: key %v before %v", ErrOutOfOrder, n.key, *hi)
	}

	lh, err := t.validate(n.left, lo, &n.key)
	if err != nil {
		return 0, err
	}
	rh, err := t.validate(n.right, &n.key, hi)
	if err != nil {
		return 0, err
	}

	h := 1 + max(lh, rh)
	if n.height != h {
		return 0, fmt.Errorf("%w: key %v cached %d, actual %d", ErrHeightMismatch, n.key, n.height, h)
	}
	if b := lh - rh; b < -1 || b > 1 {
		return 0, fmt.Errorf("%w: key %v balance %d", ErrUnbalanced, n.key, b)
	}
	return h, nil
}
