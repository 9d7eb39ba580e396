package rtree

import (
	"github.com/francis-chui/rbush-knn/geom"
	"github.com/francis-chui/rbush-knn/knn"
)

const (
	maxEntries = 8
	minEntries = maxEntries / 2
)

// RTree is an in-memory R-tree. Its nodes are knn.Branch and knn.Leaf
// values, so the tree can be handed to the nearest neighbor search as is.
//
// RTree is not safe for concurrent mutation.
type RTree[T any] struct {
	root   knn.Node[T]
	height int // 0 when the root is a leaf
	count  int
	rect   func(item T) geom.Rect
	eq     func(a, b T) bool
}

// New creates an empty RTree. rect returns the bounding rectangle of an
// item; items are compared with == on removal.
func New[T comparable](rect func(item T) geom.Rect) *RTree[T] {
	return NewFunc(rect, func(a, b T) bool { return a == b })
}

// NewFunc creates an empty RTree that compares items with eq on removal.
func NewFunc[T any](rect func(item T) geom.Rect, eq func(a, b T) bool) *RTree[T] {
	return &RTree[T]{
		root: &knn.Leaf[T]{},
		rect: rect,
		eq:   eq,
	}
}

// Root returns the root node.
func (tr *RTree[T]) Root() knn.Node[T] {
	return tr.root
}

// Rect returns the bounding rectangle of item.
func (tr *RTree[T]) Rect(item T) geom.Rect {
	return tr.rect(item)
}

// Count returns the number of items in the tree.
func (tr *RTree[T]) Count() int {
	return tr.count
}

// Height returns the number of branch levels above the leaves.
func (tr *RTree[T]) Height() int {
	return tr.height
}

// RemoveAll removes all items from the tree.
func (tr *RTree[T]) RemoveAll() {
	tr.root = &knn.Leaf[T]{}
	tr.height = 0
	tr.count = 0
}

// Bounds returns the rectangle covering every item. The result IsEmpty when
// the tree has no items.
func (tr *RTree[T]) Bounds() geom.Rect {
	if tr.count == 0 {
		return geom.EmptyRect()
	}
	return tr.cover(tr.root)
}

// Load inserts all items.
func (tr *RTree[T]) Load(items []T) {
	for _, item := range items {
		tr.Insert(item)
	}
}

// Search calls iter for every item whose rectangle intersects rect. It
// returns false if iter stopped the search.
func (tr *RTree[T]) Search(rect geom.Rect, iter func(item T) bool) bool {
	return tr.search(tr.root, rect, iter)
}

func (tr *RTree[T]) search(node knn.Node[T], rect geom.Rect, iter func(item T) bool) bool {
	switch n := node.(type) {
	case *knn.Branch[T]:
		for _, e := range n.Entries {
			if e.Rect.Intersects(rect) {
				if !tr.search(e.Node, rect, iter) {
					return false
				}
			}
		}
	case *knn.Leaf[T]:
		for _, item := range n.Items {
			if tr.rect(item).Intersects(rect) {
				if !iter(item) {
					return false
				}
			}
		}
	}
	return true
}

// Nearby visits items in ascending distance from p.
func (tr *RTree[T]) Nearby(p geom.Point, iter func(item T, dist float64) bool, opts ...knn.Option) bool {
	return knn.Nearby[T](tr, p, iter, opts...)
}

// KNN returns the n items closest to p, nearest first.
func (tr *RTree[T]) KNN(p geom.Point, n int, opts ...knn.Option) []T {
	return knn.Search[T](tr, p, n, opts...)
}

// cover returns the smallest rectangle holding every child of node.
func (tr *RTree[T]) cover(node knn.Node[T]) geom.Rect {
	rect := geom.EmptyRect()
	switch n := node.(type) {
	case *knn.Branch[T]:
		for _, e := range n.Entries {
			rect = rect.Union(e.Rect)
		}
	case *knn.Leaf[T]:
		for _, item := range n.Items {
			rect = rect.Union(tr.rect(item))
		}
	}
	return rect
}

func size[T any](node knn.Node[T]) int {
	switch n := node.(type) {
	case *knn.Branch[T]:
		return len(n.Entries)
	case *knn.Leaf[T]:
		return len(n.Items)
	}
	return 0
}
