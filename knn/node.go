package knn

import "github.com/francis-chui/rbush-knn/geom"

// Node is a node of a spatial index as seen by the search. The only
// implementations are *Branch and *Leaf.
type Node[T any] interface {
	isNode()
}

// Branch is an internal node. Each entry carries the bounding rectangle of
// its subtree.
type Branch[T any] struct {
	Entries []Entry[T]
}

// Entry is a child of a Branch.
type Entry[T any] struct {
	Rect geom.Rect
	Node Node[T]
}

// Leaf is a node whose children are items. The item rectangles come from
// Tree.Rect.
type Leaf[T any] struct {
	Items []T
}

func (*Branch[T]) isNode() {}
func (*Leaf[T]) isNode()   {}

// Tree is the read-only view of a spatial index that the search consumes.
type Tree[T any] interface {
	// Root returns the root node, or nil for an empty index.
	Root() Node[T]
	// Rect returns the bounding rectangle of a leaf item.
	Rect(item T) geom.Rect
}

// StaticTree adapts a prebuilt node hierarchy to a Tree.
type StaticTree[T any] struct {
	RootNode Node[T]
	ToRect   func(item T) geom.Rect
}

// Root returns the root node.
func (t *StaticTree[T]) Root() Node[T] {
	return t.RootNode
}

// Rect returns the rectangle for item.
func (t *StaticTree[T]) Rect(item T) geom.Rect {
	return t.ToRect(item)
}
