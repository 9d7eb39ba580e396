package qtree

import (
	"github.com/francis-chui/rbush-knn/geom"
	"github.com/francis-chui/rbush-knn/knn"
)

// View is a snapshot of a QTree shaped for the nearest neighbor search.
// It shares the item values with the tree but not its structure, so later
// inserts and removes do not show up in it.
type View[T any] struct {
	root  knn.Node[T]
	point func(item T) geom.Point
}

// Root returns the root node of the snapshot.
func (v *View[T]) Root() knn.Node[T] {
	return v.root
}

// Rect returns the degenerate rectangle of the item's point.
func (v *View[T]) Rect(item T) geom.Rect {
	return geom.PointRect(v.point(item))
}

// View builds a snapshot of the tree. Every quad node becomes a branch whose
// entries are its non-empty child quads plus one leaf for the points stored at
// the node itself. Entry rectangles are the tight bounds of the points below
// them rather than the quadrant bounds.
func (tr *QTree[T]) View() *View[T] {
	root, _, _ := tr.view(tr.root)
	return &View[T]{root: root, point: tr.point}
}

func (tr *QTree[T]) view(node *nodeT[T]) (knn.Node[T], geom.Rect, bool) {
	br := &knn.Branch[T]{}
	cover := geom.EmptyRect()
	if len(node.points) > 0 {
		leaf := &knn.Leaf[T]{Items: append([]T(nil), node.points...)}
		rect := geom.EmptyRect()
		for _, item := range leaf.Items {
			rect = rect.Union(geom.PointRect(tr.point(item)))
		}
		br.Entries = append(br.Entries, knn.Entry[T]{Rect: rect, Node: leaf})
		cover = cover.Union(rect)
	}
	for _, child := range node.nodes {
		if child == nil {
			continue
		}
		n, rect, ok := tr.view(child)
		if !ok {
			continue
		}
		br.Entries = append(br.Entries, knn.Entry[T]{Rect: rect, Node: n})
		cover = cover.Union(rect)
	}
	if len(br.Entries) == 0 {
		return nil, cover, false
	}
	return br, cover, true
}

// KNN returns the n items closest to p, nearest first.
func (tr *QTree[T]) KNN(p geom.Point, n int, opts ...knn.Option) []T {
	return knn.Search[T](tr.View(), p, n, opts...)
}
